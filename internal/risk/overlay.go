package risk

import (
	"strings"

	"github.com/betbot/propbet/internal/domain"
	"github.com/betbot/propbet/internal/metrics"
	"github.com/betbot/propbet/pkg/config"
	"github.com/betbot/propbet/pkg/logger"
)

// Mode selects whether the overlay only reports or actually intervenes.
const (
	ModeObserve = "observe"
	ModeEnforce = "enforce"
)

// Summary is the audit record for one overlay pass.
type Summary struct {
	BaselineCount int `json:"baseline_count"`
	EnhancedCount int `json:"enhanced_count"`
	DroppedCount  int `json:"dropped_count"`
}

// Overlay adjusts candidate bets for player-level risk before sizing.
type Overlay struct {
	settings config.RiskOverlaySettings
}

func NewOverlay(settings config.RiskOverlaySettings) *Overlay {
	return &Overlay{settings: settings}
}

// Apply risk-adjusts the candidates. In observe mode every adjustment is
// computed, annotated and logged but nothing is changed or dropped; in
// enforce mode the haircuts land and over-risk bets are removed.
//
// Conflicting candidates for the same (player, prop) are resolved first:
// the higher base edge wins, deterministically.
func (o *Overlay) Apply(bets []domain.CandidateBet, riskMap domain.RiskMap) ([]domain.CandidateBet, Summary) {
	bets = dedupeByEdge(bets)
	summary := Summary{BaselineCount: len(bets)}
	enforce := o.settings.Mode == ModeEnforce

	out := make([]domain.CandidateBet, 0, len(bets))
	for _, bet := range bets {
		score, found := riskMap[strings.ToLower(bet.PlayerName)]
		if !found {
			score = o.syntheticScore()
		}

		penalty := o.settings.BetaUnits * score.TotalRisk
		adjustedConfidence := bet.Confidence * (1 - o.settings.AlphaConfidence*score.TotalRisk)
		adjustedEdge := bet.EdgePct
		if score.TotalRisk > o.settings.HighRiskThreshold {
			adjustedEdge *= o.settings.HighRiskEdgeMultiplier
		}

		overAvailability := score.AvailabilityRisk > o.settings.MaxAvailabilityRisk

		entry := logger.WithFields(map[string]interface{}{
			"player":     bet.PlayerName,
			"prop":       bet.PropType,
			"total_risk": score.TotalRisk,
		})

		if overAvailability {
			summary.DroppedCount++
			if enforce {
				metrics.BetsDropped.Add(1)
				entry.Warnf("dropping bet: availability_risk %.2f > %.2f",
					score.AvailabilityRisk, o.settings.MaxAvailabilityRisk)
				continue
			}
			entry.Warnf("observe mode: would drop bet, availability_risk %.2f > %.2f",
				score.AvailabilityRisk, o.settings.MaxAvailabilityRisk)
		}

		bet.EnhancedRiskPenalty = penalty
		if enforce {
			bet.Confidence = adjustedConfidence
			bet.EdgePct = adjustedEdge
			bet.UnitsScale *= (1 - penalty)
			if bet.UnitsScale < 0 {
				bet.UnitsScale = 0
			}
		} else {
			entry.Infof("observe mode: penalty=%.3f confidence %.3f->%.3f edge %.2f->%.2f",
				penalty, bet.Confidence, adjustedConfidence, bet.EdgePct, adjustedEdge)
		}
		out = append(out, bet)
	}

	summary.EnhancedCount = len(out)
	logger.Infof("risk overlay (%s): baseline=%d enhanced=%d dropped=%d",
		o.settings.Mode, summary.BaselineCount, summary.EnhancedCount, summary.DroppedCount)
	return out, summary
}

// syntheticScore builds a total risk from the configured fallback weights
// over whichever components exist. With no components at all the weights
// collapse to zero risk.
func (o *Overlay) syntheticScore() domain.RiskScore {
	return SynthesizeTotal(domain.RiskScore{}, o.settings.FallbackWeights)
}

// SynthesizeTotal recomputes TotalRisk as the weighted mean of the present
// components, renormalizing weights over the available subset.
func SynthesizeTotal(score domain.RiskScore, w config.FallbackWeights) domain.RiskScore {
	sum, weight := 0.0, 0.0
	if score.InjuryRisk != nil {
		sum += w.Injury * *score.InjuryRisk
		weight += w.Injury
	}
	if score.MinutesRisk != nil {
		sum += w.Minutes * *score.MinutesRisk
		weight += w.Minutes
	}
	if score.Volatility != nil {
		sum += w.Volatility * *score.Volatility
		weight += w.Volatility
	}
	if weight > 0 {
		score.TotalRisk = sum / weight
	} else {
		score.TotalRisk = 0
	}
	return score
}

// dedupeByEdge keeps the higher base edge per (player, prop). Order of the
// survivors follows the input.
func dedupeByEdge(bets []domain.CandidateBet) []domain.CandidateBet {
	best := make(map[string]int, len(bets))
	out := make([]domain.CandidateBet, 0, len(bets))
	for _, bet := range bets {
		key := bet.Key()
		if idx, ok := best[key]; ok {
			if bet.EdgePct > out[idx].EdgePct {
				out[idx] = bet
			}
			continue
		}
		best[key] = len(out)
		out = append(out, bet)
	}
	return out
}

// LoadRiskMap reads the day's risk score file and synthesizes any entry
// with a zero TotalRisk but component scores present. Missing file is an
// empty map: every bet then gets the fallback weighting.
func LoadRiskMap(raw domain.RiskMap, w config.FallbackWeights) domain.RiskMap {
	out := make(domain.RiskMap, len(raw))
	for name, score := range raw {
		if score.TotalRisk == 0 {
			score = SynthesizeTotal(score, w)
		}
		out[strings.ToLower(name)] = score
	}
	return out
}
