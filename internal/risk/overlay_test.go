package risk

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/betbot/propbet/internal/domain"
	"github.com/betbot/propbet/pkg/config"
)

func fptr(v float64) *float64 { return &v }

func overlaySettings(mode string) config.RiskOverlaySettings {
	return config.RiskOverlaySettings{
		Mode:                   mode,
		AlphaConfidence:        0.2,
		BetaUnits:              0.3,
		HighRiskThreshold:      0.7,
		HighRiskEdgeMultiplier: 0.5,
		MaxAvailabilityRisk:    0.85,
		FallbackWeights:        config.FallbackWeights{Injury: 0.5, Minutes: 0.3, Volatility: 0.2},
	}
}

func candidate(player string, edge float64) domain.CandidateBet {
	return domain.CandidateBet{
		PlayerName: player,
		PropType:   "points",
		Direction:  domain.DirectionYes,
		EdgePct:    edge,
		Confidence: 0.7,
		Line:       24.5,
		Source:     "prophetx",
		UnitsScale: 1.0,
	}
}

func TestEnforceDropsOverAvailabilityRisk(t *testing.T) {
	bets := []domain.CandidateBet{candidate("Injured Guy", 8)}
	riskMap := domain.RiskMap{
		"injured guy": {TotalRisk: 0.9, AvailabilityRisk: 0.95},
	}

	out, summary := NewOverlay(overlaySettings(ModeEnforce)).Apply(bets, riskMap)
	require.Empty(t, out)
	require.Equal(t, 1, summary.BaselineCount)
	require.Equal(t, 0, summary.EnhancedCount)
	require.Equal(t, 1, summary.DroppedCount)
}

func TestObserveNeverDropsOrMutates(t *testing.T) {
	bets := []domain.CandidateBet{candidate("Injured Guy", 8)}
	riskMap := domain.RiskMap{
		"injured guy": {TotalRisk: 0.9, AvailabilityRisk: 0.95},
	}

	out, summary := NewOverlay(overlaySettings(ModeObserve)).Apply(bets, riskMap)
	require.Len(t, out, 1)
	require.Equal(t, 1, summary.DroppedCount)
	require.Equal(t, 8.0, out[0].EdgePct)
	require.Equal(t, 0.7, out[0].Confidence)
	require.Equal(t, 1.0, out[0].UnitsScale)
	require.Greater(t, out[0].EnhancedRiskPenalty, 0.0)
}

func TestEnforceAppliesHaircuts(t *testing.T) {
	bets := []domain.CandidateBet{candidate("Risky Guy", 8)}
	riskMap := domain.RiskMap{
		"risky guy": {TotalRisk: 0.5, AvailabilityRisk: 0.1},
	}

	out, _ := NewOverlay(overlaySettings(ModeEnforce)).Apply(bets, riskMap)
	require.Len(t, out, 1)
	require.InDelta(t, 0.15, out[0].EnhancedRiskPenalty, 1e-9)
	require.InDelta(t, 0.7*(1-0.2*0.5), out[0].Confidence, 1e-9)
	require.InDelta(t, 1-0.15, out[0].UnitsScale, 1e-9)
	// Below the high risk threshold, edge is untouched.
	require.Equal(t, 8.0, out[0].EdgePct)
}

func TestEnforceHighRiskEdgeMultiplier(t *testing.T) {
	bets := []domain.CandidateBet{candidate("Very Risky", 8)}
	riskMap := domain.RiskMap{
		"very risky": {TotalRisk: 0.8, AvailabilityRisk: 0.1},
	}

	out, _ := NewOverlay(overlaySettings(ModeEnforce)).Apply(bets, riskMap)
	require.Len(t, out, 1)
	require.InDelta(t, 4.0, out[0].EdgePct, 1e-9)
}

func TestUnitsScaleNeverIncreases(t *testing.T) {
	for _, total := range []float64{0, 0.2, 0.5, 0.8, 1.0} {
		bets := []domain.CandidateBet{candidate("Someone", 8)}
		riskMap := domain.RiskMap{"someone": {TotalRisk: total}}

		out, _ := NewOverlay(overlaySettings(ModeEnforce)).Apply(bets, riskMap)
		require.Len(t, out, 1)
		require.LessOrEqual(t, out[0].UnitsScale, 1.0)
		require.GreaterOrEqual(t, out[0].UnitsScale, 0.0)
	}
}

func TestApplyDedupesSameMarketByEdge(t *testing.T) {
	bets := []domain.CandidateBet{
		candidate("LeBron James", 5),
		candidate("LeBron James", 8),
	}

	out, summary := NewOverlay(overlaySettings(ModeObserve)).Apply(bets, domain.RiskMap{})
	require.Len(t, out, 1)
	require.Equal(t, 8.0, out[0].EdgePct)
	require.Equal(t, 1, summary.BaselineCount)
}

func TestSynthesizeTotalRenormalizesWeights(t *testing.T) {
	w := config.FallbackWeights{Injury: 0.5, Minutes: 0.3, Volatility: 0.2}

	only := SynthesizeTotal(domain.RiskScore{InjuryRisk: fptr(0.8)}, w)
	require.InDelta(t, 0.8, only.TotalRisk, 1e-9)

	two := SynthesizeTotal(domain.RiskScore{InjuryRisk: fptr(0.8), Volatility: fptr(0.4)}, w)
	require.InDelta(t, (0.5*0.8+0.2*0.4)/0.7, two.TotalRisk, 1e-9)

	none := SynthesizeTotal(domain.RiskScore{}, w)
	require.Equal(t, 0.0, none.TotalRisk)
}

func TestLoadRiskMapLowercasesAndSynthesizes(t *testing.T) {
	w := config.FallbackWeights{Injury: 1}
	raw := domain.RiskMap{
		"LeBron James": {InjuryRisk: fptr(0.6)},
	}

	out := LoadRiskMap(raw, w)
	score, ok := out["lebron james"]
	require.True(t, ok)
	require.InDelta(t, 0.6, score.TotalRisk, 1e-9)
}
