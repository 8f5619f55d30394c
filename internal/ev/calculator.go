package ev

import (
	"sort"

	"github.com/betbot/propbet/internal/domain"
	"github.com/betbot/propbet/internal/metrics"
	"github.com/betbot/propbet/pkg/config"
	"github.com/betbot/propbet/pkg/logger"
	"github.com/betbot/propbet/pkg/oddsmath"
)

// Calculator turns (projection, quote) pairs into candidate bets.
type Calculator struct {
	settings *config.Settings
}

func NewCalculator(settings *config.Settings) *Calculator {
	return &Calculator{settings: settings}
}

// sideView is one tradable side of a quote with its implied probability.
type sideView struct {
	direction domain.Direction
	implied   float64
	odds      *int
	price     *float64
}

// sides extracts whichever sides of the quote carry a price. A side priced
// in probability terms implies directly; American odds go through the
// decimal conversion.
func sides(q domain.Quote) []sideView {
	var out []sideView
	for _, d := range []domain.Direction{domain.DirectionYes, domain.DirectionNo} {
		if p := q.SidePrice(d); p != nil {
			out = append(out, sideView{direction: d, implied: *p, price: p, odds: q.SideOdds(d)})
			continue
		}
		if o := q.SideOdds(d); o != nil {
			implied, err := oddsmath.AmericanToImplied(*o)
			if err != nil {
				continue
			}
			out = append(out, sideView{direction: d, implied: implied, odds: o})
		}
	}
	return out
}

// Calculate walks every (player, prop) present in both the projections and
// a source's quotes, computes the edge on both sides, and emits the better
// side when it clears the minimum edge and confidence gates. Players or
// props on only one side of the join are skipped silently; unmatched
// records are normal, not errors.
func (c *Calculator) Calculate(projections domain.ProjectionBook, books map[string]domain.QuoteBook) []domain.CandidateBet {
	var out []domain.CandidateBet

	minEdge := c.settings.MinEdgePct()
	minConfidence := c.settings.EVThresholds.MinConfidence

	for _, book := range books {
		for player, props := range book {
			projProps, ok := projections[player]
			if !ok {
				continue
			}
			for propType, quote := range props {
				proj, ok := projProps[propType]
				if !ok {
					continue
				}
				if bet, ok := c.evaluate(proj, quote, minEdge, minConfidence); ok {
					out = append(out, bet)
				}
			}
		}
	}

	// Deterministic output order: best edge first, then key for stability.
	sort.Slice(out, func(i, j int) bool {
		if out[i].EdgePct != out[j].EdgePct {
			return out[i].EdgePct > out[j].EdgePct
		}
		return out[i].Key() < out[j].Key()
	})
	metrics.CandidatesEmitted.Add(int64(len(out)))
	return out
}

// evaluate scores both sides of one quote and keeps the better one if it
// clears the gates.
func (c *Calculator) evaluate(proj domain.Projection, quote domain.Quote, minEdge, minConfidence float64) (domain.CandidateBet, bool) {
	if proj.Confidence < minConfidence {
		return domain.CandidateBet{}, false
	}
	if proj.StdDev <= 0 {
		logger.Debugf("skipping %s/%s: non-positive std_dev", proj.PlayerName, proj.PropType)
		return domain.CandidateBet{}, false
	}

	pOver := oddsmath.OverProbability(proj.Projection, quote.Line, proj.StdDev)

	best := domain.CandidateBet{}
	found := false
	for _, side := range sides(quote) {
		modelProb := pOver
		if side.direction == domain.DirectionNo {
			modelProb = 1 - pOver
		}
		edge := oddsmath.Edge(modelProb, side.implied)
		if !found || edge > best.EdgePct {
			best = domain.CandidateBet{
				PlayerName:    quote.PlayerName,
				PropType:      quote.PropType,
				Direction:     side.direction,
				EdgePct:       edge,
				Confidence:    proj.Confidence,
				Line:          quote.Line,
				Odds:          side.odds,
				Price:         side.price,
				AvailableSize: quote.AvailableSize,
				Source:        quote.Source,
				DemoOnly:      quote.DemoOnly,
				UnitsScale:    1.0,
			}
			found = true
		}
	}
	if !found || best.EdgePct < minEdge {
		return domain.CandidateBet{}, false
	}

	best.ExecutionType = domain.ExecutionMake
	if best.EdgePct >= c.settings.EVThresholds.TakeEdgePct {
		best.ExecutionType = domain.ExecutionTake
	}
	return best, true
}
