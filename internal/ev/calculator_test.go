package ev

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/betbot/propbet/internal/domain"
	"github.com/betbot/propbet/pkg/config"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func testSettings() *config.Settings {
	return &config.Settings{
		EVThresholds: config.EVThresholds{
			TakeEdgePct:   5,
			MakeEdgePct:   2,
			MinConfidence: 0.5,
		},
	}
}

func oneProjection(mean, std, confidence float64) domain.ProjectionBook {
	return domain.ProjectionBook{
		"LeBron James": {
			"points": {
				PlayerName: "LeBron James",
				PropType:   "points",
				Projection: mean,
				StdDev:     std,
				Confidence: confidence,
			},
		},
	}
}

func oneBook(q domain.Quote) map[string]domain.QuoteBook {
	book := make(domain.QuoteBook)
	book.Put(q)
	return map[string]domain.QuoteBook{q.Source: book}
}

func TestCalculatePicksPositiveEdgeSide(t *testing.T) {
	// Model: mean 31, std 3 over a 28.5 line -> P(over) ~ 0.798.
	// Market prices YES at 0.58, so YES carries a large positive edge.
	projections := oneProjection(31, 3, 0.7)
	books := oneBook(domain.Quote{
		PlayerName: "LeBron James",
		PropType:   "points",
		Line:       28.5,
		YesPrice:   fptr(0.58),
		NoPrice:    fptr(0.42),
		Source:     "prophetx",
	})

	bets := NewCalculator(testSettings()).Calculate(projections, books)
	require.Len(t, bets, 1)
	require.Equal(t, domain.DirectionYes, bets[0].Direction)
	require.InDelta(t, 37.5, bets[0].EdgePct, 1.0)
	require.Equal(t, domain.ExecutionTake, bets[0].ExecutionType)
	require.Equal(t, 1.0, bets[0].UnitsScale)
}

func TestCalculateAmericanOddsSide(t *testing.T) {
	projections := oneProjection(31, 3, 0.7)
	books := oneBook(domain.Quote{
		PlayerName:  "LeBron James",
		PropType:    "points",
		Line:        28.5,
		AmericanYes: iptr(-110),
		Source:      "novig",
	})

	bets := NewCalculator(testSettings()).Calculate(projections, books)
	require.Len(t, bets, 1)
	require.Equal(t, domain.DirectionYes, bets[0].Direction)
	require.NotNil(t, bets[0].Odds)
	require.Equal(t, -110, *bets[0].Odds)
	require.Greater(t, bets[0].EdgePct, 40.0)
}

func TestCalculateSkipsUnmatchedQuotes(t *testing.T) {
	projections := oneProjection(31, 3, 0.7)
	books := oneBook(domain.Quote{
		PlayerName: "Somebody Else",
		PropType:   "points",
		Line:       28.5,
		YesPrice:   fptr(0.58),
		Source:     "prophetx",
	})

	bets := NewCalculator(testSettings()).Calculate(projections, books)
	require.Empty(t, bets)
}

func TestCalculateMinEdgeGate(t *testing.T) {
	// Fairly priced market: model ~0.798 vs a 0.80 quote has no edge.
	projections := oneProjection(31, 3, 0.7)
	books := oneBook(domain.Quote{
		PlayerName: "LeBron James",
		PropType:   "points",
		Line:       28.5,
		YesPrice:   fptr(0.80),
		Source:     "prophetx",
	})

	bets := NewCalculator(testSettings()).Calculate(projections, books)
	require.Empty(t, bets)
}

func TestCalculateConfidenceGate(t *testing.T) {
	projections := oneProjection(31, 3, 0.4)
	books := oneBook(domain.Quote{
		PlayerName: "LeBron James",
		PropType:   "points",
		Line:       28.5,
		YesPrice:   fptr(0.58),
		Source:     "prophetx",
	})

	bets := NewCalculator(testSettings()).Calculate(projections, books)
	require.Empty(t, bets)
}

func TestCalculateSkipsDegenerateStdDev(t *testing.T) {
	projections := oneProjection(31, 0, 0.7)
	books := oneBook(domain.Quote{
		PlayerName: "LeBron James",
		PropType:   "points",
		Line:       28.5,
		YesPrice:   fptr(0.58),
		Source:     "prophetx",
	})

	bets := NewCalculator(testSettings()).Calculate(projections, books)
	require.Empty(t, bets)
}

func TestCalculateDemoOnlyPropagates(t *testing.T) {
	projections := oneProjection(31, 3, 0.7)
	books := oneBook(domain.Quote{
		PlayerName: "LeBron James",
		PropType:   "points",
		Line:       28.5,
		YesPrice:   fptr(0.58),
		Source:     "novig",
		DemoOnly:   true,
	})

	bets := NewCalculator(testSettings()).Calculate(projections, books)
	require.Len(t, bets, 1)
	require.True(t, bets[0].DemoOnly)
}

func TestCalculateDeterministicOrder(t *testing.T) {
	projections := domain.ProjectionBook{
		"LeBron James": {
			"points": {PlayerName: "LeBron James", PropType: "points", Projection: 31, StdDev: 3, Confidence: 0.7},
		},
		"Nikola Jokic": {
			"points": {PlayerName: "Nikola Jokic", PropType: "points", Projection: 30, StdDev: 3, Confidence: 0.7},
		},
	}
	book := make(domain.QuoteBook)
	book.Put(domain.Quote{PlayerName: "LeBron James", PropType: "points", Line: 28.5, YesPrice: fptr(0.58), Source: "prophetx"})
	book.Put(domain.Quote{PlayerName: "Nikola Jokic", PropType: "points", Line: 28.5, YesPrice: fptr(0.58), Source: "prophetx"})
	books := map[string]domain.QuoteBook{"prophetx": book}

	first := NewCalculator(testSettings()).Calculate(projections, books)
	for i := 0; i < 5; i++ {
		again := NewCalculator(testSettings()).Calculate(projections, books)
		require.Equal(t, first, again)
	}
	require.Len(t, first, 2)
	require.GreaterOrEqual(t, first[0].EdgePct, first[1].EdgePct)
}
