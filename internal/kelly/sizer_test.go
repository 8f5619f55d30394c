package kelly

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/betbot/propbet/internal/domain"
	"github.com/betbot/propbet/pkg/config"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func sizerSettings() config.KellySettings {
	return config.KellySettings{
		Bankroll: 10000,
		Fraction: 0.25,
		MinUnits: 0.5,
		MaxUnits: 3.0,
	}
}

type stubBankroll struct {
	v   float64
	err error
}

func (s stubBankroll) CurrentBankroll() (float64, error) { return s.v, s.err }

func TestSizeClampsToMaxUnits(t *testing.T) {
	// Big edge at -110: raw Kelly wants ~7 units, the clamp caps it at 3.
	bet := domain.CandidateBet{Confidence: 0.6, EdgePct: 10, Odds: iptr(-110), UnitsScale: 1}

	sized := NewSizer(sizerSettings(), nil).Size(bet)
	require.Equal(t, 3.0, sized.Units)
	require.Equal(t, 300.0, sized.Dollars)
}

func TestSizeRoundsToHalfUnits(t *testing.T) {
	bets := []domain.CandidateBet{
		{Confidence: 0.55, EdgePct: 2, Odds: iptr(-110), UnitsScale: 1},
		{Confidence: 0.58, EdgePct: 4, Odds: iptr(+120), UnitsScale: 1},
		{Confidence: 0.52, EdgePct: 3, Odds: iptr(-105), UnitsScale: 1},
	}
	sizer := NewSizer(sizerSettings(), nil)
	for _, bet := range bets {
		sized := sizer.Size(bet)
		require.Zero(t, math.Mod(sized.Units*2, 1), "units %v not half-unit granular", sized.Units)
		require.GreaterOrEqual(t, sized.Units, 0.5)
		require.LessOrEqual(t, sized.Units, 3.0)
	}
}

func TestSizeWithoutTradablePriceIsUnfunded(t *testing.T) {
	bet := domain.CandidateBet{Confidence: 0.7, EdgePct: 10, UnitsScale: 1}

	sized := NewSizer(sizerSettings(), nil).Size(bet)
	require.Equal(t, 0.5, sized.Units)
	require.Equal(t, 0.0, sized.Dollars)
}

func TestSizeUnitsScaleShrinksStake(t *testing.T) {
	base := domain.CandidateBet{Confidence: 0.55, EdgePct: 2, Odds: iptr(-110), UnitsScale: 1}
	scaled := base
	scaled.UnitsScale = 0.5

	sizer := NewSizer(sizerSettings(), nil)
	require.Less(t, sizer.Size(scaled).Units, sizer.Size(base).Units)
}

func TestSizeFromProbabilityPrice(t *testing.T) {
	bet := domain.CandidateBet{Confidence: 0.6, EdgePct: 8, Price: fptr(0.55), UnitsScale: 1}

	sized := NewSizer(sizerSettings(), nil).Size(bet)
	require.Greater(t, sized.Dollars, 0.0)
}

func TestBankrollPrefersLedgerWhenEnabled(t *testing.T) {
	settings := sizerSettings()
	settings.UseLedger = true

	sizer := NewSizer(settings, stubBankroll{v: 20000})
	require.Equal(t, 20000.0, sizer.Bankroll())
}

func TestBankrollFallsBackToStatic(t *testing.T) {
	settings := sizerSettings()
	settings.UseLedger = true

	broken := NewSizer(settings, stubBankroll{err: errFake})
	require.Equal(t, 10000.0, broken.Bankroll())

	disabled := NewSizer(sizerSettings(), stubBankroll{v: 20000})
	require.Equal(t, 10000.0, disabled.Bankroll())
}

var errFake = fakeErr("ledger unavailable")

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

func TestModelProbabilityCap(t *testing.T) {
	// Confidence * (1 + edge) would exceed 1 without the cap; the stake must
	// stay finite and within the clamp.
	bet := domain.CandidateBet{Confidence: 0.8, EdgePct: 80, Odds: iptr(+150), UnitsScale: 1}

	sized := NewSizer(sizerSettings(), nil).Size(bet)
	require.LessOrEqual(t, sized.Units, 3.0)
	require.False(t, math.IsNaN(sized.Dollars))
}
