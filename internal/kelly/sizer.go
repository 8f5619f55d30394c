package kelly

import (
	"math"

	"github.com/betbot/propbet/internal/domain"
	"github.com/betbot/propbet/pkg/config"
	"github.com/betbot/propbet/pkg/logger"
	"github.com/betbot/propbet/pkg/oddsmath"
)

// maxModelProbability caps the probability fed to Kelly so an extreme edge
// cannot demand an unbounded stake.
const maxModelProbability = 0.85

// BankrollSource exposes the ledger's current bankroll to the sizer. This
// read is the sizer's only dependency on the ledger.
type BankrollSource interface {
	CurrentBankroll() (float64, error)
}

// Sizer converts candidate bets into staked bets with fractional Kelly.
type Sizer struct {
	settings config.KellySettings
	ledger   BankrollSource
}

// NewSizer builds a sizer. ledger may be nil when kelly.use_ledger is off.
func NewSizer(settings config.KellySettings, ledger BankrollSource) *Sizer {
	return &Sizer{settings: settings, ledger: ledger}
}

// Bankroll resolves the working bankroll: the ledger when requested and
// available, otherwise the static setting.
func (s *Sizer) Bankroll() float64 {
	if s.settings.UseLedger && s.ledger != nil {
		if b, err := s.ledger.CurrentBankroll(); err == nil && b > 0 {
			return b
		} else if err != nil {
			logger.Warnf("ledger bankroll unavailable, falling back to static: %v", err)
		}
	}
	return s.settings.Bankroll
}

// Size stakes one candidate. A bet with no tradable price gets the minimum
// unit count and zero dollars: it can be tracked but never funded.
func (s *Sizer) Size(bet domain.CandidateBet) domain.SizedBet {
	sized := domain.SizedBet{CandidateBet: bet, Units: s.settings.MinUnits}

	decimalOdds, ok := s.decimalOdds(bet)
	if !ok {
		return sized
	}
	b := decimalOdds - 1
	if b <= 0 {
		return sized
	}

	p := math.Min(bet.Confidence*(1+bet.EdgePct/100), maxModelProbability)
	q := 1 - p
	fullKelly := (b*p - q) / b
	applied := fullKelly * s.settings.Fraction

	bankroll := s.Bankroll()
	rawUnits := applied * bankroll / 100
	if bet.UnitsScale > 0 {
		rawUnits *= bet.UnitsScale
	}

	units := clamp(rawUnits, s.settings.MinUnits, s.settings.MaxUnits)
	units = roundHalfUnit(units)

	sized.Units = units
	sized.Dollars = round2(units * bankroll / 100)
	return sized
}

// SizeAll stakes a batch in order.
func (s *Sizer) SizeAll(bets []domain.CandidateBet) []domain.SizedBet {
	out := make([]domain.SizedBet, 0, len(bets))
	for _, bet := range bets {
		out = append(out, s.Size(bet))
	}
	return out
}

// decimalOdds derives decimal odds from the American price when present,
// else from the probability price.
func (s *Sizer) decimalOdds(bet domain.CandidateBet) (float64, bool) {
	if bet.Odds != nil {
		d, err := oddsmath.AmericanToDecimal(*bet.Odds)
		if err != nil {
			return 0, false
		}
		return d, true
	}
	if bet.Price != nil && *bet.Price > 0 && *bet.Price < 1 {
		return 1 / *bet.Price, true
	}
	return 0, false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// roundHalfUnit rounds to the nearest 0.5 units.
func roundHalfUnit(units float64) float64 {
	return math.Round(units*2) / 2
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
