package settlement

import (
	"math"
	"strings"

	"github.com/betbot/propbet/internal/domain"
	"github.com/betbot/propbet/internal/ledger"
	"github.com/betbot/propbet/internal/lifecycle"
	"github.com/betbot/propbet/internal/metrics"
	"github.com/betbot/propbet/internal/risk"
	"github.com/betbot/propbet/pkg/logger"
	"github.com/betbot/propbet/pkg/oddsmath"
)

// ResultsBook maps lower-cased player name -> prop type -> actual stat.
type ResultsBook map[string]map[string]float64

// Actual looks up a player's final stat line.
func (r ResultsBook) Actual(player, prop string) (float64, bool) {
	props, ok := r[strings.ToLower(player)]
	if !ok {
		return 0, false
	}
	v, ok := props[prop]
	return v, ok
}

// Settler grades terminal orders against actual results and feeds the
// outcomes into the ledger, once each.
type Settler struct {
	store   *lifecycle.Store
	book    *ledger.Book
	dedup   *Dedup
	breaker *risk.CircuitBreaker
}

func NewSettler(store *lifecycle.Store, book *ledger.Book, dedup *Dedup, breaker *risk.CircuitBreaker) *Settler {
	return &Settler{store: store, book: book, dedup: dedup, breaker: breaker}
}

// SettleDay grades every terminal order on the day's file. Orders already
// marked in the dedup store are skipped, so a re-run is a no-op. Returns
// how many events were applied.
func (s *Settler) SettleDay(date string, results ResultsBook) (int, error) {
	orders, err := s.store.Load(date)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, order := range orders {
		if !order.State.IsTerminal() {
			continue
		}

		seen, err := s.dedup.Seen(order.OrderID)
		if err != nil {
			return applied, err
		}
		if seen {
			continue
		}

		event, ok := Grade(order, results, date)
		if !ok {
			// Result not final yet; a later settlement run picks it up.
			continue
		}

		if err := s.book.ApplySettlement(event); err != nil {
			return applied, err
		}
		if err := s.dedup.Mark(order.OrderID); err != nil {
			// The ledger took the event but the mark failed; surface it
			// loudly so the operator can reconcile instead of re-running.
			return applied, err
		}

		s.breaker.AddPnLCents(int64(math.Round(event.PnL * 100)))
		metrics.SettlementsApplied.Add(1)
		applied++
	}

	logger.Infof("settlement for %s: %d events applied", date, applied)
	return applied, nil
}

// Grade turns one terminal order plus the actual stat into a settlement
// event. An expired (never filled) order is NO_ACTION; a filled order wins
// on its side of the line, pushes exactly on it, loses otherwise.
func Grade(order *domain.Order, results ResultsBook, date string) (domain.SettlementEvent, bool) {
	event := domain.SettlementEvent{
		OrderID: order.OrderID,
		Date:    date,
		Wagered: order.Dollars,
	}

	if order.State == domain.OrderStateExpired {
		event.Outcome = domain.OutcomeNoAction
		return event, true
	}

	actual, ok := results.Actual(order.PlayerName, order.PropType)
	if !ok {
		return domain.SettlementEvent{}, false
	}

	switch {
	case actual == order.Line:
		event.Outcome = domain.OutcomePush
	case (order.Direction == domain.DirectionYes) == (actual > order.Line):
		event.Outcome = domain.OutcomeWin
		event.PnL = winPnL(order)
	default:
		event.Outcome = domain.OutcomeLoss
		event.PnL = -order.Dollars
	}
	return event, true
}

// winPnL is stake times net decimal odds.
func winPnL(order *domain.Order) float64 {
	if order.Odds == nil {
		return 0
	}
	decimalOdds, err := oddsmath.AmericanToDecimal(*order.Odds)
	if err != nil {
		return 0
	}
	return math.Round(order.Dollars*(decimalOdds-1)*100) / 100
}
