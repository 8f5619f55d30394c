package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/betbot/propbet/internal/domain"
	"github.com/betbot/propbet/internal/exchange"
	"github.com/betbot/propbet/internal/metrics"
	"github.com/betbot/propbet/internal/risk"
	"github.com/betbot/propbet/pkg/config"
	"github.com/betbot/propbet/pkg/logger"
	"github.com/betbot/propbet/pkg/oddsmath"
)

// Creator turns sized bets into NEW orders and submits them. Placement is
// guarded by the circuit breaker; demo-only bets route to whatever client
// is bound for their venue in the router (the simulated one, in practice).
type Creator struct {
	settings *config.Settings
	router   *exchange.Router
	breaker  *risk.CircuitBreaker
	store    *Store
}

func NewCreator(settings *config.Settings, router *exchange.Router, breaker *risk.CircuitBreaker, store *Store) *Creator {
	return &Creator{settings: settings, router: router, breaker: breaker, store: store}
}

// BuildOrder constructs the NEW order for one sized bet. A bet priced only
// in probability terms gets its American odds derived so settlement can
// compute the payout later.
func BuildOrder(bet domain.SizedBet, timeInForceSeconds int, now time.Time) *domain.Order {
	odds := bet.Odds
	if odds == nil && bet.Price != nil {
		if derived, err := oddsmath.ProbabilityToAmerican(*bet.Price); err == nil {
			odds = &derived
		}
	}
	return &domain.Order{
		OrderID:            uuid.NewString(),
		Timestamp:          now,
		Exchange:           bet.Source,
		PlayerName:         bet.PlayerName,
		PropType:           bet.PropType,
		Direction:          bet.Direction,
		Line:               bet.Line,
		Odds:               odds,
		Units:              bet.Units,
		Dollars:            bet.Dollars,
		ExecutionType:      bet.ExecutionType,
		State:              domain.OrderStateNew,
		TimeInForceSeconds: timeInForceSeconds,
		DemoOnly:           bet.DemoOnly,
	}
}

// PlaceAll creates and submits orders for fundable sized bets, capped at
// max_bets_per_day, and persists the resulting order set. Unfundable bets
// (zero dollars) never reach a venue.
func (c *Creator) PlaceAll(ctx context.Context, date string, bets []domain.SizedBet) ([]*domain.Order, error) {
	existing, err := c.store.Load(date)
	if err != nil {
		return nil, err
	}

	budget := c.settings.EVThresholds.MaxBetsPerDay - len(existing)
	orders := existing
	placed := 0

	for _, bet := range bets {
		if budget <= 0 {
			logger.Infof("max_bets_per_day reached (%d), skipping remaining %s",
				c.settings.EVThresholds.MaxBetsPerDay, "candidates")
			break
		}
		if bet.Dollars <= 0 {
			logger.WithField("player", bet.PlayerName).Debug("skipping unfunded bet (no tradable price)")
			continue
		}
		if err := c.breaker.AllowPlacement(); err != nil {
			logger.Warnf("order placement halted: %v", err)
			break
		}

		order := BuildOrder(bet, c.settings.Exchange.TimeInForceSeconds, time.Now().UTC())
		client, err := c.router.For(order.Exchange)
		if err != nil {
			logger.Errorf("no client for %s, dropping order: %v", order.Exchange, err)
			continue
		}

		if err := client.PlaceOrder(ctx, order); err != nil {
			c.breaker.OnError()
			logger.WithField("order_id", order.OrderID).Errorf("placement failed: %v", err)
			continue
		}
		c.breaker.OnSuccess()

		if err := order.Transition(domain.OrderStateOpen, time.Now().UTC()); err != nil {
			logger.WithField("order_id", order.OrderID).Errorf("open transition failed: %v", err)
			continue
		}

		orders = append(orders, order)
		metrics.OrdersPlaced.Add(1)
		budget--
		placed++
	}

	if err := c.store.Save(date, orders); err != nil {
		return nil, err
	}
	logger.Infof("placed %d orders for %s (%d total on file)", placed, date, len(orders))
	return orders, nil
}
