package lifecycle

import (
	"context"
	"time"

	"github.com/betbot/propbet/internal/domain"
	"github.com/betbot/propbet/internal/exchange"
	"github.com/betbot/propbet/internal/metrics"
	"github.com/betbot/propbet/pkg/logger"
	"github.com/betbot/propbet/pkg/sigchan"
)

// Poller advances the day's orders through the state machine on a coarse
// poll interval. Single-threaded by design: one load, one pass, one save
// per cycle.
type Poller struct {
	store  *Store
	router *exchange.Router

	// PollInterval between cycles; MaxCycles bounds the loop (0 =
	// unbounded, the production setting).
	PollInterval time.Duration
	MaxCycles    int

	stop *sigchan.Chan
}

func NewPoller(store *Store, router *exchange.Router) *Poller {
	return &Poller{
		store:        store,
		router:       router,
		PollInterval: 30 * time.Second,
		stop:         sigchan.New(1),
	}
}

// Stop asks the poller to exit after the current cycle.
func (p *Poller) Stop() {
	p.stop.Emit()
}

// Run polls until no OPEN orders remain, the cycle bound is hit, or the
// context/stop signal fires. Returns the final order set.
func (p *Poller) Run(ctx context.Context, date string) ([]*domain.Order, error) {
	cycle := 0
	for {
		cycle++

		orders, err := p.store.Load(date)
		if err != nil {
			return nil, err
		}

		open := p.pollOnce(ctx, orders)

		if err := p.store.Save(date, orders); err != nil {
			return nil, err
		}

		if open == 0 {
			logger.Infof("no OPEN orders remain for %s after cycle %d", date, cycle)
			return orders, nil
		}
		if p.MaxCycles > 0 && cycle >= p.MaxCycles {
			logger.Infof("cycle bound %d reached for %s with %d OPEN orders", p.MaxCycles, date, open)
			return orders, nil
		}

		select {
		case <-ctx.Done():
			return orders, ctx.Err()
		case <-p.stop.C():
			logger.Info("poller stop requested")
			return orders, nil
		case <-time.After(p.PollInterval):
		}
	}
}

// pollOnce advances every OPEN order one step and reports how many remain
// OPEN. A bad transition aborts that order's processing only; siblings are
// untouched.
func (p *Poller) pollOnce(ctx context.Context, orders []*domain.Order) (open int) {
	now := time.Now().UTC()
	for _, order := range orders {
		if order.State != domain.OrderStateOpen {
			continue
		}

		entry := logger.WithField("order_id", order.OrderID)

		client, err := p.router.For(order.Exchange)
		if err != nil {
			entry.Errorf("no client for venue %s: %v", order.Exchange, err)
			open++
			continue
		}

		status, err := client.OrderStatus(ctx, order.OrderID)
		if err != nil {
			// Transient venue trouble: the order stays OPEN and the next
			// cycle retries the read, never the transition.
			entry.Warnf("status query failed: %v", err)
			open++
			continue
		}

		if status == exchange.StatusFilled {
			if err := order.Transition(domain.OrderStateFilled, now); err != nil {
				entry.Errorf("fill transition rejected: %v", err)
				continue
			}
			metrics.OrdersFilled.Add(1)
			entry.Infof("order filled: %s %s %s", order.PlayerName, order.PropType, order.Direction)
			continue
		}

		if order.ExpiredBy(now) {
			// Best effort: local expiry happens even when the venue-side
			// cancel fails. Reconciliation before settlement squares the
			// divergence.
			if err := client.CancelOrder(ctx, order.OrderID); err != nil {
				entry.Warnf("cancel failed, expiring locally anyway: %v", err)
			}
			if err := order.Transition(domain.OrderStateExpired, now); err != nil {
				entry.Errorf("expire transition rejected: %v", err)
				continue
			}
			metrics.OrdersExpired.Add(1)
			entry.Infof("order expired after %ds time in force", order.TimeInForceSeconds)
			continue
		}

		open++
	}
	return open
}
