package domain

import (
	"time"

	"github.com/pkg/errors"
)

// OrderState is the lifecycle state of a placed order.
type OrderState string

const (
	OrderStateNew     OrderState = "NEW"
	OrderStateOpen    OrderState = "OPEN"
	OrderStateFilled  OrderState = "FILLED"
	OrderStateExpired OrderState = "EXPIRED"
)

// ErrInvalidTransition is returned when an order state change is not in the
// allowed transition set. The order's state is left untouched.
var ErrInvalidTransition = errors.New("invalid order state transition")

// allowedTransitions: NEW -> {OPEN, FILLED}, OPEN -> {FILLED, EXPIRED}.
// FILLED and EXPIRED are terminal.
var allowedTransitions = map[OrderState]map[OrderState]bool{
	OrderStateNew:  {OrderStateOpen: true, OrderStateFilled: true},
	OrderStateOpen: {OrderStateFilled: true, OrderStateExpired: true},
}

// IsTerminal reports whether the state accepts no further transitions.
func (s OrderState) IsTerminal() bool {
	return s == OrderStateFilled || s == OrderStateExpired
}

// CanTransition reports whether s -> to is allowed.
func (s OrderState) CanTransition(to OrderState) bool {
	return allowedTransitions[s][to]
}

// Order is a lifecycle-owned record of one placed bet. Created once per
// accepted sized bet, then mutated only by the lifecycle poller.
type Order struct {
	OrderID            string        `json:"order_id"`
	Timestamp          time.Time     `json:"timestamp"`
	Exchange           string        `json:"exchange"`
	PlayerName         string        `json:"player_name"`
	PropType           string        `json:"prop_type"`
	Direction          Direction     `json:"direction"`
	Line               float64       `json:"line"`
	Odds               *int          `json:"odds,omitempty"`
	Units              float64       `json:"units"`
	Dollars            float64       `json:"dollars"`
	ExecutionType      ExecutionType `json:"execution_type"`
	State              OrderState    `json:"state"`
	TimeInForceSeconds int           `json:"time_in_force_seconds"`
	DemoOnly           bool          `json:"demo_only,omitempty"`
	FilledAt           *time.Time    `json:"filled_at,omitempty"`
	ExpiredAt          *time.Time    `json:"expired_at,omitempty"`
}

// Transition moves the order to a new state, or fails with
// ErrInvalidTransition without mutating anything.
func (o *Order) Transition(to OrderState, at time.Time) error {
	if !o.State.CanTransition(to) {
		return errors.Wrapf(ErrInvalidTransition, "%s: %s -> %s", o.OrderID, o.State, to)
	}
	o.State = to
	switch to {
	case OrderStateFilled:
		t := at
		o.FilledAt = &t
	case OrderStateExpired:
		t := at
		o.ExpiredAt = &t
	}
	return nil
}

// ExpiredBy reports whether an order has outlived its time in force at now.
func (o *Order) ExpiredBy(now time.Time) bool {
	return now.Sub(o.Timestamp) > time.Duration(o.TimeInForceSeconds)*time.Second
}
