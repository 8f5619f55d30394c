package exchange

import (
	"context"

	"github.com/pkg/errors"

	"github.com/betbot/propbet/internal/domain"
)

// Status is the venue-reported state of an order.
type Status string

const (
	StatusOpen     Status = "OPEN"
	StatusFilled   Status = "FILLED"
	StatusCanceled Status = "CANCELED"
)

// Client is what the lifecycle needs from a venue: submit, query, cancel.
type Client interface {
	PlaceOrder(ctx context.Context, order *domain.Order) error
	OrderStatus(ctx context.Context, orderID string) (Status, error)
	CancelOrder(ctx context.Context, orderID string) error
}

// Router dispatches by owning exchange name.
type Router struct {
	clients map[string]Client
}

func NewRouter() *Router {
	return &Router{clients: make(map[string]Client)}
}

// Bind attaches a client for a venue.
func (r *Router) Bind(name string, c Client) {
	r.clients[name] = c
}

// For returns the client owning the venue.
func (r *Router) For(name string) (Client, error) {
	c, ok := r.clients[name]
	if !ok {
		return nil, errors.Errorf("no exchange client bound for %q", name)
	}
	return c, nil
}
