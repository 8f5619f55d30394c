package exchange

import (
	"context"
	"sync"

	"github.com/betbot/propbet/internal/domain"
	"github.com/betbot/propbet/pkg/logger"
)

// SimulatedClient is the venue used for demo-only bets and dry runs: it
// accepts everything, fills on the first status poll, and never touches the
// network. Tests drive it directly via SetStatus and failure knobs.
type SimulatedClient struct {
	mu       sync.Mutex
	statuses map[string]Status

	// AutoFill fills an order the first time its status is queried.
	AutoFill bool

	// Failure knobs for tests.
	StatusErr error
	CancelErr error
	PlaceErr  error
}

func NewSimulatedClient() *SimulatedClient {
	return &SimulatedClient{
		statuses: make(map[string]Status),
		AutoFill: true,
	}
}

func (c *SimulatedClient) PlaceOrder(ctx context.Context, order *domain.Order) error {
	if c.PlaceErr != nil {
		return c.PlaceErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[order.OrderID] = StatusOpen
	logger.WithField("order_id", order.OrderID).Infof("simulated: accepted %s %s %s %.1f @ %v",
		order.PlayerName, order.PropType, order.Direction, order.Line, order.Odds)
	return nil
}

func (c *SimulatedClient) OrderStatus(ctx context.Context, orderID string) (Status, error) {
	if c.StatusErr != nil {
		return "", c.StatusErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	status, ok := c.statuses[orderID]
	if !ok {
		status = StatusOpen
	}
	if c.AutoFill && status == StatusOpen {
		c.statuses[orderID] = StatusFilled
		return StatusFilled, nil
	}
	return status, nil
}

func (c *SimulatedClient) CancelOrder(ctx context.Context, orderID string) error {
	if c.CancelErr != nil {
		return c.CancelErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[orderID] = StatusCanceled
	return nil
}

// SetStatus pins a venue-side status, for tests.
func (c *SimulatedClient) SetStatus(orderID string, status Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[orderID] = status
}
