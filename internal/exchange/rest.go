package exchange

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/betbot/propbet/internal/domain"
)

// RESTClient speaks a venue's order API. Placement, status and cancel are
// plain JSON round-trips; transport retries stay inside resty so the
// lifecycle never retries a state transition.
type RESTClient struct {
	name string
	http *resty.Client
}

func NewRESTClient(name, baseURL string, timeoutSeconds int) *RESTClient {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(time.Duration(timeoutSeconds) * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second)
	return &RESTClient{name: name, http: http}
}

type placeOrderRequest struct {
	ClientOrderID      string  `json:"client_order_id"`
	Player             string  `json:"player"`
	Market             string  `json:"market"`
	Side               string  `json:"side"`
	Line               float64 `json:"line"`
	Odds               *int    `json:"odds,omitempty"`
	Stake              float64 `json:"stake"`
	ExecutionType      string  `json:"execution_type"`
	TimeInForceSeconds int     `json:"time_in_force_seconds"`
}

type orderStatusResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// PlaceOrder submits the order under its client order ID.
func (c *RESTClient) PlaceOrder(ctx context.Context, order *domain.Order) error {
	req := placeOrderRequest{
		ClientOrderID:      order.OrderID,
		Player:             order.PlayerName,
		Market:             order.PropType,
		Side:               string(order.Direction),
		Line:               order.Line,
		Odds:               order.Odds,
		Stake:              order.Dollars,
		ExecutionType:      string(order.ExecutionType),
		TimeInForceSeconds: order.TimeInForceSeconds,
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/api/orders")
	if err != nil {
		return errors.Wrapf(err, "%s: place order %s", c.name, order.OrderID)
	}
	if !resp.IsSuccess() {
		return errors.Errorf("%s: place order %s returned %d", c.name, order.OrderID, resp.StatusCode())
	}
	return nil
}

// OrderStatus queries the venue's view of the order.
func (c *RESTClient) OrderStatus(ctx context.Context, orderID string) (Status, error) {
	var out orderStatusResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/orders/" + orderID)
	if err != nil {
		return "", errors.Wrapf(err, "%s: status of %s", c.name, orderID)
	}
	if !resp.IsSuccess() {
		return "", errors.Errorf("%s: status of %s returned %d", c.name, orderID, resp.StatusCode())
	}
	switch out.Status {
	case "filled", "FILLED":
		return StatusFilled, nil
	case "canceled", "CANCELED":
		return StatusCanceled, nil
	default:
		return StatusOpen, nil
	}
}

// CancelOrder asks the venue to pull the order.
func (c *RESTClient) CancelOrder(ctx context.Context, orderID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/api/orders/" + orderID)
	if err != nil {
		return errors.Wrapf(err, "%s: cancel %s", c.name, orderID)
	}
	if !resp.IsSuccess() {
		return errors.Errorf("%s: cancel %s returned %d", c.name, orderID, resp.StatusCode())
	}
	return nil
}
