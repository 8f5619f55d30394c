package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/betbot/propbet/internal/domain"
	"github.com/betbot/propbet/internal/exchange"
)

func openOrder(id string, placed time.Time, tifSeconds int) *domain.Order {
	odds := -110
	return &domain.Order{
		OrderID:            id,
		Timestamp:          placed,
		Exchange:           "sim",
		PlayerName:         "Some Player",
		PropType:           "points",
		Direction:          domain.DirectionYes,
		Line:               24.5,
		Odds:               &odds,
		Units:              1,
		Dollars:            100,
		State:              domain.OrderStateOpen,
		TimeInForceSeconds: tifSeconds,
	}
}

func newPoller(t *testing.T, client exchange.Client) (*Poller, *Store) {
	t.Helper()
	router := exchange.NewRouter()
	router.Bind("sim", client)
	store := NewStore(t.TempDir())
	poller := NewPoller(store, router)
	poller.PollInterval = time.Millisecond
	return poller, store
}

func TestPollerFillsAndStops(t *testing.T) {
	client := exchange.NewSimulatedClient()
	poller, store := newPoller(t, client)

	order := openOrder("o1", time.Now().UTC(), 3600)
	require.NoError(t, store.Save("2026-01-15", []*domain.Order{order}))

	orders, err := poller.Run(context.Background(), "2026-01-15")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, domain.OrderStateFilled, orders[0].State)
	require.NotNil(t, orders[0].FilledAt)

	persisted, err := store.Load("2026-01-15")
	require.NoError(t, err)
	require.Equal(t, domain.OrderStateFilled, persisted[0].State)
}

func TestPollerExpiresStaleOrders(t *testing.T) {
	client := exchange.NewSimulatedClient()
	client.AutoFill = false
	poller, store := newPoller(t, client)

	order := openOrder("o1", time.Now().UTC().Add(-2*time.Hour), 3600)
	client.SetStatus("o1", exchange.StatusOpen)
	require.NoError(t, store.Save("2026-01-15", []*domain.Order{order}))

	orders, err := poller.Run(context.Background(), "2026-01-15")
	require.NoError(t, err)
	require.Equal(t, domain.OrderStateExpired, orders[0].State)
	require.NotNil(t, orders[0].ExpiredAt)
}

func TestPollerExpiresEvenWhenCancelFails(t *testing.T) {
	client := exchange.NewSimulatedClient()
	client.AutoFill = false
	client.CancelErr = errors.New("venue unreachable")
	poller, store := newPoller(t, client)

	order := openOrder("o1", time.Now().UTC().Add(-2*time.Hour), 3600)
	client.SetStatus("o1", exchange.StatusOpen)
	require.NoError(t, store.Save("2026-01-15", []*domain.Order{order}))

	orders, err := poller.Run(context.Background(), "2026-01-15")
	require.NoError(t, err)
	require.Equal(t, domain.OrderStateExpired, orders[0].State)
}

func TestPollerKeepsOrderOpenOnStatusError(t *testing.T) {
	client := exchange.NewSimulatedClient()
	client.StatusErr = errors.New("venue flaking")
	poller, store := newPoller(t, client)
	poller.MaxCycles = 2

	order := openOrder("o1", time.Now().UTC(), 3600)
	require.NoError(t, store.Save("2026-01-15", []*domain.Order{order}))

	orders, err := poller.Run(context.Background(), "2026-01-15")
	require.NoError(t, err)
	require.Equal(t, domain.OrderStateOpen, orders[0].State)
}

func TestPollerLeavesSiblingsAloneOnPerOrderTrouble(t *testing.T) {
	client := exchange.NewSimulatedClient()
	client.AutoFill = false
	poller, store := newPoller(t, client)
	poller.MaxCycles = 1

	healthy := openOrder("healthy", time.Now().UTC(), 3600)
	client.SetStatus("healthy", exchange.StatusFilled)
	stuck := openOrder("stuck", time.Now().UTC(), 3600)
	client.SetStatus("stuck", exchange.StatusOpen)
	require.NoError(t, store.Save("2026-01-15", []*domain.Order{healthy, stuck}))

	orders, err := poller.Run(context.Background(), "2026-01-15")
	require.NoError(t, err)
	require.Equal(t, domain.OrderStateFilled, orders[0].State)
	require.Equal(t, domain.OrderStateOpen, orders[1].State)
}

func TestPollerEmptyDayReturnsImmediately(t *testing.T) {
	poller, _ := newPoller(t, exchange.NewSimulatedClient())

	orders, err := poller.Run(context.Background(), "2026-01-15")
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestPollerStopRequest(t *testing.T) {
	client := exchange.NewSimulatedClient()
	client.AutoFill = false
	poller, store := newPoller(t, client)
	poller.PollInterval = time.Hour

	order := openOrder("o1", time.Now().UTC(), 3600)
	client.SetStatus("o1", exchange.StatusOpen)
	require.NoError(t, store.Save("2026-01-15", []*domain.Order{order}))

	poller.Stop()
	done := make(chan struct{})
	go func() {
		defer close(done)
		orders, err := poller.Run(context.Background(), "2026-01-15")
		require.NoError(t, err)
		require.Equal(t, domain.OrderStateOpen, orders[0].State)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not honor stop request")
	}
}
