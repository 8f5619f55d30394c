package lifecycle

import (
	"github.com/betbot/propbet/internal/domain"
	"github.com/betbot/propbet/pkg/persistence"
)

// Store persists one day's orders as a single JSON file, mutated in place
// by the poller. The date-keyed path keeps runs for different days from
// ever sharing a file.
type Store struct {
	paths persistence.Paths
}

func NewStore(dataDir string) *Store {
	return &Store{paths: persistence.Paths{DataDir: dataDir}}
}

// Load reads the day's order set; a missing file is an empty day.
func (s *Store) Load(date string) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := persistence.ReadJSON(s.paths.OrdersFile(date), &orders)
	if err == persistence.ErrNotExists {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// Save writes the day's order set atomically.
func (s *Store) Save(date string, orders []*domain.Order) error {
	if orders == nil {
		orders = []*domain.Order{}
	}
	return persistence.WriteJSON(s.paths.OrdersFile(date), orders)
}
