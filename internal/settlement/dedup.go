package settlement

import (
	"strings"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// Dedup records which orders have already been folded into the ledger, so
// re-running settlement for a day cannot double-count. Backed by a small
// Badger store next to the data files.
type Dedup struct {
	db *badger.DB
}

// OpenDedup opens (or creates) the processed-order store.
func OpenDedup(path string) (*Dedup, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("settlement: dedup path is required")
	}
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "settlement: open dedup store")
	}
	return &Dedup{db: db}, nil
}

func (d *Dedup) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Seen reports whether the order was already settled.
func (d *Dedup) Seen(orderID string) (bool, error) {
	if d == nil || d.db == nil {
		return false, errors.New("settlement: dedup store not opened")
	}
	seen := false
	err := d.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(orderID))
		if err == nil {
			seen = true
			return nil
		}
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
	return seen, err
}

// Mark records the order as settled.
func (d *Dedup) Mark(orderID string) error {
	if d == nil || d.db == nil {
		return errors.New("settlement: dedup store not opened")
	}
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(orderID), []byte{1})
	})
}
