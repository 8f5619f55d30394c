//go:build !unix

package persistence

import "sync"

var fallbackLockMu sync.Mutex

// LockedUpdate on platforms without flock falls back to a process-level
// mutex. Cross-process exclusion then relies on the single-instance
// scheduler assumption.
func LockedUpdate(path string, fn func() error) error {
	fallbackLockMu.Lock()
	defer fallbackLockMu.Unlock()
	return fn()
}
