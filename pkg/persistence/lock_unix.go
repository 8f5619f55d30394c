//go:build unix

package persistence

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// LockedUpdate runs fn while holding an exclusive flock on a sidecar lock
// file next to path. This makes the read-modify-write of a shared document
// (the ledger) single-writer across processes, not just within one.
func LockedUpdate(path string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	lockFile, err := os.OpenFile(path+".lock", os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	defer lockFile.Close()

	if err := unix.Flock(int(lockFile.Fd()), unix.LOCK_EX); err != nil {
		return err
	}
	defer unix.Flock(int(lockFile.Fd()), unix.LOCK_UN)

	return fn()
}
