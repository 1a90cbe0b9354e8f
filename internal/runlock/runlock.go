// Package runlock keeps two radar runs on one host from overlapping.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrHeld means another process holds the lock.
var ErrHeld = errors.New("another run holds the lock")

type Lock struct {
	fl *flock.Flock
}

// Acquire takes the lock at path without blocking. An empty path returns
// a no-op lock.
func Acquire(path string) (*Lock, error) {
	if path == "" {
		return &Lock{}, nil
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("lock dir: %w", err)
		}
	}

	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHeld, path)
	}
	return &Lock{fl: fl}, nil
}

func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
