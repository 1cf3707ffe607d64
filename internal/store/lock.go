package store

import (
	"context"
	"time"
)

const lockPollInterval = 25 * time.Millisecond

// Locker provides the cross-process writer lock. The returned function
// releases it.
type Locker interface {
	Lock(ctx context.Context) (func() error, error)
}

// NopLocker never blocks. It is used for in-memory filesystems and on
// platforms without flock.
type NopLocker struct{}

// Lock implements Locker.
func (NopLocker) Lock(context.Context) (func() error, error) {
	return func() error { return nil }, nil
}

// FileLocker takes an advisory lock on a dedicated lock file next to the store.
type FileLocker struct {
	path string
}

// NewFileLocker creates a locker for the given lock file path.
func NewFileLocker(path string) *FileLocker {
	return &FileLocker{path: path}
}

