//go:build !unix

package store

import "context"

// Lock is a no-op where flock is unavailable; writers fall back to
// last-writer-wins on top of the atomic rename.
func (*FileLocker) Lock(context.Context) (func() error, error) {
	return func() error { return nil }, nil
}
