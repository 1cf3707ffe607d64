// Package store persists the bookmark table. A Store pairs a Backend, which
// knows the on-disk format, with a Locker that serializes writers across
// processes. Readers never lock; backends replace the table atomically so a
// reader sees either the old or the new table in full.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/wizzomafizzo/jmp/internal/bookmark"
	"github.com/wizzomafizzo/jmp/internal/logging"
)

var (
	// ErrCorruptStore is returned when the store exists but cannot be decoded.
	// The file is left untouched for manual recovery.
	ErrCorruptStore = errors.New("corrupt bookmark store")

	// ErrUnsupportedVersion is returned for stores written in an unknown format version.
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported format version", ErrCorruptStore)
)

// Backend reads and writes a whole bookmark table.
type Backend interface {
	Load(ctx context.Context) (*bookmark.Table, error)
	Save(ctx context.Context, table *bookmark.Table) error
	Location() string
	Close() error
}

// Store brackets table access for one invocation.
type Store struct {
	backend Backend
	locker  Locker
}

// New creates a store. A nil locker disables cross-process locking.
func New(backend Backend, locker Locker) *Store {
	if locker == nil {
		locker = NopLocker{}
	}
	return &Store{backend: backend, locker: locker}
}

// Location returns where the table is persisted.
func (s *Store) Location() string {
	return s.backend.Location()
}

// Load reads the table without taking the writer lock.
func (s *Store) Load(ctx context.Context) (*bookmark.Table, error) {
	table, err := s.backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	logging.Get(ctx).Debug().Str("store", s.Location()).Int("bookmarks", table.Len()).Msg("loaded table")
	return table, nil
}

// Update runs fn on a freshly loaded table while holding the writer lock and
// saves the table when fn reports a change. Holding the lock across the
// load-modify-save cycle keeps concurrent writers from losing each other's
// updates.
func (s *Store) Update(ctx context.Context, fn func(*bookmark.Table) (bool, error)) (err error) {
	unlock, err := s.locker.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to lock store: %w", err)
	}
	defer func() {
		if unlockErr := unlock(); unlockErr != nil && err == nil {
			err = fmt.Errorf("failed to unlock store: %w", unlockErr)
		}
	}()

	table, err := s.Load(ctx)
	if err != nil {
		return err
	}

	changed, err := fn(table)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.save(ctx, table)
}

// Close releases backend resources.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) save(ctx context.Context, table *bookmark.Table) error {
	if err := s.backend.Save(ctx, table); err != nil {
		return err
	}
	logging.Get(ctx).Debug().Str("store", s.Location()).Int("bookmarks", table.Len()).Msg("saved table")
	return nil
}
