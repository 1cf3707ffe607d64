package store

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/wizzomafizzo/jmp/internal/constants"
	"github.com/wizzomafizzo/jmp/internal/storage"
)

// Backend names accepted by Open.
const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// Options selects where and how the table is stored.
type Options struct {
	FS      afero.Fs
	Backend string
	PadDir  string
}

// Open builds the store for opts. The advisory lock is only used on the real
// filesystem; in-memory filesystems get a no-op locker.
func Open(ctx context.Context, opts Options) (*Store, error) {
	paths := storage.New(opts.FS)

	var backend Backend
	switch opts.Backend {
	case "", BackendYAML:
		backend = NewFileBackend(opts.FS, paths.GetTablePath(opts.PadDir, FileExt))
	case BackendSQLite:
		if _, ok := opts.FS.(*afero.OsFs); !ok {
			return nil, fmt.Errorf("backend %q requires the OS filesystem", opts.Backend)
		}
		sqliteBackend, err := OpenSQLiteBackend(ctx, paths.GetTablePath(opts.PadDir, SQLiteExt))
		if err != nil {
			return nil, err
		}
		backend = sqliteBackend
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}

	var locker Locker = NopLocker{}
	if _, ok := opts.FS.(*afero.OsFs); ok {
		locker = NewFileLocker(backend.Location() + constants.LockSuffix)
	}

	return New(backend, locker), nil
}
