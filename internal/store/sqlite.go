package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wizzomafizzo/jmp/internal/bookmark"
	"github.com/wizzomafizzo/jmp/internal/database"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteExt is the extension of the SQLite store file.
const SQLiteExt = ".db"

// SQLiteBackend stores the table in a SQLite database. Save replaces every
// row inside one transaction.
type SQLiteBackend struct {
	manager *database.Manager
}

// OpenSQLiteBackend opens or creates the database at path.
func OpenSQLiteBackend(ctx context.Context, path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", filepath.Dir(path), err)
	}

	manager, err := database.NewManager(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, classifySQLiteError(err))
	}
	return &SQLiteBackend{manager: manager}, nil
}

// Location implements Backend.
func (b *SQLiteBackend) Location() string {
	return b.manager.Path()
}

// Load implements Backend.
func (b *SQLiteBackend) Load(ctx context.Context) (*bookmark.Table, error) {
	rows, err := b.manager.DB().QueryContext(ctx,
		"SELECT name, path, relative, base, used FROM bookmarks")
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", classifySQLiteError(err))
	}
	defer func() { _ = rows.Close() }()

	table := bookmark.NewTable()
	for rows.Next() {
		var b bookmark.Bookmark
		if err := rows.Scan(&b.Name, &b.Path, &b.Relative, &b.Base, &b.Used); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptStore, err)
		}
		if err := table.Put(b); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptStore, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bookmarks: %w", classifySQLiteError(err))
	}
	return table, nil
}

// Save implements Backend.
func (b *SQLiteBackend) Save(ctx context.Context, table *bookmark.Table) error {
	tx, err := b.manager.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM bookmarks"); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to clear bookmarks: %w", err)
	}

	for _, bm := range table.Sorted() {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO bookmarks (name, path, relative, base, used) VALUES (?, ?, ?, ?, ?)",
			bm.Name, bm.Path, bm.Relative, bm.Base, bm.Used)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert bookmark %s: %w", bm.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bookmarks: %w", err)
	}
	return nil
}

// Close implements Backend.
func (b *SQLiteBackend) Close() error {
	return b.manager.Close()
}

func classifySQLiteError(err error) error {
	if errors.Is(err, database.ErrSchemaTooNew) {
		return fmt.Errorf("%w: %w", ErrUnsupportedVersion, err)
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CORRUPT:
			return fmt.Errorf("%w: %w", ErrCorruptStore, err)
		}
	}
	return err
}
