// Package database opens the SQLite store file and keeps its schema current.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

// pragmas are applied by the driver to every new connection.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"synchronous(FULL)",
	"temp_store(MEMORY)",
}

type Manager struct {
	db   *sql.DB
	path string
}

// NewManager opens the database file at path and migrates it to the latest
// schema version.
func NewManager(ctx context.Context, path string) (*Manager, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One process runs one short command, a single connection is enough.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	manager := &Manager{db: db, path: path}

	if err := manager.runMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return manager, nil
}

func dsn(path string) string {
	query := url.Values{}
	for _, pragma := range pragmas {
		query.Add("_pragma", pragma)
	}
	return "file:" + path + "?" + query.Encode()
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// Path returns the database file.
func (m *Manager) Path() string {
	return m.path
}

func (m *Manager) Close() error {
	if m.db != nil {
		if err := m.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
