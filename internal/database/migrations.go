package database

import (
	"context"
	"errors"
	"fmt"
)

// ErrSchemaTooNew is returned when the database was written by a newer jmp.
var ErrSchemaTooNew = errors.New("database schema is newer than this jmp")

type migration struct {
	sql     string
	version int
}

var migrations = []migration{
	{
		version: 1,
		sql: `
			CREATE TABLE bookmarks (
				name TEXT PRIMARY KEY,
				path TEXT NOT NULL,
				relative INTEGER NOT NULL DEFAULT 0,
				base TEXT NOT NULL DEFAULT '',
				used INTEGER NOT NULL DEFAULT 0,
				updated_at INTEGER NOT NULL DEFAULT (unixepoch())
			);

			CREATE INDEX idx_bookmarks_used ON bookmarks(used);
		`,
	},
}

// SchemaVersion is the schema version this build writes.
func SchemaVersion() int {
	return migrations[len(migrations)-1].version
}

func (m *Manager) runMigrations(ctx context.Context) error {
	var currentVersion int
	err := m.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current database version: %w", err)
	}

	if currentVersion > SchemaVersion() {
		return fmt.Errorf("%w: version %d, supported %d", ErrSchemaTooNew, currentVersion, SchemaVersion())
	}

	for _, migration := range migrations {
		if migration.version <= currentVersion {
			continue
		}
		if err := m.executeMigration(ctx, migration); err != nil {
			return err
		}
	}

	return nil
}

func (m *Manager) executeMigration(ctx context.Context, migration migration) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, migration.sql); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to execute migration %d: %w", migration.version, err)
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", migration.version)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to update database version to %d: %w", migration.version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", migration.version, err)
	}
	return nil
}
