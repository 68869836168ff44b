package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ivanvallejoss/smartexpense/internal/logging"
)

// ExpectedSchemaVersion is the schema version the application requires.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS categories (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					user_id INTEGER,
					keywords TEXT NOT NULL DEFAULT '[]',
					color TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				// One category per (name, owner); global rows share owner 0.
				`CREATE UNIQUE INDEX idx_categories_name_owner ON categories(name, COALESCE(user_id, 0))`,

				`CREATE TABLE IF NOT EXISTS expenses (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					user_id INTEGER NOT NULL,
					amount TEXT NOT NULL,
					description TEXT NOT NULL,
					category_id INTEGER,
					auto_categorized INTEGER NOT NULL DEFAULT 0,
					date DATETIME NOT NULL,
					raw_message TEXT NOT NULL DEFAULT '',
					FOREIGN KEY (category_id) REFERENCES categories(id)
				)`,
				`CREATE INDEX idx_expenses_user_date ON expenses(user_id, date DESC)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return err
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add suggestion feedback",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS feedback (
					id TEXT PRIMARY KEY,
					expense_id INTEGER NOT NULL,
					user_id INTEGER NOT NULL,
					suggested_category_id INTEGER,
					was_accepted INTEGER NOT NULL,
					final_category_id INTEGER,
					created_at DATETIME NOT NULL,
					FOREIGN KEY (suggested_category_id) REFERENCES categories(id),
					FOREIGN KEY (final_category_id) REFERENCES categories(id)
				)`,
				`CREATE INDEX idx_feedback_user ON feedback(user_id, created_at)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return err
				}
			}
			return nil
		},
	},
}

// Migrate brings the schema up to ExpectedSchemaVersion. Each migration runs
// in its own transaction.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	var currentVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		s.logger.Debug("Applied migration",
			logging.F("version", migration.Version),
			logging.F("description", migration.Description))
	}

	var finalVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion); err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}
	return nil
}
