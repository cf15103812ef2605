// Package storage provides the data persistence layer for the podium
// application: the imported lens catalog and saved quotes.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial lens catalog schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS lenses (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					code TEXT UNIQUE NOT NULL,
					name TEXT NOT NULL,
					brand TEXT NOT NULL,
					lens_type TEXT NOT NULL,
					refractive_index TEXT NOT NULL,
					design TEXT,
					coating TEXT,
					flow TEXT,
					purchase_price REAL NOT NULL DEFAULT 0,
					purchase_price_bonifie REAL NOT NULL DEFAULT 0,
					purchase_price_super_bonifie REAL NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_lenses_brand ON lenses(brand)`,
				`CREATE INDEX idx_lenses_type ON lenses(lens_type)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add negotiated network prices",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS network_prices (
					lens_id INTEGER NOT NULL,
					network TEXT NOT NULL,
					price REAL NOT NULL,
					UNIQUE(lens_id, network),
					FOREIGN KEY (lens_id) REFERENCES lenses(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_network_prices_lens ON network_prices(lens_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Add quote persistence",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS quotes (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					client TEXT NOT NULL,
					reimbursement REAL NOT NULL DEFAULT 0,
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_quotes_client ON quotes(client)`,

				`CREATE TABLE IF NOT EXISTS quote_lines (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					quote_id INTEGER NOT NULL,
					position INTEGER NOT NULL,
					kind TEXT NOT NULL,
					label TEXT,
					code TEXT NOT NULL,
					name TEXT NOT NULL,
					brand TEXT NOT NULL,
					lens_type TEXT NOT NULL,
					refractive_index TEXT,
					design TEXT,
					coating TEXT,
					purchase_price REAL NOT NULL DEFAULT 0,
					selling_price REAL NOT NULL DEFAULT 0,
					margin REAL NOT NULL DEFAULT 0,
					FOREIGN KEY (quote_id) REFERENCES quotes(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_quote_lines_quote ON quote_lines(quote_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
