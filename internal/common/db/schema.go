package db

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE SCHEMA IF NOT EXISTS afvalwijzer`,
	`CREATE TABLE IF NOT EXISTS afvalwijzer.fetch_log (
		cycle_id   UUID PRIMARY KEY,
		fetched_at TIMESTAMPTZ NOT NULL,
		year       INTEGER NOT NULL,
		outcome    TEXT NOT NULL,
		categories INTEGER NOT NULL DEFAULT 0,
		error      TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS fetch_log_fetched_at_idx ON afvalwijzer.fetch_log (fetched_at)`,
	`CREATE TABLE IF NOT EXISTS afvalwijzer.sensor_states (
		sensor_key  TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		icon        TEXT NOT NULL,
		unit        TEXT NOT NULL DEFAULT '',
		state       TEXT,
		available   BOOLEAN NOT NULL,
		hidden      BOOLEAN NOT NULL,
		last_update TIMESTAMPTZ,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates the publication tables if they do not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	db.logger.Debug("Database schema ready")
	return nil
}
