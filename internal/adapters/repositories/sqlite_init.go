package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the SQLite history schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
	CREATE TABLE IF NOT EXISTS location_history (
		id TEXT PRIMARY KEY,
		source_name TEXT NOT NULL,
		source_lat REAL NOT NULL,
		source_lng REAL NOT NULL,
		destination_name TEXT NOT NULL,
		destination_lat REAL NOT NULL,
		destination_lng REAL NOT NULL,
		distance_km TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_location_history_created_at
	ON location_history(created_at DESC, id DESC);
	`,
	}

	return execSchema(ctx, db, statements)
}

// InitPostgresSchema creates the Postgres history schema.
func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
	CREATE TABLE IF NOT EXISTS location_history (
		id TEXT PRIMARY KEY,
		source_name TEXT NOT NULL,
		source_lat DOUBLE PRECISION NOT NULL,
		source_lng DOUBLE PRECISION NOT NULL,
		destination_name TEXT NOT NULL,
		destination_lat DOUBLE PRECISION NOT NULL,
		destination_lng DOUBLE PRECISION NOT NULL,
		distance_km TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_location_history_created_at
	ON location_history(created_at DESC, id DESC);
	`,
	}

	return execSchema(ctx, db, statements)
}

func execSchema(ctx context.Context, db *sql.DB, statements []string) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
