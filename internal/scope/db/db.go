// Package db provides the Postgres-backed catalog mirror. It can stand in for
// the remote catalog API as the loader's source.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the database connection pool
type DB struct {
	pool *pgxpool.Pool
}

// New creates a new database connection
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the database connection
func (d *DB) Close() {
	d.pool.Close()
}

// EnsureSchema creates the catalog tables if they don't exist
func (d *DB) EnsureSchema(ctx context.Context) error {
	_, err := d.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS font_families (
			position        INTEGER PRIMARY KEY,
			name            TEXT NOT NULL,
			slug            TEXT NOT NULL,
			classifications TEXT[] NOT NULL DEFAULT '{}',
			fvds            TEXT[] NOT NULL DEFAULT '{}',
			subset          TEXT NOT NULL DEFAULT '',
			mirrored_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
