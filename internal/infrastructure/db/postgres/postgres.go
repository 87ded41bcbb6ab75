// Package postgres stores the ledger and its audit trail in PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultTimeout = 10 * time.Second

const schema = `
CREATE TABLE IF NOT EXISTS ledger_profiles (
	id       BIGINT PRIMARY KEY,
	username TEXT   NOT NULL,
	points   BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS ledger_adjustments (
	id           UUID        PRIMARY KEY,
	actor        BIGINT      NOT NULL,
	target       BIGINT      NOT NULL,
	display_name TEXT        NOT NULL,
	delta        BIGINT      NOT NULL,
	balance      BIGINT      NOT NULL,
	at           TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS ledger_adjustments_target_at ON ledger_adjustments (target, at DESC);
`

// Connect opens a pool, pings it and creates the tables if missing.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	if err := EnsureSchema(connectCtx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
