package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS auth_accounts (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS carpool_users (
		account_id     TEXT NOT NULL,
		user_id        TEXT NOT NULL,
		name           TEXT NOT NULL,
		role           TEXT NOT NULL,
		location_lat   DOUBLE PRECISION,
		location_lng   DOUBLE PRECISION,
		capacity       INT,
		seats_required INT,
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (account_id, user_id)
	);`,
	`CREATE TABLE IF NOT EXISTS optimization_results (
		id                       TEXT PRIMARY KEY,
		account_id               TEXT,
		created_at               TIMESTAMPTZ NOT NULL,
		status                   TEXT NOT NULL,
		routes                   JSONB NOT NULL,
		unassigned_passenger_ids JSONB NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS optimization_jobs (
		id          TEXT PRIMARY KEY,
		account_id  TEXT,
		status      TEXT NOT NULL,
		payload     JSONB NOT NULL,
		result_id   TEXT,
		error       TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		started_at  TIMESTAMPTZ,
		finished_at TIMESTAMPTZ
	);`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_queued
		ON optimization_jobs (created_at) WHERE status = 'queued';`,
	`CREATE INDEX IF NOT EXISTS idx_results_account_created
		ON optimization_results (account_id, created_at DESC);`,
}

// Migrate applies the schema. Statements are idempotent so this is safe to
// run on every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}
