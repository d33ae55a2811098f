package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"carpool-matching-service/internal/domain"
	"carpool-matching-service/internal/domain/model"
	"carpool-matching-service/internal/domain/ports/repository"
)

var _ repository.ResultRepository = (*ResultRepo)(nil)

// ResultRepo stores optimization results. Rows are written once and never
// updated; reads are scoped to the owning account.
type ResultRepo struct {
	pool *pgxpool.Pool
}

func NewResultRepo(pool *pgxpool.Pool) *ResultRepo {
	return &ResultRepo{pool: pool}
}

func (r *ResultRepo) Insert(ctx context.Context, tx repository.Tx, result *model.OptimizationResult) error {
	routes, err := json.Marshal(result.Routes)
	if err != nil {
		return fmt.Errorf("marshal routes: %w", err)
	}
	unassigned, err := json.Marshal(result.UnassignedPassengerIDs)
	if err != nil {
		return fmt.Errorf("marshal unassigned passengers: %w", err)
	}

	const q = `
INSERT INTO optimization_results (id, account_id, created_at, status, routes, unassigned_passenger_ids)
VALUES ($1, NULLIF($2,''), $3, $4, $5::jsonb, $6::jsonb);`

	if _, err := execSQL(ctx, r.pool, tx, q,
		result.ID, result.AccountID, result.CreatedAt, result.Status, routes, unassigned); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func scanResult(row pgx.Row) (*model.OptimizationResult, error) {
	var (
		result     model.OptimizationResult
		routes     []byte
		unassigned []byte
	)
	if err := row.Scan(&result.ID, &result.AccountID, &result.CreatedAt, &result.Status, &routes, &unassigned); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan result: %w", err)
	}
	if err := json.Unmarshal(routes, &result.Routes); err != nil {
		return nil, fmt.Errorf("unmarshal routes: %w", err)
	}
	if err := json.Unmarshal(unassigned, &result.UnassignedPassengerIDs); err != nil {
		return nil, fmt.Errorf("unmarshal unassigned passengers: %w", err)
	}
	return &result, nil
}

func (r *ResultRepo) FindByIDForAccount(ctx context.Context, tx repository.Tx, resultID, accountID string) (*model.OptimizationResult, error) {
	const q = `
SELECT id, COALESCE(account_id,''), created_at, status, routes, unassigned_passenger_ids
FROM optimization_results
WHERE id = $1 AND COALESCE(account_id,'') = $2;`

	row, err := pickRow(ctx, r.pool, tx, q, resultID, accountID)
	if err != nil {
		return nil, err
	}
	return scanResult(row)
}

func (r *ResultRepo) ListByAccount(ctx context.Context, tx repository.Tx, accountID string, limit int) ([]*model.OptimizationResult, error) {
	const q = `
SELECT id, COALESCE(account_id,''), created_at, status, routes, unassigned_passenger_ids
FROM optimization_results
WHERE COALESCE(account_id,'') = $1
ORDER BY created_at DESC
LIMIT $2;`

	rows, err := pickRows(ctx, r.pool, tx, q, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	results := []*model.OptimizationResult{}
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
