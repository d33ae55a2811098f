package repository

import (
	"context"

	"carpool-matching-service/internal/domain/model"
)

// ResultRepository persists optimization results. Results are insert-only.
type ResultRepository interface {
	// Insert writes a result exactly once, keyed by its id.
	Insert(ctx context.Context, tx Tx, result *model.OptimizationResult) error

	// FindByIDForAccount loads a result only when accountID matches the
	// stored owner; otherwise domain.ErrNotFound.
	FindByIDForAccount(ctx context.Context, tx Tx, resultID, accountID string) (*model.OptimizationResult, error)

	// ListByAccount returns the account's results newest-first, capped at limit.
	ListByAccount(ctx context.Context, tx Tx, accountID string, limit int) ([]*model.OptimizationResult, error)
}
