package repository

import (
	"context"

	"carpool-matching-service/internal/domain/model"
)

// JobRepository persists the optimization job queue.
type JobRepository interface {
	// Enqueue inserts a new queued job and returns immediately.
	Enqueue(ctx context.Context, tx Tx, job *model.OptimizationJob) error

	// ClaimNext atomically selects the oldest queued job, skipping rows
	// already locked by a concurrent claimant, and flips it to in_progress
	// with a start timestamp. Under N concurrent callers each queued job is
	// claimed by exactly one of them. Returns domain.ErrNoJobAvailable when
	// the queue is empty (or every queued row is locked by someone else).
	ClaimNext(ctx context.Context) (*model.OptimizationJob, error)

	// MarkCompleted sets the terminal completed state with the result id.
	MarkCompleted(ctx context.Context, tx Tx, jobID, resultID string) error

	// MarkFailed sets the terminal failed state with the error message.
	MarkFailed(ctx context.Context, tx Tx, jobID, errMsg string) error

	// FindByIDForAccount loads a job only when accountID matches the stored
	// owner; an ownership mismatch is indistinguishable from absence.
	FindByIDForAccount(ctx context.Context, tx Tx, jobID, accountID string) (*model.OptimizationJob, error)
}
