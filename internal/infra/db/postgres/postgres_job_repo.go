package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"carpool-matching-service/internal/domain"
	"carpool-matching-service/internal/domain/model"
	"carpool-matching-service/internal/domain/ports/repository"
)

var _ repository.JobRepository = (*JobRepo)(nil)

// JobRepo implements the persisted optimization job queue on Postgres.
type JobRepo struct {
	pool *pgxpool.Pool
	tm   repository.TransactionManager
}

func NewJobRepo(pool *pgxpool.Pool, tm repository.TransactionManager) *JobRepo {
	return &JobRepo{pool: pool, tm: tm}
}

func (r *JobRepo) Enqueue(ctx context.Context, tx repository.Tx, job *model.OptimizationJob) error {
	payload, err := json.Marshal(job.Payload)
	if err != nil {
		return fmt.Errorf("marshal job payload: %w", err)
	}

	const q = `
INSERT INTO optimization_jobs (id, account_id, status, payload, created_at)
VALUES ($1, NULLIF($2,''), $3, $4::jsonb, $5);`

	if _, err := execSQL(ctx, r.pool, tx, q,
		job.ID, job.AccountID, string(job.Status), payload, job.CreatedAt); err != nil {
		return fmt.Errorf("enqueue job: %w", err)
	}
	return nil
}

// ClaimNext selects the oldest queued job with FOR UPDATE SKIP LOCKED and
// flips it to in_progress inside a single transaction. Concurrent claimants
// skip each other's locked rows, so each queued job is handed to exactly one
// caller.
func (r *JobRepo) ClaimNext(ctx context.Context) (*model.OptimizationJob, error) {
	var job *model.OptimizationJob

	err := r.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		const selectQuery = `
SELECT id, COALESCE(account_id,''), payload, created_at
FROM optimization_jobs
WHERE status = 'queued'
ORDER BY created_at ASC
FOR UPDATE SKIP LOCKED
LIMIT 1;`

		row, err := pickRow(ctx, r.pool, tx, selectQuery)
		if err != nil {
			return err
		}

		var (
			claimed model.OptimizationJob
			raw     []byte
		)
		if err := row.Scan(&claimed.ID, &claimed.AccountID, &raw, &claimed.CreatedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNoJobAvailable
			}
			return fmt.Errorf("scan claimed job: %w", err)
		}
		if err := json.Unmarshal(raw, &claimed.Payload); err != nil {
			return fmt.Errorf("unmarshal job payload: %w", err)
		}

		now := time.Now().UTC()
		if err := claimed.MarkInProgress(now); err != nil {
			return err
		}

		const updateQuery = `
UPDATE optimization_jobs
SET status = $2, started_at = $3
WHERE id = $1;`
		if _, err := execSQL(ctx, r.pool, tx, updateQuery, claimed.ID, string(claimed.Status), now); err != nil {
			return fmt.Errorf("mark job in progress: %w", err)
		}

		job = &claimed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (r *JobRepo) MarkCompleted(ctx context.Context, tx repository.Tx, jobID, resultID string) error {
	const q = `
UPDATE optimization_jobs
SET status = 'completed', finished_at = NOW(), result_id = $2
WHERE id = $1;`
	if _, err := execSQL(ctx, r.pool, tx, q, jobID, resultID); err != nil {
		return fmt.Errorf("mark job completed: %w", err)
	}
	return nil
}

func (r *JobRepo) MarkFailed(ctx context.Context, tx repository.Tx, jobID, errMsg string) error {
	const q = `
UPDATE optimization_jobs
SET status = 'failed', finished_at = NOW(), error = $2
WHERE id = $1;`
	if _, err := execSQL(ctx, r.pool, tx, q, jobID, errMsg); err != nil {
		return fmt.Errorf("mark job failed: %w", err)
	}
	return nil
}

func (r *JobRepo) FindByIDForAccount(ctx context.Context, tx repository.Tx, jobID, accountID string) (*model.OptimizationJob, error) {
	const q = `
SELECT id, COALESCE(account_id,''), status, COALESCE(result_id,''), COALESCE(error,''),
       created_at, started_at, finished_at
FROM optimization_jobs
WHERE id = $1 AND COALESCE(account_id,'') = $2;`

	row, err := pickRow(ctx, r.pool, tx, q, jobID, accountID)
	if err != nil {
		return nil, err
	}

	var (
		job    model.OptimizationJob
		status string
	)
	if err := row.Scan(&job.ID, &job.AccountID, &status, &job.ResultID, &job.Error,
		&job.CreatedAt, &job.StartedAt, &job.FinishedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}
	job.Status = model.JobStatus(status)
	return &job, nil
}
