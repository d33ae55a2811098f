package model

import (
	"time"

	"carpool-matching-service/internal/domain"
)

type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further transition may occur from s.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// JobPayload is the serialized optimize request a job carries. Absent
// sequences default to empty at processing time.
type JobPayload struct {
	Drivers    []Driver    `json:"drivers"`
	Passengers []Passenger `json:"passengers"`
}

// OptimizationJob is one row of the persisted job queue. A job is created
// queued, claimed exactly once into in_progress, and finishes exactly once
// as completed (with ResultID) or failed (with Error). It is never requeued.
type OptimizationJob struct {
	ID         string     `json:"id"`
	AccountID  string     `json:"accountId,omitempty"`
	Status     JobStatus  `json:"status"`
	Payload    JobPayload `json:"-"`
	ResultID   string     `json:"resultId,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	StartedAt  *time.Time `json:"startedAt,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// NewOptimizationJob builds a queued job for the given payload.
func NewOptimizationJob(id, accountID string, payload JobPayload) *OptimizationJob {
	return &OptimizationJob{
		ID:        id,
		AccountID: accountID,
		Status:    JobStatusQueued,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

// MarkInProgress transitions a queued job to in_progress.
func (j *OptimizationJob) MarkInProgress(at time.Time) error {
	if j.Status != JobStatusQueued {
		return domain.ErrInvalidTransition
	}
	j.Status = JobStatusInProgress
	j.StartedAt = &at
	return nil
}

// MarkCompleted transitions an in_progress job to its completed terminal state.
func (j *OptimizationJob) MarkCompleted(resultID string, at time.Time) error {
	if j.Status != JobStatusInProgress {
		return domain.ErrInvalidTransition
	}
	j.Status = JobStatusCompleted
	j.ResultID = resultID
	j.FinishedAt = &at
	return nil
}

// MarkFailed transitions an in_progress job to its failed terminal state.
func (j *OptimizationJob) MarkFailed(errMsg string, at time.Time) error {
	if j.Status != JobStatusInProgress {
		return domain.ErrInvalidTransition
	}
	j.Status = JobStatusFailed
	j.Error = errMsg
	j.FinishedAt = &at
	return nil
}
