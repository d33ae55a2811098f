package model

import (
	"testing"
	"time"

	"carpool-matching-service/internal/domain"
)

func TestJobLifecycle(t *testing.T) {
	job := NewOptimizationJob("j1", "acc1", JobPayload{})
	if job.Status != JobStatusQueued {
		t.Fatalf("new job should be queued, got %s", job.Status)
	}

	now := time.Now()
	if err := job.MarkInProgress(now); err != nil {
		t.Fatalf("MarkInProgress: %v", err)
	}
	if job.Status != JobStatusInProgress || job.StartedAt == nil {
		t.Fatalf("expected in_progress with start timestamp, got %s %v", job.Status, job.StartedAt)
	}

	if err := job.MarkCompleted("r1", now); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	if job.Status != JobStatusCompleted || job.ResultID != "r1" || job.FinishedAt == nil {
		t.Fatalf("unexpected completed state: %+v", job)
	}
	if !job.Status.Terminal() {
		t.Fatal("completed should be terminal")
	}
}

func TestJobInvalidTransitions(t *testing.T) {
	now := time.Now()

	t.Run("claim twice", func(t *testing.T) {
		job := NewOptimizationJob("j1", "", JobPayload{})
		if err := job.MarkInProgress(now); err != nil {
			t.Fatalf("first claim: %v", err)
		}
		if err := job.MarkInProgress(now); err != domain.ErrInvalidTransition {
			t.Fatalf("second claim should fail, got %v", err)
		}
	})

	t.Run("complete without claim", func(t *testing.T) {
		job := NewOptimizationJob("j1", "", JobPayload{})
		if err := job.MarkCompleted("r1", now); err != domain.ErrInvalidTransition {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("fail after completion", func(t *testing.T) {
		job := NewOptimizationJob("j1", "", JobPayload{})
		_ = job.MarkInProgress(now)
		_ = job.MarkCompleted("r1", now)
		if err := job.MarkFailed("boom", now); err != domain.ErrInvalidTransition {
			t.Fatalf("terminal job must not transition, got %v", err)
		}
	})
}

func TestJobFailureRecordsError(t *testing.T) {
	job := NewOptimizationJob("j1", "", JobPayload{})
	_ = job.MarkInProgress(time.Now())
	if err := job.MarkFailed("persistence unavailable", time.Now()); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	if job.Status != JobStatusFailed || job.Error == "" {
		t.Fatalf("expected failed with error message, got %+v", job)
	}
}
