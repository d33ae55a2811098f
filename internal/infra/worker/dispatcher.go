package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"carpool-matching-service/internal/domain"
	"carpool-matching-service/internal/domain/model"
	"carpool-matching-service/internal/domain/ports/repository"
	"carpool-matching-service/internal/infra/metrics"
)

// AssignmentRunner is the slice of the optimize use case the dispatcher
// needs: run the engine on a claimed payload and persist the result.
type AssignmentRunner interface {
	ExecuteAssignment(ctx context.Context, accountID string, drivers []model.Driver, passengers []model.Passenger) (*model.OptimizationResult, error)
}

// Dispatcher polls the job store on a fixed interval and processes at most
// one job at a time within this instance. The busy guard is a field, not
// package state, so independent dispatchers (and tests) never share it.
// Cross-process exclusivity comes from the store's claim locking, not from
// this flag.
type Dispatcher struct {
	interval time.Duration
	jobs     repository.JobRepository
	runner   AssignmentRunner
	log      *zerolog.Logger

	busy   atomic.Bool
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDispatcher constructs a dispatcher polling every interval.
// If interval <= 0 it defaults to 1 second.
func NewDispatcher(interval time.Duration, jobs repository.JobRepository, runner AssignmentRunner, logger *zerolog.Logger) *Dispatcher {
	if interval <= 0 {
		interval = time.Second
	}
	dispLog := logger.With().Str("component", "Dispatcher").Logger()
	return &Dispatcher{
		interval: interval,
		jobs:     jobs,
		runner:   runner,
		log:      &dispLog,
		done:     make(chan struct{}),
	}
}

// Start begins the polling loop in a background goroutine.
// Calling Start more than once has no effect.
func (d *Dispatcher) Start(parentCtx context.Context) {
	if d.ctx != nil {
		return
	}
	ctx, cancel := context.WithCancel(parentCtx)
	d.ctx = ctx
	d.cancel = cancel

	go d.loop()
}

func (d *Dispatcher) loop() {
	ticker := time.NewTicker(d.interval)
	defer func() {
		ticker.Stop()
		close(d.done)
	}()

	d.log.Info().Dur("interval", d.interval).Msg("dispatcher started")
	for {
		select {
		case <-d.ctx.Done():
			d.log.Info().Msg("dispatcher stopping")
			return
		case <-ticker.C:
			d.Tick(d.ctx)
		}
	}
}

// Stop cancels the loop and waits for it to finish. It is idempotent.
func (d *Dispatcher) Stop() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	<-d.done
	d.ctx = nil
	d.cancel = nil
	d.done = make(chan struct{})
	d.log.Info().Msg("dispatcher stopped")
}

// Tick attempts to claim and process one job. If the previous tick's work is
// still running the tick is skipped entirely. Exported so tests can drive the
// dispatcher without the timer.
func (d *Dispatcher) Tick(ctx context.Context) {
	if !d.busy.CompareAndSwap(false, true) {
		metrics.IncDispatcherTickSkipped()
		return
	}
	// Busy must be released on every exit path, including panics from a
	// single job's processing; one bad job must never wedge the loop.
	defer d.busy.Store(false)

	job, err := d.jobs.ClaimNext(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNoJobAvailable) {
			d.log.Error().Err(err).Msg("claim failed")
		}
		return
	}

	d.log.Info().Str("job_id", job.ID).Msg("processing job")
	start := time.Now()

	result, runErr := d.runJob(ctx, job)
	latency := time.Since(start)

	if runErr != nil {
		metrics.IncJobProcessed(string(model.JobStatusFailed))
		d.log.Error().Err(runErr).Str("job_id", job.ID).Msg("job failed")
		if err := d.jobs.MarkFailed(ctx, nil, job.ID, runErr.Error()); err != nil {
			d.log.Error().Err(err).Str("job_id", job.ID).Msg("failed to record job failure")
		}
		return
	}

	if err := d.jobs.MarkCompleted(ctx, nil, job.ID, result.ID); err != nil {
		d.log.Error().Err(err).Str("job_id", job.ID).Msg("failed to record job completion")
		return
	}
	metrics.IncJobProcessed(string(model.JobStatusCompleted))
	d.log.Info().Str("job_id", job.ID).Str("result_id", result.ID).Dur("duration_ms", latency).Msg("job completed")
}

// runJob executes the engine on the claimed payload, converting a panic into
// an ordinary failure so it lands in the job's terminal state.
func (d *Dispatcher) runJob(ctx context.Context, job *model.OptimizationJob) (result *model.OptimizationResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("job processing panic: %v", rec)
		}
	}()

	drivers := job.Payload.Drivers
	if drivers == nil {
		drivers = []model.Driver{}
	}
	passengers := job.Payload.Passengers
	if passengers == nil {
		passengers = []model.Passenger{}
	}

	return d.runner.ExecuteAssignment(ctx, job.AccountID, drivers, passengers)
}
