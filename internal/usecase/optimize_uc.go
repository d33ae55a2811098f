package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"carpool-matching-service/internal/domain"
	"carpool-matching-service/internal/domain/model"
	"carpool-matching-service/internal/domain/ports/repository"
	"carpool-matching-service/internal/infra/metrics"
)

// HistoryLimit caps the number of results returned by History.
const HistoryLimit = 25

// OptimizeUseCase owns the validate -> assign -> persist sequence and the
// account-scoped read paths over jobs and results. The synchronous endpoint
// and the job dispatcher share ExecuteAssignment so the two paths cannot
// drift apart.
type OptimizeUseCase struct {
	jobs    repository.JobRepository
	results repository.ResultRepository
	users   repository.UserRepository
}

func NewOptimizeUseCase(
	jobs repository.JobRepository,
	results repository.ResultRepository,
	users repository.UserRepository,
) *OptimizeUseCase {
	return &OptimizeUseCase{jobs: jobs, results: results, users: users}
}

// resolveInputs fills absent driver/passenger lists from the account's stored
// users and validates whatever ends up being used.
func (uc *OptimizeUseCase) resolveInputs(ctx context.Context, accountID string, drivers []model.Driver, passengers []model.Passenger, provided bool) ([]model.Driver, []model.Passenger, error) {
	if !provided {
		driverUsers, err := uc.users.ListByRole(ctx, nil, accountID, model.RoleDriver)
		if err != nil {
			return nil, nil, fmt.Errorf("load drivers: %w", err)
		}
		passengerUsers, err := uc.users.ListByRole(ctx, nil, accountID, model.RolePassenger)
		if err != nil {
			return nil, nil, fmt.Errorf("load passengers: %w", err)
		}
		for _, u := range driverUsers {
			drivers = append(drivers, u.AsDriver())
		}
		for _, u := range passengerUsers {
			passengers = append(passengers, u.AsPassenger())
		}
	}

	if len(drivers) == 0 {
		return nil, nil, &domain.ValidationError{Details: []string{"no drivers provided for optimization"}}
	}
	if len(passengers) == 0 {
		return nil, nil, &domain.ValidationError{Details: []string{"no passengers provided for optimization"}}
	}

	details := append(ValidateDrivers(drivers), ValidatePassengers(passengers)...)
	if len(details) > 0 {
		return nil, nil, &domain.ValidationError{Details: details}
	}
	return drivers, passengers, nil
}

// ExecuteAssignment runs the engine on already-validated inputs, builds the
// result record and persists it exactly once.
func (uc *OptimizeUseCase) ExecuteAssignment(ctx context.Context, accountID string, drivers []model.Driver, passengers []model.Passenger) (*model.OptimizationResult, error) {
	assignment := model.Assign(drivers, passengers)
	result := model.NewOptimizationResult(uuid.NewString(), accountID, assignment)
	if err := uc.results.Insert(ctx, nil, result); err != nil {
		return nil, fmt.Errorf("persist result: %w", err)
	}
	metrics.IncOptimizeRun()
	return result, nil
}

// Optimize is the synchronous path: resolve, validate, assign, persist.
// provided is false when the request body carried neither list, in which
// case the account's stored users are loaded as inputs.
func (uc *OptimizeUseCase) Optimize(ctx context.Context, accountID string, drivers []model.Driver, passengers []model.Passenger, provided bool) (*model.OptimizationResult, error) {
	drivers, passengers, err := uc.resolveInputs(ctx, accountID, drivers, passengers, provided)
	if err != nil {
		return nil, err
	}
	return uc.ExecuteAssignment(ctx, accountID, drivers, passengers)
}

// Enqueue validates the same way as Optimize and inserts a queued job. It
// returns the job id immediately without waiting for processing.
func (uc *OptimizeUseCase) Enqueue(ctx context.Context, accountID string, drivers []model.Driver, passengers []model.Passenger, provided bool) (*model.OptimizationJob, error) {
	drivers, passengers, err := uc.resolveInputs(ctx, accountID, drivers, passengers, provided)
	if err != nil {
		return nil, err
	}
	job := model.NewOptimizationJob(uuid.NewString(), accountID, model.JobPayload{
		Drivers:    drivers,
		Passengers: passengers,
	})
	if err := uc.jobs.Enqueue(ctx, nil, job); err != nil {
		return nil, fmt.Errorf("enqueue job: %w", err)
	}
	return job, nil
}

// GetResult fetches a result scoped to its owner. Ownership mismatch is
// reported as domain.ErrNotFound, never as a distinct forbidden condition.
func (uc *OptimizeUseCase) GetResult(ctx context.Context, resultID, accountID string) (*model.OptimizationResult, error) {
	return uc.results.FindByIDForAccount(ctx, nil, resultID, accountID)
}

// JobView is a job plus its embedded result when the job has completed.
type JobView struct {
	*model.OptimizationJob
	Result *model.OptimizationResult `json:"result,omitempty"`
}

// GetJob fetches a job scoped to its owner, resolving the associated result
// for completed jobs.
func (uc *OptimizeUseCase) GetJob(ctx context.Context, jobID, accountID string) (*JobView, error) {
	job, err := uc.jobs.FindByIDForAccount(ctx, nil, jobID, accountID)
	if err != nil {
		return nil, err
	}
	view := &JobView{OptimizationJob: job}
	if job.Status == model.JobStatusCompleted && job.ResultID != "" {
		result, err := uc.results.FindByIDForAccount(ctx, nil, job.ResultID, accountID)
		if err == nil {
			view.Result = result
		} else if err != domain.ErrNotFound {
			return nil, err
		}
	}
	return view, nil
}

// History returns the account's results newest-first, capped at HistoryLimit.
func (uc *OptimizeUseCase) History(ctx context.Context, accountID string) ([]*model.OptimizationResult, error) {
	return uc.results.ListByAccount(ctx, nil, accountID, HistoryLimit)
}

// DriverRoute returns driverID's route from the account's most recent result.
func (uc *OptimizeUseCase) DriverRoute(ctx context.Context, accountID, driverID string) (*model.Route, error) {
	latest, err := uc.results.ListByAccount(ctx, nil, accountID, 1)
	if err != nil {
		return nil, err
	}
	if len(latest) == 0 {
		return nil, domain.ErrNotFound
	}
	route := latest[0].RouteForDriver(driverID)
	if route == nil {
		return nil, domain.ErrNotFound
	}
	return route, nil
}
