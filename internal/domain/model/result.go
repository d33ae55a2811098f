package model

import "time"

// ResultStatusCompleted is the only status a persisted result ever carries:
// results are written once after a successful engine run and never updated.
const ResultStatusCompleted = "completed"

// OptimizationResult is an immutable, identified record of one engine run.
// AccountID is empty in account-less deployments.
type OptimizationResult struct {
	ID                     string    `json:"id"`
	AccountID              string    `json:"accountId,omitempty"`
	CreatedAt              time.Time `json:"createdAt"`
	Status                 string    `json:"status"`
	Routes                 []Route   `json:"routes"`
	UnassignedPassengerIDs []string  `json:"unassignedPassengerIds"`
}

// NewOptimizationResult stamps an assignment into a persisted-shape record.
func NewOptimizationResult(id, accountID string, a Assignment) *OptimizationResult {
	return &OptimizationResult{
		ID:                     id,
		AccountID:              accountID,
		CreatedAt:              time.Now().UTC(),
		Status:                 ResultStatusCompleted,
		Routes:                 a.Routes,
		UnassignedPassengerIDs: a.UnassignedPassengerIDs,
	}
}

// RouteForDriver returns the route carrying driverID, or nil when absent.
func (r *OptimizationResult) RouteForDriver(driverID string) *Route {
	for i := range r.Routes {
		if r.Routes[i].DriverID == driverID {
			return &r.Routes[i]
		}
	}
	return nil
}
