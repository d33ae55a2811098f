package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoJobAvailable     = errors.New("no queued job available")
	ErrInvalidTransition  = errors.New("invalid job status transition")
	ErrInvalidExecContext = errors.New("invalid database execution context")
)

// ValidationError carries per-field messages for a rejected payload.
// It is returned by payload validators and rendered as a 400 with details.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return "invalid payload"
	}
	return "invalid payload: " + e.Details[0]
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
