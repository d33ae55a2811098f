package usecase

import (
	"context"
	"fmt"
	"time"

	"carpool-matching-service/internal/domain"
	"carpool-matching-service/internal/domain/model"
	"carpool-matching-service/internal/domain/ports/repository"
)

// UserUseCase manages the role-partitioned carpool users an account feeds
// into optimization by default.
type UserUseCase struct {
	users repository.UserRepository
}

func NewUserUseCase(users repository.UserRepository) *UserUseCase {
	return &UserUseCase{users: users}
}

// UpsertInput is the raw user payload before role-dependent normalization.
type UpsertInput struct {
	UserID        string
	Name          string
	Role          string
	Location      *model.Location
	Capacity      *int
	SeatsRequired *int
}

func validateLatLng(loc *model.Location) bool {
	if loc == nil {
		return false
	}
	return loc.Latitude >= -90 && loc.Latitude <= 90 && loc.Longitude >= -180 && loc.Longitude <= 180
}

// Upsert normalizes and stores a carpool user. Drivers get a capacity
// (default 4), passengers a seat requirement (default 1); the irrelevant
// field for the role is dropped rather than stored ambiguously.
func (uc *UserUseCase) Upsert(ctx context.Context, accountID string, in UpsertInput) (*model.CarpoolUser, bool, error) {
	var details []string

	if !isNonEmpty(in.UserID) {
		details = append(details, "userId must be a non-empty string")
	}
	if !isNonEmpty(in.Name) {
		details = append(details, "name must be a non-empty string")
	}
	role := model.UserRole(in.Role)
	if role != model.RoleDriver && role != model.RolePassenger {
		details = append(details, "role must be either 'driver' or 'passenger'")
	}
	if !validateLatLng(in.Location) {
		details = append(details, "location.latitude and location.longitude must be numbers")
	}

	capacity := 4
	if in.Capacity != nil {
		capacity = *in.Capacity
	}
	seatsRequired := 1
	if in.SeatsRequired != nil {
		seatsRequired = *in.SeatsRequired
	}
	if role == model.RoleDriver && capacity < 1 {
		details = append(details, "capacity must be an integer >= 1 for driver role")
	}
	if role == model.RolePassenger && seatsRequired < 1 {
		details = append(details, "seatsRequired must be an integer >= 1 for passenger role")
	}

	if len(details) > 0 {
		return nil, false, &domain.ValidationError{Details: details}
	}

	user := &model.CarpoolUser{
		UserID:    in.UserID,
		AccountID: accountID,
		Name:      in.Name,
		Role:      role,
		Location:  *in.Location,
		UpdatedAt: time.Now().UTC(),
	}
	switch role {
	case model.RoleDriver:
		user.Capacity = capacity
	case model.RolePassenger:
		user.SeatsRequired = seatsRequired
	}

	existed, err := uc.users.Upsert(ctx, nil, user)
	if err != nil {
		return nil, false, fmt.Errorf("upsert user: %w", err)
	}
	return user, existed, nil
}

// List returns all users owned by the account.
func (uc *UserUseCase) List(ctx context.Context, accountID string) ([]*model.CarpoolUser, error) {
	return uc.users.ListByAccount(ctx, nil, accountID)
}
