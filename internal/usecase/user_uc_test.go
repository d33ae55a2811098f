package usecase

import (
	"context"
	"testing"

	"carpool-matching-service/internal/domain"
	"carpool-matching-service/internal/domain/model"
)

func validDriverInput() UpsertInput {
	return UpsertInput{
		UserID:   "d1",
		Name:     "Dana",
		Role:     "driver",
		Location: &model.Location{Latitude: 52.52, Longitude: 13.4},
	}
}

func TestUserUpsertCreateThenUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	uc := NewUserUseCase(newMemUserRepo())

	user, existed, err := uc.Upsert(ctx, "acc1", validDriverInput())
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if existed {
		t.Fatal("first upsert should report created")
	}
	if user.Capacity != 4 {
		t.Fatalf("driver capacity should default to 4, got %d", user.Capacity)
	}
	if user.SeatsRequired != 0 {
		t.Fatalf("driver must not carry seatsRequired, got %d", user.SeatsRequired)
	}

	in := validDriverInput()
	cap := 6
	in.Capacity = &cap
	user, existed, err = uc.Upsert(ctx, "acc1", in)
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if !existed {
		t.Fatal("second upsert should report updated")
	}
	if user.Capacity != 6 {
		t.Fatalf("expected capacity 6, got %d", user.Capacity)
	}
}

func TestUserUpsertPassengerDefaults(t *testing.T) {
	t.Parallel()

	uc := NewUserUseCase(newMemUserRepo())

	user, _, err := uc.Upsert(context.Background(), "acc1", UpsertInput{
		UserID:   "p1",
		Name:     "Pat",
		Role:     "passenger",
		Location: &model.Location{Latitude: 0, Longitude: 0},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if user.SeatsRequired != 1 {
		t.Fatalf("passenger seatsRequired should default to 1, got %d", user.SeatsRequired)
	}
	if user.Capacity != 0 {
		t.Fatalf("passenger must not carry capacity, got %d", user.Capacity)
	}
}

func TestUserUpsertValidation(t *testing.T) {
	t.Parallel()

	uc := NewUserUseCase(newMemUserRepo())

	_, _, err := uc.Upsert(context.Background(), "acc1", UpsertInput{
		UserID: "",
		Name:   "",
		Role:   "pilot",
	})
	ve, ok := domain.AsValidation(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(ve.Details) != 4 {
		t.Fatalf("expected 4 details (userId, name, role, location), got %v", ve.Details)
	}
}

func TestUserListScopedToAccount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	uc := NewUserUseCase(newMemUserRepo())

	if _, _, err := uc.Upsert(ctx, "acc1", validDriverInput()); err != nil {
		t.Fatalf("Upsert acc1: %v", err)
	}
	other := validDriverInput()
	other.UserID = "d9"
	if _, _, err := uc.Upsert(ctx, "acc2", other); err != nil {
		t.Fatalf("Upsert acc2: %v", err)
	}

	users, err := uc.List(ctx, "acc1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 1 || users[0].UserID != "d1" {
		t.Fatalf("expected only acc1's d1, got %+v", users)
	}
}
