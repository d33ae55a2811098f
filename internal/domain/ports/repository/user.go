package repository

import (
	"context"

	"carpool-matching-service/internal/domain/model"
)

// UserRepository stores role-partitioned carpool users per account.
type UserRepository interface {
	// Upsert creates or replaces a user keyed by (accountID, userID).
	// It reports whether the user already existed.
	Upsert(ctx context.Context, tx Tx, user *model.CarpoolUser) (existed bool, err error)

	// ListByAccount returns all of the account's users.
	ListByAccount(ctx context.Context, tx Tx, accountID string) ([]*model.CarpoolUser, error)

	// ListByRole returns the account's users with the given role.
	ListByRole(ctx context.Context, tx Tx, accountID string, role model.UserRole) ([]*model.CarpoolUser, error)
}
