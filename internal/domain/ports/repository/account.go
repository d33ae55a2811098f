package repository

import (
	"context"

	"carpool-matching-service/internal/domain/model"
)

// AccountRepository stores authentication accounts.
type AccountRepository interface {
	// Create inserts a new account; domain.ErrAlreadyExists when the email
	// is taken.
	Create(ctx context.Context, tx Tx, account *model.Account) error

	// FindByEmail loads an account by its (lowercased) email.
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.Account, error)
}
