package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"carpool-matching-service/internal/domain"
	"carpool-matching-service/internal/domain/model"
	"carpool-matching-service/internal/domain/ports/repository"
)

var emailRegex = regexp.MustCompile(`^\S+@\S+\.\S+$`)

const minPasswordLen = 8

// AccountUseCase handles registration and credential checks.
type AccountUseCase struct {
	accounts repository.AccountRepository
}

func NewAccountUseCase(accounts repository.AccountRepository) *AccountUseCase {
	return &AccountUseCase{accounts: accounts}
}

// Register creates a new account with a bcrypt-hashed password.
func (uc *AccountUseCase) Register(ctx context.Context, email, password string) (*model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return nil, &domain.ValidationError{Details: []string{"valid email is required"}}
	}
	if len(password) < minPasswordLen {
		return nil, &domain.ValidationError{Details: []string{"password must be at least 8 characters"}}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.accounts.Create(ctx, nil, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Login verifies credentials and returns the matching account.
// Unknown email and wrong password are indistinguishable to the caller.
func (uc *AccountUseCase) Login(ctx context.Context, email, password string) (*model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := uc.accounts.FindByEmail(ctx, nil, email)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return account, nil
}
