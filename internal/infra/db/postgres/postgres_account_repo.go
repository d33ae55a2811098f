package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"carpool-matching-service/internal/domain"
	"carpool-matching-service/internal/domain/model"
	"carpool-matching-service/internal/domain/ports/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo stores authentication accounts.
type AccountRepo struct {
	pool *pgxpool.Pool
}

func NewAccountRepo(pool *pgxpool.Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

func (r *AccountRepo) Create(ctx context.Context, tx repository.Tx, account *model.Account) error {
	const q = `
INSERT INTO auth_accounts (id, email, password_hash, created_at)
VALUES ($1, $2, $3, $4);`

	if _, err := execSQL(ctx, r.pool, tx, q,
		account.ID, account.Email, account.PasswordHash, account.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Account, error) {
	const q = `
SELECT id, email, password_hash, created_at
FROM auth_accounts
WHERE email = $1;`

	row, err := pickRow(ctx, r.pool, tx, q, email)
	if err != nil {
		return nil, err
	}

	var account model.Account
	if err := row.Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &account, nil
}
