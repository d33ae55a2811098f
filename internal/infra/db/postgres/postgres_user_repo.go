package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"carpool-matching-service/internal/domain/model"
	"carpool-matching-service/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo stores role-partitioned carpool users keyed by (account, user).
type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Upsert(ctx context.Context, tx repository.Tx, user *model.CarpoolUser) (bool, error) {
	existsRow, err := pickRow(ctx, r.pool, tx,
		`SELECT EXISTS(SELECT 1 FROM carpool_users WHERE account_id = $1 AND user_id = $2);`,
		user.AccountID, user.UserID)
	if err != nil {
		return false, err
	}
	var existed bool
	if err := existsRow.Scan(&existed); err != nil {
		return false, fmt.Errorf("check user existence: %w", err)
	}

	const q = `
INSERT INTO carpool_users (account_id, user_id, name, role, location_lat, location_lng, capacity, seats_required, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7,0), NULLIF($8,0), $9)
ON CONFLICT (account_id, user_id)
DO UPDATE SET
  name = EXCLUDED.name,
  role = EXCLUDED.role,
  location_lat = EXCLUDED.location_lat,
  location_lng = EXCLUDED.location_lng,
  capacity = EXCLUDED.capacity,
  seats_required = EXCLUDED.seats_required,
  updated_at = EXCLUDED.updated_at;`

	if _, err := execSQL(ctx, r.pool, tx, q,
		user.AccountID, user.UserID, user.Name, string(user.Role),
		user.Location.Latitude, user.Location.Longitude,
		user.Capacity, user.SeatsRequired, user.UpdatedAt); err != nil {
		return false, fmt.Errorf("upsert user: %w", err)
	}
	return existed, nil
}

func (r *UserRepo) ListByAccount(ctx context.Context, tx repository.Tx, accountID string) ([]*model.CarpoolUser, error) {
	const q = `
SELECT user_id, account_id, name, role, location_lat, location_lng,
       COALESCE(capacity, 0), COALESCE(seats_required, 0), updated_at
FROM carpool_users
WHERE account_id = $1
ORDER BY user_id;`
	return r.list(ctx, tx, q, accountID)
}

func (r *UserRepo) ListByRole(ctx context.Context, tx repository.Tx, accountID string, role model.UserRole) ([]*model.CarpoolUser, error) {
	const q = `
SELECT user_id, account_id, name, role, location_lat, location_lng,
       COALESCE(capacity, 0), COALESCE(seats_required, 0), updated_at
FROM carpool_users
WHERE account_id = $1 AND role = $2
ORDER BY user_id;`
	return r.list(ctx, tx, q, accountID, string(role))
}

func (r *UserRepo) list(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.CarpoolUser, error) {
	rows, err := pickRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []*model.CarpoolUser{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (*model.CarpoolUser, error) {
	var (
		u    model.CarpoolUser
		role string
	)
	if err := row.Scan(&u.UserID, &u.AccountID, &u.Name, &role,
		&u.Location.Latitude, &u.Location.Longitude,
		&u.Capacity, &u.SeatsRequired, &u.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.Role = model.UserRole(role)
	return &u, nil
}
