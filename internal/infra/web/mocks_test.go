package web

import (
	"context"
	"sort"
	"sync"
	"time"

	"carpool-matching-service/internal/domain"
	"carpool-matching-service/internal/domain/model"
	"carpool-matching-service/internal/domain/ports/adapter"
	"carpool-matching-service/internal/domain/ports/repository"
)

// In-memory repositories so handler tests exercise the full stack below the
// router without a database.

type memAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*model.Account // keyed by email
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: make(map[string]*model.Account)}
}

func (r *memAccountRepo) Create(ctx context.Context, tx repository.Tx, account *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.Email]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *account
	r.accounts[account.Email] = &cp
	return nil
}

func (r *memAccountRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *account
	return &cp, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.CarpoolUser // keyed by accountID/userID
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*model.CarpoolUser)}
}

func userKey(accountID, userID string) string { return accountID + "/" + userID }

func (r *memUserRepo) Upsert(ctx context.Context, tx repository.Tx, user *model.CarpoolUser) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := userKey(user.AccountID, user.UserID)
	_, existed := r.users[key]
	cp := *user
	r.users[key] = &cp
	return existed, nil
}

func (r *memUserRepo) ListByAccount(ctx context.Context, tx repository.Tx, accountID string) ([]*model.CarpoolUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.CarpoolUser
	for _, u := range r.users {
		if u.AccountID == accountID {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *memUserRepo) ListByRole(ctx context.Context, tx repository.Tx, accountID string, role model.UserRole) ([]*model.CarpoolUser, error) {
	all, err := r.ListByAccount(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	var out []*model.CarpoolUser
	for _, u := range all {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

type memResultRepo struct {
	mu      sync.Mutex
	results map[string]*model.OptimizationResult
}

func newMemResultRepo() *memResultRepo {
	return &memResultRepo{results: make(map[string]*model.OptimizationResult)}
}

func (r *memResultRepo) Insert(ctx context.Context, tx repository.Tx, result *model.OptimizationResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *result
	r.results[result.ID] = &cp
	return nil
}

func (r *memResultRepo) FindByIDForAccount(ctx context.Context, tx repository.Tx, resultID, accountID string) (*model.OptimizationResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result, ok := r.results[resultID]
	if !ok || result.AccountID != accountID {
		return nil, domain.ErrNotFound
	}
	cp := *result
	return &cp, nil
}

func (r *memResultRepo) ListByAccount(ctx context.Context, tx repository.Tx, accountID string, limit int) ([]*model.OptimizationResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.OptimizationResult
	for _, res := range r.results {
		if res.AccountID == accountID {
			cp := *res
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*model.OptimizationJob
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{jobs: make(map[string]*model.OptimizationJob)}
}

func (r *memJobRepo) Enqueue(ctx context.Context, tx repository.Tx, job *model.OptimizationJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *memJobRepo) ClaimNext(ctx context.Context) (*model.OptimizationJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var oldest *model.OptimizationJob
	for _, j := range r.jobs {
		if j.Status != model.JobStatusQueued {
			continue
		}
		if oldest == nil || j.CreatedAt.Before(oldest.CreatedAt) {
			oldest = j
		}
	}
	if oldest == nil {
		return nil, domain.ErrNoJobAvailable
	}
	if err := oldest.MarkInProgress(time.Now()); err != nil {
		return nil, err
	}
	cp := *oldest
	return &cp, nil
}

func (r *memJobRepo) MarkCompleted(ctx context.Context, tx repository.Tx, jobID, resultID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	return job.MarkCompleted(resultID, time.Now())
}

func (r *memJobRepo) MarkFailed(ctx context.Context, tx repository.Tx, jobID, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	return job.MarkFailed(errMsg, time.Now())
}

func (r *memJobRepo) FindByIDForAccount(ctx context.Context, tx repository.Tx, jobID, accountID string) (*model.OptimizationJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok || job.AccountID != accountID {
		return nil, domain.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

type fakeGeocoder struct {
	mu     sync.Mutex
	calls  int
	places []adapter.Place
	err    error
}

func (f *fakeGeocoder) Search(ctx context.Context, query string, limit int) ([]adapter.Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.places, f.err
}
