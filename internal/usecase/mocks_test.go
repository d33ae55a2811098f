package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"carpool-matching-service/internal/domain"
	"carpool-matching-service/internal/domain/model"
	"carpool-matching-service/internal/domain/ports/repository"
)

// memJobRepo is a small in-memory job queue used by unit tests. Claim takes
// the oldest queued job under the mutex, mirroring the store's exactly-once
// guarantee.
type memJobRepo struct {
	mu         sync.Mutex
	jobs       map[string]*model.OptimizationJob
	enqueueErr error
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{jobs: make(map[string]*model.OptimizationJob)}
}

func (m *memJobRepo) Enqueue(ctx context.Context, tx repository.Tx, job *model.OptimizationJob) error {
	if m.enqueueErr != nil {
		return m.enqueueErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *job
	m.jobs[job.ID] = &cp
	return nil
}

func (m *memJobRepo) ClaimNext(ctx context.Context) (*model.OptimizationJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var oldest *model.OptimizationJob
	for _, j := range m.jobs {
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

func (m *memJobRepo) MarkCompleted(ctx context.Context, tx repository.Tx, jobID, resultID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	return job.MarkCompleted(resultID, time.Now())
}

func (m *memJobRepo) MarkFailed(ctx context.Context, tx repository.Tx, jobID, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	return job.MarkFailed(errMsg, time.Now())
}

func (m *memJobRepo) FindByIDForAccount(ctx context.Context, tx repository.Tx, jobID, accountID string) (*model.OptimizationJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok || job.AccountID != accountID {
		return nil, domain.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

// memResultRepo is an insert-only in-memory result store.
type memResultRepo struct {
	mu        sync.Mutex
	results   map[string]*model.OptimizationResult
	insertErr error
}

func newMemResultRepo() *memResultRepo {
	return &memResultRepo{results: make(map[string]*model.OptimizationResult)}
}

func (m *memResultRepo) Insert(ctx context.Context, tx repository.Tx, result *model.OptimizationResult) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.results[result.ID]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *result
	m.results[result.ID] = &cp
	return nil
}

func (m *memResultRepo) FindByIDForAccount(ctx context.Context, tx repository.Tx, resultID, accountID string) (*model.OptimizationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result, ok := m.results[resultID]
	if !ok || result.AccountID != accountID {
		return nil, domain.ErrNotFound
	}
	cp := *result
	return &cp, nil
}

func (m *memResultRepo) ListByAccount(ctx context.Context, tx repository.Tx, accountID string, limit int) ([]*model.OptimizationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.OptimizationResult
	for _, r := range m.results {
		if r.AccountID == accountID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// memUserRepo stores carpool users keyed by (account, user).
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.CarpoolUser
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*model.CarpoolUser)}
}

func userKey(accountID, userID string) string { return accountID + "/" + userID }

func (m *memUserRepo) Upsert(ctx context.Context, tx repository.Tx, user *model.CarpoolUser) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := userKey(user.AccountID, user.UserID)
	_, existed := m.users[key]
	cp := *user
	m.users[key] = &cp
	return existed, nil
}

func (m *memUserRepo) ListByAccount(ctx context.Context, tx repository.Tx, accountID string) ([]*model.CarpoolUser, error) {
	return m.list(accountID, "")
}

func (m *memUserRepo) ListByRole(ctx context.Context, tx repository.Tx, accountID string, role model.UserRole) ([]*model.CarpoolUser, error) {
	return m.list(accountID, role)
}

func (m *memUserRepo) list(accountID string, role model.UserRole) ([]*model.CarpoolUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.CarpoolUser{}
	for _, u := range m.users {
		if u.AccountID != accountID {
			continue
		}
		if role != "" && u.Role != role {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// memAccountRepo stores auth accounts keyed by email.
type memAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*model.Account
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: make(map[string]*model.Account)}
}

func (m *memAccountRepo) Create(ctx context.Context, tx repository.Tx, account *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.Email]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *account
	m.accounts[account.Email] = &cp
	return nil
}

func (m *memAccountRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *account
	return &cp, nil
}
