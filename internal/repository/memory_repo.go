package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"go-account-service/internal/model"
)

// MemoryAccountRepository is a map-backed store used by tests and local
// experiments. It mirrors the Postgres repository's semantics: sentinel
// errors, email uniqueness, and updated_at refresh on every patch.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	nextID   int64
	accounts map[int64]model.Account
}

func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		nextID:   1,
		accounts: map[int64]model.Account{},
	}
}

func (r *MemoryAccountRepository) Create(_ context.Context, a model.Account) (model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if existing.Email == a.Email {
			return model.Account{}, model.ErrEmailTaken
		}
	}

	a.ID = r.nextID
	r.nextID++
	r.accounts[a.ID] = a
	return a, nil
}

func (r *MemoryAccountRepository) FindByID(_ context.Context, id int64) (model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return model.Account{}, model.ErrAccountNotFound
	}
	return a, nil
}

func (r *MemoryAccountRepository) FindByEmail(_ context.Context, email string) (model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return model.Account{}, model.ErrAccountNotFound
}

func (r *MemoryAccountRepository) List(_ context.Context) ([]model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]model.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].ID > accounts[j].ID
		}
		return accounts[i].CreatedAt.After(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (r *MemoryAccountRepository) Update(_ context.Context, id int64, patch model.AccountPatch) (model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return model.Account{}, model.ErrAccountNotFound
	}

	if patch.Email != nil {
		for otherID, other := range r.accounts {
			if otherID != id && other.Email == *patch.Email {
				return model.Account{}, model.ErrEmailTaken
			}
		}
		a.Email = *patch.Email
	}
	if patch.PasswordHash != nil {
		a.PasswordHash = *patch.PasswordHash
	}
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Role != nil {
		a.Role = *patch.Role
	}
	if patch.IsActive != nil {
		a.IsActive = *patch.IsActive
	}
	a.UpdatedAt = time.Now().UTC()

	r.accounts[id] = a
	return a, nil
}

func (r *MemoryAccountRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return model.ErrAccountNotFound
	}
	delete(r.accounts, id)
	return nil
}
