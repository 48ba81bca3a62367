package users

import (
	"context"
	"strings"
	"sync"
)

// MemoryRepo stores users in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]User
	byEmail map[string]string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:    make(map[string]User),
		byEmail: make(map[string]string),
	}
}

// Create stores the user, rejecting duplicate emails.
func (r *MemoryRepo) Create(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := normalizeEmail(user.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[key]; exists {
		return ErrDuplicate
	}
	r.byID[user.ID] = user
	r.byEmail[key] = user.ID
	return nil
}

// GetByEmail returns the user registered under email.
func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return User{}, ErrNotFound
	}
	return r.byID[id], nil
}

// GetByID returns a user by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
