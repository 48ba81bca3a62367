package resumes

import (
	"context"
	"sync"
)

// MemoryRepo stores resumes in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Resume
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Resume)}
}

// Create stores the resume.
func (r *MemoryRepo) Create(ctx context.Context, resume Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[resume.ID] = resume
	return nil
}

// GetByID returns a resume by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	resume, ok := r.byID[id]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return resume, nil
}

// CountByUser returns the number of resumes a user has uploaded.
func (r *MemoryRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, resume := range r.byID {
		if resume.UserID == userID {
			count++
		}
	}
	return count, nil
}

// UpdateStatus updates the status of an existing resume.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	resume, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	resume.Status = status
	r.byID[id] = resume
	return nil
}
