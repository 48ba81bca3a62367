package analyses

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores analyses in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Analysis
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Analysis)}
}

// Create stores the analysis.
func (r *MemoryRepo) Create(ctx context.Context, a Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[a.ID] = cloneAnalysis(a)
	return nil
}

// GetByID returns an analysis by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return Analysis{}, ErrNotFound
	}
	return cloneAnalysis(a), nil
}

// LatestByResume returns the most recently created analysis for a resume.
func (r *MemoryRepo) LatestByResume(ctx context.Context, resumeID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest Analysis
	found := false
	for _, a := range r.byID {
		if a.ResumeID != resumeID {
			continue
		}
		if !found || a.CreatedAt.After(latest.CreatedAt) {
			latest = a
			found = true
		}
	}
	if !found {
		return Analysis{}, ErrNotFound
	}
	return cloneAnalysis(latest), nil
}

// CompletedByUser returns a user's completed analyses ordered oldest first.
func (r *MemoryRepo) CompletedByUser(ctx context.Context, userID string) ([]Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Analysis
	for _, a := range r.byID {
		if a.UserID == userID && a.Status == StatusCompleted {
			out = append(out, cloneAnalysis(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Update replaces an existing analysis.
func (r *MemoryRepo) Update(ctx context.Context, a Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; !ok {
		return ErrNotFound
	}
	r.byID[a.ID] = cloneAnalysis(a)
	return nil
}

func cloneAnalysis(a Analysis) Analysis {
	out := a
	if a.OverallScore != nil {
		score := *a.OverallScore
		out.OverallScore = &score
	}
	if a.AnalyzedAt != nil {
		at := *a.AnalyzedAt
		out.AnalyzedAt = &at
	}
	out.Strengths = append([]string(nil), a.Strengths...)
	out.Weaknesses = append([]string(nil), a.Weaknesses...)
	out.Recommendations = append([]string(nil), a.Recommendations...)
	return out
}
