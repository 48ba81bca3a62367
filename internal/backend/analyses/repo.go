package analyses

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("analysis not found")

// Repo persists analyses. LatestByResume returns the most recently created
// analysis for a resume regardless of status.
type Repo interface {
	Create(ctx context.Context, a Analysis) error
	GetByID(ctx context.Context, id string) (Analysis, error)
	LatestByResume(ctx context.Context, resumeID string) (Analysis, error)
	CompletedByUser(ctx context.Context, userID string) ([]Analysis, error)
	Update(ctx context.Context, a Analysis) error
}
