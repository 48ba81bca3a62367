package resumes

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Repo defines persistence for resumes.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	GetByID(ctx context.Context, id string) (Resume, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
