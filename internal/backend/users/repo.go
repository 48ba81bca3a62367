package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("email already registered")
)

// Repo defines persistence for users.
type Repo interface {
	Create(ctx context.Context, user User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
}
