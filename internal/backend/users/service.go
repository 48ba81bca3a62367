package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"resume-insights/internal/shared/auth"
)

// ErrInvalidCredentials is returned for unknown emails and wrong passwords
// alike, so callers cannot probe for registered accounts.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Service contains account business logic.
type Service struct {
	Repo Repo
}

// Register creates an account and returns it with a signed token.
func (s *Service) Register(ctx context.Context, fullName, email, password string) (User, string, error) {
	fullName = strings.TrimSpace(fullName)
	email = normalizeEmail(email)
	switch {
	case fullName == "":
		return User{}, "", errors.New("full_name is required")
	case email == "" || !strings.Contains(email, "@"):
		return User{}, "", errors.New("a valid email is required")
	case len(password) < 8:
		return User{}, "", errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, "", err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, "", err
	}

	token, err := signToken(user)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (User, string, error) {
	user, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		return User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return User{}, "", err
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return User{}, "", ErrInvalidCredentials
	}

	token, err := signToken(user)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// Get returns the profile for an authenticated user ID.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.Repo.GetByID(ctx, id)
}

func signToken(user User) (string, error) {
	return auth.SignJWT(auth.Claims{
		Sub:   user.ID,
		Email: user.Email,
		Name:  user.FullName,
	})
}
