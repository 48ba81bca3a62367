// Package session is the single source of truth for "who is logged in". It
// holds at most one credential, restores it from disk at startup, and writes
// every change back best-effort.
package session

import (
	"context"
	"sync"

	"resume-insights/internal/api"
	"resume-insights/internal/shared/telemetry"
)

// Credential is a bearer token plus the profile fetched with it.
type Credential struct {
	Token string   `json:"token"`
	User  api.User `json:"user"`
}

// AuthAPI is the slice of the API client the store needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (api.AuthPayload, error)
	Register(ctx context.Context, fullName, email, password string) (api.AuthPayload, error)
	GetMe(ctx context.Context, token string) (api.User, error)
}

// Store owns the process-wide session state. Methods are safe for concurrent
// use; only the store itself ever mutates the credential.
type Store struct {
	mu      sync.Mutex
	api     AuthAPI
	file    *File
	cred    *Credential
	loading bool
}

// NewStore builds a Store that persists through file. The store starts in the
// loading state; call Restore before anything else.
func NewStore(authAPI AuthAPI, file *File) *Store {
	return &Store{api: authAPI, file: file, loading: true}
}

// Restore consults the persisted record exactly once. Corrupt or missing
// state is discarded silently and the store proceeds logged-out. No
// persistence write can happen until Restore has run, so a slow start never
// clobbers not-yet-read storage.
func (s *Store) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loading {
		return
	}
	s.loading = false

	if s.file == nil {
		return
	}
	cred, err := s.file.Load()
	if err != nil {
		telemetry.Warn("session.restore.discarded", map[string]any{"err": err.Error()})
		return
	}
	s.cred = cred
}

// Login authenticates and replaces any existing credential.
func (s *Store) Login(ctx context.Context, email, password string) (Credential, error) {
	payload, err := s.api.Login(ctx, email, password)
	if err != nil {
		return Credential{}, err
	}
	return s.setCredential(payload), nil
}

// Register creates an account and replaces any existing credential.
func (s *Store) Register(ctx context.Context, fullName, email, password string) (Credential, error) {
	payload, err := s.api.Register(ctx, fullName, email, password)
	if err != nil {
		return Credential{}, err
	}
	return s.setCredential(payload), nil
}

// RefreshProfile re-fetches the profile for the current token and replaces it
// in place. It is a no-op when logged out. A rejected token surfaces as an
// error but does not clear the credential; transient failures should not look
// like logouts to the caller.
func (s *Store) RefreshProfile(ctx context.Context) (*api.User, error) {
	s.mu.Lock()
	cred := s.cred
	s.mu.Unlock()
	if cred == nil {
		return nil, nil
	}

	user, err := s.api.GetMe(ctx, cred.Token)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cred == nil || s.cred.Token != cred.Token {
		// Logged out or re-logged-in while the fetch was in flight.
		return &user, nil
	}
	s.cred.User = user
	s.persistLocked()
	return &user, nil
}

// Logout clears the credential unconditionally. Idempotent; never fails.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = nil
	if s.loading || s.file == nil {
		return
	}
	if err := s.file.Delete(); err != nil {
		telemetry.Warn("session.persist.delete_failed", map[string]any{"err": err.Error()})
	}
}

// Current returns the held credential, if any.
func (s *Store) Current() (Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cred == nil {
		return Credential{}, false
	}
	return *s.cred, true
}

// Token returns the bearer token, or an empty string when logged out.
func (s *Store) Token() string {
	cred, ok := s.Current()
	if !ok {
		return ""
	}
	return cred.Token
}

func (s *Store) setCredential(payload api.AuthPayload) Credential {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = &Credential{Token: payload.AccessToken, User: payload.User}
	s.persistLocked()
	return *s.cred
}

// persistLocked writes the credential best-effort. Failures are logged and
// swallowed; persistence must never fail the operation that triggered it.
func (s *Store) persistLocked() {
	if s.loading || s.file == nil || s.cred == nil {
		return
	}
	if err := s.file.Save(*s.cred); err != nil {
		telemetry.Warn("session.persist.write_failed", map[string]any{"err": err.Error()})
	}
}
