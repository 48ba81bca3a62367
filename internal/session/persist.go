package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// File persists a single credential record as JSON on disk.
type File struct {
	Path string
}

// Load reads the persisted credential. A missing file yields (nil, nil); a
// present but unreadable or malformed record yields an error the caller is
// expected to discard silently.
func (f *File) Load() (*Credential, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var cred Credential
	if err := json.Unmarshal(raw, &cred); err != nil {
		return nil, err
	}
	if cred.Token == "" {
		return nil, errors.New("persisted record has no token")
	}
	return &cred, nil
}

// Save writes the full credential record, creating parent directories as
// needed. The file is user-readable only since it holds a bearer token.
func (f *File) Save(cred Credential) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return err
	}
	raw, err := json.Marshal(cred)
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, raw, 0o600)
}

// Delete removes the persisted record. A missing file is not an error.
func (f *File) Delete() error {
	err := os.Remove(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
