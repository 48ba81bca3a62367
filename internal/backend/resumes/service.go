package resumes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"resume-insights/internal/shared/storage/object"
	"resume-insights/internal/shared/util"
)

const maxUploadBytes = 10 << 20

var allowedExtensions = map[string]struct{}{
	"pdf":  {},
	"doc":  {},
	"docx": {},
}

// ErrValidation marks uploads rejected before any storage write.
var ErrValidation = errors.New("validation failed")

type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }
func (e *validationError) Unwrap() error { return ErrValidation }

func invalid(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

// Service contains business logic for resume uploads.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
}

// Upload validates and stores a resume file, then records it.
func (s *Service) Upload(ctx context.Context, userID, fileName string, size int64, r io.Reader) (Resume, error) {
	ext := util.FileExtension(fileName)
	if _, ok := allowedExtensions[ext]; !ok {
		return Resume{}, invalid("Unsupported file type %q. Please upload PDF, DOC or DOCX.", ext)
	}
	if size <= 0 {
		return Resume{}, invalid("Please select a file.")
	}
	if size > maxUploadBytes {
		return Resume{}, invalid("File is too large. Please upload a file smaller than 10MB.")
	}

	storageKey, sizeBytes, mimeType, err := s.Store.Save(ctx, userID, fileName, io.LimitReader(r, maxUploadBytes+1))
	if err != nil {
		return Resume{}, err
	}
	if sizeBytes > maxUploadBytes {
		return Resume{}, invalid("File is too large. Please upload a file smaller than 10MB.")
	}

	resume := Resume{
		ID:         uuid.NewString(),
		UserID:     userID,
		Filename:   fileName,
		FilePath:   storageKey,
		MimeType:   mimeType,
		SizeBytes:  sizeBytes,
		Status:     StatusUploaded,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, resume); err != nil {
		return Resume{}, err
	}
	return resume, nil
}

// GetOwned returns the resume only when it belongs to userID. Foreign and
// missing resumes are indistinguishable to the caller.
func (s *Service) GetOwned(ctx context.Context, userID, resumeID string) (Resume, error) {
	resume, err := s.Repo.GetByID(ctx, resumeID)
	if err != nil {
		return Resume{}, err
	}
	if resume.UserID != userID {
		return Resume{}, ErrNotFound
	}
	return resume, nil
}
