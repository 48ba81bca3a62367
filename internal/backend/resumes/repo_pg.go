package resumes

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new resume.
func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resumes (id, user_id, filename, file_path, mime_type, size_bytes, status, uploaded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.UserID,
		resume.Filename,
		resume.FilePath,
		resume.MimeType,
		resume.SizeBytes,
		resume.Status,
		resume.UploadedAt,
	)
	return err
}

// GetByID returns a resume by its ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	const query = `
SELECT id, user_id, filename, file_path, mime_type, size_bytes, status, uploaded_at
FROM resumes WHERE id = $1`
	var resume Resume
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&resume.ID,
		&resume.UserID,
		&resume.Filename,
		&resume.FilePath,
		&resume.MimeType,
		&resume.SizeBytes,
		&resume.Status,
		&resume.UploadedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Resume{}, ErrNotFound
	}
	if err != nil {
		return Resume{}, err
	}
	return resume, nil
}

// CountByUser returns the number of resumes a user has uploaded.
func (r *PGRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM resumes WHERE user_id = $1`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateStatus updates the status of an existing resume.
func (r *PGRepo) UpdateStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE resumes SET status = $2 WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}
