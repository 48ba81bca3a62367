package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres. String lists are stored as JSONB.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, a Analysis) error {
	const query = `
INSERT INTO analyses (id, resume_id, user_id, status, overall_score, strengths, weaknesses, recommendations, analyzed_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	strengths, weaknesses, recommendations, err := marshalLists(a)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		a.ID,
		a.ResumeID,
		a.UserID,
		a.Status,
		a.OverallScore,
		strengths,
		weaknesses,
		recommendations,
		a.AnalyzedAt,
		a.CreatedAt,
	)
	return err
}

// GetByID returns an analysis by its ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Analysis, error) {
	const query = selectColumns + ` WHERE id = $1`
	return scanOne(r.DB.QueryRowContext(ctx, query, id))
}

// LatestByResume returns the most recently created analysis for a resume.
func (r *PGRepo) LatestByResume(ctx context.Context, resumeID string) (Analysis, error) {
	const query = selectColumns + ` WHERE resume_id = $1 ORDER BY created_at DESC LIMIT 1`
	return scanOne(r.DB.QueryRowContext(ctx, query, resumeID))
}

// CompletedByUser returns a user's completed analyses ordered oldest first.
func (r *PGRepo) CompletedByUser(ctx context.Context, userID string) ([]Analysis, error) {
	const query = selectColumns + ` WHERE user_id = $1 AND status = $2 ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, userID, StatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		a, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update replaces an existing analysis.
func (r *PGRepo) Update(ctx context.Context, a Analysis) error {
	const query = `
UPDATE analyses
SET status = $2, overall_score = $3, strengths = $4, weaknesses = $5, recommendations = $6, analyzed_at = $7
WHERE id = $1`
	strengths, weaknesses, recommendations, err := marshalLists(a)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query,
		a.ID,
		a.Status,
		a.OverallScore,
		strengths,
		weaknesses,
		recommendations,
		a.AnalyzedAt,
	)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

const selectColumns = `
SELECT id, resume_id, user_id, status, overall_score, strengths, weaknesses, recommendations, analyzed_at, created_at
FROM analyses`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOne(row *sql.Row) (Analysis, error) {
	a, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	return a, err
}

func scanRow(row rowScanner) (Analysis, error) {
	var (
		a                                 Analysis
		strengths, weaknesses, recommends []byte
	)
	err := row.Scan(
		&a.ID,
		&a.ResumeID,
		&a.UserID,
		&a.Status,
		&a.OverallScore,
		&strengths,
		&weaknesses,
		&recommends,
		&a.AnalyzedAt,
		&a.CreatedAt,
	)
	if err != nil {
		return Analysis{}, err
	}
	for _, pair := range []struct {
		raw []byte
		out *[]string
	}{
		{strengths, &a.Strengths},
		{weaknesses, &a.Weaknesses},
		{recommends, &a.Recommendations},
	} {
		if len(pair.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(pair.raw, pair.out); err != nil {
			return Analysis{}, err
		}
	}
	return a, nil
}

func marshalLists(a Analysis) (strengths, weaknesses, recommendations []byte, err error) {
	if strengths, err = json.Marshal(emptyIfNil(a.Strengths)); err != nil {
		return nil, nil, nil, err
	}
	if weaknesses, err = json.Marshal(emptyIfNil(a.Weaknesses)); err != nil {
		return nil, nil, nil, err
	}
	if recommendations, err = json.Marshal(emptyIfNil(a.Recommendations)); err != nil {
		return nil, nil, nil, err
	}
	return strengths, weaknesses, recommendations, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
