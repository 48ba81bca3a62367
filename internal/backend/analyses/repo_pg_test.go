package analyses

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoRoundTripsJSONLists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	score := 77.5
	analyzedAt := time.Now().UTC()
	analysis := Analysis{
		ID:              "an-1",
		ResumeID:        "res-1",
		UserID:          "user-1",
		Status:          StatusCompleted,
		OverallScore:    &score,
		Strengths:       []string{"clear structure"},
		Weaknesses:      []string{"no numbers"},
		Recommendations: []string{"quantify impact"},
		AnalyzedAt:      &analyzedAt,
		CreatedAt:       analyzedAt.Add(-time.Minute),
	}

	mock.ExpectExec("INSERT INTO analyses").
		WithArgs(
			analysis.ID,
			analysis.ResumeID,
			analysis.UserID,
			analysis.Status,
			score,
			[]byte(`["clear structure"]`),
			[]byte(`["no numbers"]`),
			[]byte(`["quantify impact"]`),
			analyzedAt,
			analysis.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), analysis); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows := sqlmock.NewRows([]string{
		"id", "resume_id", "user_id", "status", "overall_score",
		"strengths", "weaknesses", "recommendations", "analyzed_at", "created_at",
	}).AddRow(
		analysis.ID, analysis.ResumeID, analysis.UserID, analysis.Status, score,
		[]byte(`["clear structure"]`), []byte(`["no numbers"]`), []byte(`["quantify impact"]`),
		analyzedAt, analysis.CreatedAt,
	)
	mock.ExpectQuery("SELECT (.+) FROM analyses").WithArgs(analysis.ID).WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), analysis.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Strengths) != 1 || got.Strengths[0] != "clear structure" {
		t.Errorf("strengths = %v", got.Strengths)
	}
	if got.OverallScore == nil || *got.OverallScore != score {
		t.Errorf("score = %v", got.OverallScore)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
