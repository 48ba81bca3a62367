package analyses

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"resume-insights/internal/backend/resumes"
	"resume-insights/internal/extract"
	"resume-insights/internal/shared/storage/object"
	"resume-insights/internal/shared/telemetry"
)

// ErrNotReady is returned while an analysis is still queued or processing.
var ErrNotReady = errors.New("analysis not ready")

// Service runs the analysis pipeline. Trigger returns immediately and the
// result becomes available after Delay, which mirrors a real scoring backend.
type Service struct {
	Repo    Repo
	Resumes resumes.Repo
	Store   object.ObjectStore
	Delay   time.Duration
}

// Trigger starts an analysis for the user's resume. Repeated triggers while
// one is queued or processing return the existing job instead of a new one.
func (s *Service) Trigger(ctx context.Context, userID, resumeID string) (Analysis, error) {
	resume, err := s.Resumes.GetByID(ctx, resumeID)
	if err != nil {
		return Analysis{}, err
	}
	if resume.UserID != userID {
		return Analysis{}, resumes.ErrNotFound
	}

	if latest, err := s.Repo.LatestByResume(ctx, resumeID); err == nil {
		if latest.Status == StatusQueued || latest.Status == StatusProcessing {
			return latest, nil
		}
	} else if !errors.Is(err, ErrNotFound) {
		return Analysis{}, err
	}

	analysis := Analysis{
		ID:        uuid.NewString(),
		ResumeID:  resumeID,
		UserID:    userID,
		Status:    StatusQueued,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, analysis); err != nil {
		return Analysis{}, err
	}
	if err := s.Resumes.UpdateStatus(ctx, resumeID, resumes.StatusAnalyzing); err != nil {
		telemetry.Warn("analysis.resume_status", map[string]any{"resume_id": resumeID, "error": err.Error()})
	}

	go func() {
		if s.Delay > 0 {
			time.Sleep(s.Delay)
		}
		s.process(context.Background(), analysis.ID)
	}()
	return analysis, nil
}

// Result returns the completed analysis for a resume the user owns.
// ErrNotReady is returned until the pipeline finishes.
func (s *Service) Result(ctx context.Context, userID, resumeID string) (Analysis, error) {
	resume, err := s.Resumes.GetByID(ctx, resumeID)
	if err != nil {
		return Analysis{}, err
	}
	if resume.UserID != userID {
		return Analysis{}, resumes.ErrNotFound
	}

	analysis, err := s.Repo.LatestByResume(ctx, resumeID)
	if err != nil {
		return Analysis{}, err
	}
	if analysis.Status != StatusCompleted {
		return Analysis{}, ErrNotReady
	}
	return analysis, nil
}

// process runs the scoring pipeline for a queued analysis. Extraction errors
// do not fail the analysis: the client would otherwise poll until it gives up.
func (s *Service) process(ctx context.Context, analysisID string) {
	analysis, err := s.Repo.GetByID(ctx, analysisID)
	if err != nil {
		telemetry.Error("analysis.load", map[string]any{"analysis_id": analysisID, "error": err.Error()})
		return
	}
	analysis.Status = StatusProcessing
	if err := s.Repo.Update(ctx, analysis); err != nil {
		telemetry.Error("analysis.update", map[string]any{"analysis_id": analysisID, "error": err.Error()})
		return
	}

	feedback, scored := s.score(ctx, analysis.ResumeID)

	now := time.Now().UTC()
	analysis.Status = StatusCompleted
	analysis.AnalyzedAt = &now
	analysis.Strengths = feedback.Strengths
	analysis.Weaknesses = feedback.Weaknesses
	analysis.Recommendations = feedback.Recommendations
	if scored {
		score := feedback.OverallScore
		analysis.OverallScore = &score
	}
	if err := s.Repo.Update(ctx, analysis); err != nil {
		telemetry.Error("analysis.update", map[string]any{"analysis_id": analysisID, "error": err.Error()})
		return
	}
	if err := s.Resumes.UpdateStatus(ctx, analysis.ResumeID, resumes.StatusAnalyzed); err != nil {
		telemetry.Warn("analysis.resume_status", map[string]any{"resume_id": analysis.ResumeID, "error": err.Error()})
	}
	telemetry.Info("analysis.completed", map[string]any{"analysis_id": analysisID, "resume_id": analysis.ResumeID})
}

func (s *Service) score(ctx context.Context, resumeID string) (Feedback, bool) {
	resume, err := s.Resumes.GetByID(ctx, resumeID)
	if err != nil {
		telemetry.Warn("analysis.resume_load", map[string]any{"resume_id": resumeID, "error": err.Error()})
		return fallbackFeedback(), false
	}
	file, err := s.Store.Open(ctx, resume.FilePath)
	if err != nil {
		telemetry.Warn("analysis.file_open", map[string]any{"resume_id": resumeID, "error": err.Error()})
		return fallbackFeedback(), false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		telemetry.Warn("analysis.file_read", map[string]any{"resume_id": resumeID, "error": err.Error()})
		return fallbackFeedback(), false
	}
	text, err := extract.TextFromBytes(ctx, data, resume.Filename)
	if err != nil {
		telemetry.Warn("analysis.extract", map[string]any{"resume_id": resumeID, "error": err.Error()})
		return fallbackFeedback(), false
	}
	return Analyze(text), true
}
