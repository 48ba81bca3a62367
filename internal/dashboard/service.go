// Package dashboard glues the view layer to the core: it loads the feedback
// summary wholesale and runs the upload → trigger → poll → refresh flow.
package dashboard

import (
	"bytes"
	"context"
	"io"
	"sync"

	"resume-insights/internal/api"
	"resume-insights/internal/poll"
	"resume-insights/internal/session"
	"resume-insights/internal/uploads"
)

// API is the slice of the HTTP client the dashboard needs.
type API interface {
	UploadResume(ctx context.Context, token, fileName string, r io.Reader) (api.ResumeUpload, error)
	TriggerAnalysis(ctx context.Context, token, resumeID string) (api.AnalysisJob, error)
	GetAnalysis(ctx context.Context, token, resumeID string) (api.AnalysisResult, error)
	GetSummary(ctx context.Context, token string) (api.FeedbackSummary, error)
}

// Service coordinates the dashboard view state. The summary is replaced
// wholesale on every refresh, never merged field by field.
type Service struct {
	api      API
	sessions *session.Store
	poller   *poll.Controller

	mu      sync.Mutex
	summary *api.FeedbackSummary
}

// NewService builds a Service and its polling controller. opts are forwarded
// to the controller so tests can install a fake clock.
func NewService(client API, sessions *session.Store, opts ...poll.Option) *Service {
	s := &Service{api: client, sessions: sessions}
	s.poller = poll.NewController(fetcherFunc{client}, sessions, s.RefreshSummary, opts...)
	return s
}

// fetcherFunc adapts the API slice to poll.StatusFetcher.
type fetcherFunc struct{ api API }

func (f fetcherFunc) GetAnalysis(ctx context.Context, token, resumeID string) (api.AnalysisResult, error) {
	return f.api.GetAnalysis(ctx, token, resumeID)
}

// RefreshSummary fetches the summary and replaces the cached copy.
func (s *Service) RefreshSummary(ctx context.Context) error {
	token := s.sessions.Token()
	if token == "" {
		return &api.Error{Kind: api.KindAuth, Message: "not logged in"}
	}
	summary, err := s.api.GetSummary(ctx, token)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.summary = &summary
	s.mu.Unlock()
	return nil
}

// Summary returns the last fetched summary, if any.
func (s *Service) Summary() (api.FeedbackSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.summary == nil {
		return api.FeedbackSummary{}, false
	}
	return *s.summary, true
}

// LatestAnalysis returns the most recent analysis from the cached summary.
func (s *Service) LatestAnalysis() *api.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.summary == nil {
		return nil
	}
	return s.summary.LatestAnalysis
}

// UploadAndAnalyze validates the file locally, uploads it, triggers the
// analysis, and starts a poll session for the result. Validation failures
// surface before any collaborator is contacted.
func (s *Service) UploadAndAnalyze(ctx context.Context, fileName string, data []byte) (api.ResumeUpload, *poll.Session, error) {
	token := s.sessions.Token()
	if token == "" {
		return api.ResumeUpload{}, nil, &api.Error{Kind: api.KindAuth, Message: "not logged in"}
	}

	if err := uploads.Validate(fileName, data); err != nil {
		return api.ResumeUpload{}, nil, err
	}

	upload, err := s.api.UploadResume(ctx, token, fileName, bytes.NewReader(data))
	if err != nil {
		return api.ResumeUpload{}, nil, err
	}

	if _, err := s.api.TriggerAnalysis(ctx, token, upload.ID); err != nil {
		return upload, nil, err
	}

	sess, err := s.poller.Start(ctx, upload.ID)
	if err != nil {
		return upload, nil, err
	}
	return upload, sess, nil
}

// WatchAnalysis starts (or restarts) polling for an already-uploaded resume.
func (s *Service) WatchAnalysis(ctx context.Context, resumeID string) (*poll.Session, error) {
	return s.poller.Start(ctx, resumeID)
}

// CancelPolling stops any live poll session.
func (s *Service) CancelPolling() { s.poller.Cancel() }

// Polling reports whether a poll session is live.
func (s *Service) Polling() bool { return s.poller.Active() }
