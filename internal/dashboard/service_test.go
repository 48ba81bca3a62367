package dashboard

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"resume-insights/internal/api"
	"resume-insights/internal/poll"
	"resume-insights/internal/session"
)

type fakeAPI struct {
	mu sync.Mutex

	uploadCalls  int
	triggerCalls int
	summaryCalls int
	statusCalls  int

	succeedOn int
	result    api.AnalysisResult
	summaries []api.FeedbackSummary
}

func (f *fakeAPI) UploadResume(ctx context.Context, token, fileName string, r io.Reader) (api.ResumeUpload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls++
	return api.ResumeUpload{ID: "res-1", Filename: fileName, Status: "uploaded"}, nil
}

func (f *fakeAPI) TriggerAnalysis(ctx context.Context, token, resumeID string) (api.AnalysisJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggerCalls++
	return api.AnalysisJob{AnalysisID: "an-1", Status: "queued"}, nil
}

func (f *fakeAPI) GetAnalysis(ctx context.Context, token, resumeID string) (api.AnalysisResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	if f.succeedOn > 0 && f.statusCalls >= f.succeedOn {
		return f.result, nil
	}
	return api.AnalysisResult{}, &api.Error{Kind: api.KindTransport, Status: 404, Message: "Analysis not ready"}
}

func (f *fakeAPI) GetSummary(ctx context.Context, token string) (api.FeedbackSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaryCalls++
	if len(f.summaries) == 0 {
		return api.FeedbackSummary{}, nil
	}
	summary := f.summaries[0]
	if len(f.summaries) > 1 {
		f.summaries = f.summaries[1:]
	}
	return summary, nil
}

type stubAuth struct{}

func (stubAuth) Login(ctx context.Context, email, password string) (api.AuthPayload, error) {
	return api.AuthPayload{AccessToken: "tok-1", User: api.User{ID: "u1", Email: email}}, nil
}

func (stubAuth) Register(ctx context.Context, fullName, email, password string) (api.AuthPayload, error) {
	return api.AuthPayload{AccessToken: "tok-1"}, nil
}

func (stubAuth) GetMe(ctx context.Context, token string) (api.User, error) {
	return api.User{ID: "u1"}, nil
}

func loggedInStore(t *testing.T) *session.Store {
	t.Helper()
	store := session.NewStore(stubAuth{}, &session.File{Path: filepath.Join(t.TempDir(), "session.json")})
	store.Restore()
	if _, err := store.Login(context.Background(), "ada@example.com", "secret12"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return store
}

func loggedOutStore(t *testing.T) *session.Store {
	t.Helper()
	store := session.NewStore(stubAuth{}, &session.File{Path: filepath.Join(t.TempDir(), "session.json")})
	store.Restore()
	return store
}

func instantSleep(ctx context.Context, d time.Duration) error { return ctx.Err() }

func TestUploadAndAnalyzeRoundTrip(t *testing.T) {
	score := 74.0
	client := &fakeAPI{
		succeedOn: 2,
		result:    api.AnalysisResult{OverallScore: &score},
		summaries: []api.FeedbackSummary{{
			TotalResumes:     1,
			ImprovementTrend: "stable",
			LatestAnalysis:   &api.AnalysisResult{OverallScore: &score},
		}},
	}
	service := NewService(client, loggedInStore(t), poll.WithSleeper(instantSleep))

	upload, watch, err := service.UploadAndAnalyze(context.Background(), "resume.doc", []byte("legacy body"))
	if err != nil {
		t.Fatalf("upload and analyze: %v", err)
	}
	if upload.ID != "res-1" {
		t.Fatalf("upload = %+v", upload)
	}
	if client.uploadCalls != 1 || client.triggerCalls != 1 {
		t.Fatalf("upload calls = %d, trigger calls = %d", client.uploadCalls, client.triggerCalls)
	}

	if outcome := watch.Wait(); outcome != poll.Completed {
		t.Fatalf("outcome = %v, want Completed", outcome)
	}
	if client.statusCalls != 2 {
		t.Errorf("status calls = %d, want 2", client.statusCalls)
	}
	// Completion refreshes the summary exactly once.
	if client.summaryCalls != 1 {
		t.Errorf("summary calls = %d, want 1", client.summaryCalls)
	}

	summary, ok := service.Summary()
	if !ok || summary.TotalResumes != 1 {
		t.Fatalf("summary = %+v, %v", summary, ok)
	}
	latest := service.LatestAnalysis()
	if latest == nil || latest.OverallScore == nil || *latest.OverallScore != score {
		t.Fatalf("latest analysis = %+v", latest)
	}
}

func TestUploadValidationFailsBeforeNetwork(t *testing.T) {
	client := &fakeAPI{}
	service := NewService(client, loggedInStore(t))

	_, _, err := service.UploadAndAnalyze(context.Background(), "resume.txt", []byte("plain"))
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != api.KindValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
	if client.uploadCalls != 0 {
		t.Error("upload reached the network despite failing validation")
	}
}

func TestUploadRequiresLogin(t *testing.T) {
	client := &fakeAPI{}
	service := NewService(client, loggedOutStore(t))

	_, _, err := service.UploadAndAnalyze(context.Background(), "resume.doc", []byte("legacy body"))
	if !api.IsAuth(err) {
		t.Fatalf("err = %v, want auth error", err)
	}
	if client.uploadCalls != 0 {
		t.Error("upload attempted while logged out")
	}
}

func TestRefreshSummaryReplacesWholesale(t *testing.T) {
	avg := 70.0
	client := &fakeAPI{summaries: []api.FeedbackSummary{
		{TotalResumes: 2, AvgScore: &avg, ImprovementTrend: "improving"},
		{TotalResumes: 3, ImprovementTrend: "stable"},
	}}
	service := NewService(client, loggedInStore(t))

	if err := service.RefreshSummary(context.Background()); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if err := service.RefreshSummary(context.Background()); err != nil {
		t.Fatalf("second refresh: %v", err)
	}

	summary, ok := service.Summary()
	if !ok {
		t.Fatal("no summary cached")
	}
	if summary.TotalResumes != 3 || summary.ImprovementTrend != "stable" {
		t.Fatalf("summary = %+v", summary)
	}
	// Absent fields from the newer payload must not survive from the older one.
	if summary.AvgScore != nil {
		t.Errorf("avg score = %v, want nil", *summary.AvgScore)
	}
}

func TestRefreshSummaryRequiresLogin(t *testing.T) {
	client := &fakeAPI{}
	service := NewService(client, loggedOutStore(t))

	if err := service.RefreshSummary(context.Background()); !api.IsAuth(err) {
		t.Fatalf("err = %v, want auth error", err)
	}
	if client.summaryCalls != 0 {
		t.Error("summary fetched while logged out")
	}
}
