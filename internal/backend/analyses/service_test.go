package analyses

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"resume-insights/internal/backend/resumes"
	"resume-insights/internal/shared/storage/object/local"
)

func docxFixture(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	doc, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create document.xml: %v", err)
	}
	_, _ = doc.Write([]byte(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`))

	rels, err := w.Create("word/_rels/document.xml.rels")
	if err != nil {
		t.Fatalf("create rels: %v", err)
	}
	_, _ = rels.Write([]byte(`<?xml version="1.0"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`))

	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// setupService stores data under fileName for user-1 and returns the service
// with its repos and the created resume ID. Delay is long enough that the
// trigger goroutine never races the test; process is driven manually.
func setupService(t *testing.T, fileName string, data []byte) (*Service, *MemoryRepo, *resumes.MemoryRepo, string) {
	t.Helper()
	store := local.New(t.TempDir())
	resumeRepo := resumes.NewMemoryRepo()
	analysisRepo := NewMemoryRepo()

	key, size, mime, err := store.Save(context.Background(), "user-1", fileName, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("save file: %v", err)
	}
	resume := resumes.Resume{
		ID:         "res-1",
		UserID:     "user-1",
		Filename:   fileName,
		FilePath:   key,
		MimeType:   mime,
		SizeBytes:  size,
		Status:     resumes.StatusUploaded,
		UploadedAt: time.Now().UTC(),
	}
	if err := resumeRepo.Create(context.Background(), resume); err != nil {
		t.Fatalf("create resume: %v", err)
	}

	svc := &Service{
		Repo:    analysisRepo,
		Resumes: resumeRepo,
		Store:   store,
		Delay:   time.Hour,
	}
	return svc, analysisRepo, resumeRepo, resume.ID
}

func TestTriggerIdempotentWhilePending(t *testing.T) {
	svc, _, _, resumeID := setupService(t, "resume.docx", docxFixture(t, "text"))

	first, err := svc.Trigger(context.Background(), "user-1", resumeID)
	if err != nil {
		t.Fatalf("first trigger: %v", err)
	}
	if first.Status != StatusQueued {
		t.Fatalf("status = %q, want queued", first.Status)
	}

	second, err := svc.Trigger(context.Background(), "user-1", resumeID)
	if err != nil {
		t.Fatalf("second trigger: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second trigger created a new analysis: %q != %q", second.ID, first.ID)
	}
}

func TestTriggerRejectsForeignResume(t *testing.T) {
	svc, _, _, resumeID := setupService(t, "resume.docx", docxFixture(t, "text"))

	_, err := svc.Trigger(context.Background(), "user-2", resumeID)
	if !errors.Is(err, resumes.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestProcessCompletesWithScore(t *testing.T) {
	text := "Summary. Experience: led projects, improved throughput by 40%. " +
		"Education and skills included. Contact ada@example.com"
	svc, analysisRepo, resumeRepo, resumeID := setupService(t, "resume.docx", docxFixture(t, text))

	queued, err := svc.Trigger(context.Background(), "user-1", resumeID)
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}

	svc.process(context.Background(), queued.ID)

	done, err := analysisRepo.GetByID(context.Background(), queued.ID)
	if err != nil {
		t.Fatalf("load analysis: %v", err)
	}
	if done.Status != StatusCompleted {
		t.Fatalf("status = %q, want completed", done.Status)
	}
	if done.OverallScore == nil {
		t.Fatal("overall score missing")
	}
	if done.AnalyzedAt == nil {
		t.Fatal("analyzed_at missing")
	}
	resume, err := resumeRepo.GetByID(context.Background(), resumeID)
	if err != nil {
		t.Fatalf("load resume: %v", err)
	}
	if resume.Status != resumes.StatusAnalyzed {
		t.Fatalf("resume status = %q, want analyzed", resume.Status)
	}
}

func TestProcessCompletesWithoutScoreWhenExtractionFails(t *testing.T) {
	// Legacy .doc has no extractor; the analysis still completes so the
	// client stops polling.
	svc, analysisRepo, _, resumeID := setupService(t, "resume.doc", []byte{0xd0, 0xcf, 0x11, 0xe0})

	queued, err := svc.Trigger(context.Background(), "user-1", resumeID)
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}

	svc.process(context.Background(), queued.ID)

	done, err := analysisRepo.GetByID(context.Background(), queued.ID)
	if err != nil {
		t.Fatalf("load analysis: %v", err)
	}
	if done.Status != StatusCompleted {
		t.Fatalf("status = %q, want completed", done.Status)
	}
	if done.OverallScore != nil {
		t.Fatalf("score = %v, want nil", *done.OverallScore)
	}
	if len(done.Recommendations) == 0 {
		t.Fatal("fallback feedback missing recommendations")
	}
}

func TestResultNotReadyUntilProcessed(t *testing.T) {
	svc, _, _, resumeID := setupService(t, "resume.docx", docxFixture(t, "text"))

	queued, err := svc.Trigger(context.Background(), "user-1", resumeID)
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}

	if _, err := svc.Result(context.Background(), "user-1", resumeID); !errors.Is(err, ErrNotReady) {
		t.Fatalf("err = %v, want not ready", err)
	}

	svc.process(context.Background(), queued.ID)

	result, err := svc.Result(context.Background(), "user-1", resumeID)
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if result.Status != StatusCompleted {
		t.Fatalf("status = %q", result.Status)
	}
}

func TestResultUnknownResume(t *testing.T) {
	svc, _, _, _ := setupService(t, "resume.docx", docxFixture(t, "text"))

	if _, err := svc.Result(context.Background(), "user-1", "missing"); !errors.Is(err, resumes.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}
