package resumes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-insights/internal/shared/server/respond"
	"resume-insights/internal/shared/storage/object/local"
)

func newUploadRouter(t *testing.T) (*gin.Engine, *MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewMemoryRepo()
	svc := &Service{Store: local.New(t.TempDir()), Repo: repo}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(router)
	return router, repo
}

func multipartUpload(t *testing.T, fileName string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadStoresResume(t *testing.T) {
	router, repo := newUploadRouter(t)

	body, contentType := multipartUpload(t, "resume.pdf", []byte("%PDF-1.4 fake body"))
	req := httptest.NewRequest(http.MethodPost, "/resumes/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}

	var uploaded Response
	if err := json.Unmarshal(resp.Body.Bytes(), &uploaded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if uploaded.ID == "" || uploaded.Filename != "resume.pdf" || uploaded.Status != StatusUploaded {
		t.Fatalf("response = %+v", uploaded)
	}

	stored, err := repo.GetByID(req.Context(), uploaded.ID)
	if err != nil {
		t.Fatalf("load stored resume: %v", err)
	}
	if stored.UserID != "user-1" || stored.FilePath == "" {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	router, _ := newUploadRouter(t)

	body, contentType := multipartUpload(t, "notes.txt", []byte("plain text"))
	req := httptest.NewRequest(http.MethodPost, "/resumes/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.Code)
	}

	var errResp respond.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Code != "validation_error" {
		t.Fatalf("code = %q", errResp.Code)
	}
}

func TestUploadRejectsMissingFileField(t *testing.T) {
	router, _ := newUploadRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/resumes/upload", bytes.NewReader(nil))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=empty")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.Code)
	}
}

func TestGetOwnedHidesForeignResumes(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{Store: local.New(t.TempDir()), Repo: repo}

	resume, err := svc.Upload(context.Background(), "user-1", "resume.doc", 6, bytes.NewReader([]byte("legacy")))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if _, err := svc.GetOwned(context.Background(), "user-2", resume.ID); err != ErrNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
	if _, err := svc.GetOwned(context.Background(), "user-1", resume.ID); err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
}
