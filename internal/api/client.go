// Package api is the HTTP client for the resume-analysis service. Every call
// returns either a decoded payload or a single normalized *Error; callers
// never see raw transport or decoding failures.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client talks to the resume-analysis service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New constructs a Client for the given base URL. A non-positive timeout
// falls back to the default.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (AuthPayload, error) {
	var out AuthPayload
	body := map[string]string{"email": email, "password": password}
	err := c.do(ctx, http.MethodPost, "/auth/login", "", body, &out)
	return out, err
}

// Register creates a new account and authenticates it.
func (c *Client) Register(ctx context.Context, fullName, email, password string) (AuthPayload, error) {
	var out AuthPayload
	body := map[string]string{"full_name": fullName, "email": email, "password": password}
	err := c.do(ctx, http.MethodPost, "/auth/register", "", body, &out)
	return out, err
}

// GetMe fetches the profile for the given token.
func (c *Client) GetMe(ctx context.Context, token string) (User, error) {
	var out User
	err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &out)
	return out, err
}

// UploadResume uploads a resume as multipart/form-data under the "file" field.
func (c *Client) UploadResume(ctx context.Context, token, fileName string, r io.Reader) (ResumeUpload, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return ResumeUpload{}, normalizeTransport(err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return ResumeUpload{}, normalizeTransport(err)
	}
	if err := mw.Close(); err != nil {
		return ResumeUpload{}, normalizeTransport(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/resumes/upload", &buf)
	if err != nil {
		return ResumeUpload{}, normalizeTransport(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	setBearer(req, token)

	var out ResumeUpload
	if err := c.send(req, &out); err != nil {
		return ResumeUpload{}, err
	}
	return out, nil
}

// TriggerAnalysis asks the backend to analyze an uploaded resume.
func (c *Client) TriggerAnalysis(ctx context.Context, token, resumeID string) (AnalysisJob, error) {
	var out AnalysisJob
	body := map[string]string{"resume_id": resumeID}
	err := c.do(ctx, http.MethodPost, "/analysis/trigger", token, body, &out)
	return out, err
}

// GetAnalysis fetches the analysis result for a resume. A result that is not
// ready yet comes back as a normalized error carrying a 404 status.
func (c *Client) GetAnalysis(ctx context.Context, token, resumeID string) (AnalysisResult, error) {
	var out AnalysisResult
	err := c.do(ctx, http.MethodGet, "/analysis/"+resumeID, token, nil, &out)
	return out, err
}

// GetSummary fetches the feedback summary across all resumes.
func (c *Client) GetSummary(ctx context.Context, token string) (FeedbackSummary, error) {
	var out FeedbackSummary
	err := c.do(ctx, http.MethodGet, "/feedback/summary", token, nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return normalizeTransport(err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return normalizeTransport(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	setBearer(req, token)

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return normalizeTransport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return normalizeTransport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return normalizeStatus(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return normalizeTransport(fmt.Errorf("malformed response: %w", err))
	}
	return nil
}

func setBearer(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
