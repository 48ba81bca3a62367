package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-insights/internal/shared/server/middleware"
	"resume-insights/internal/shared/server/respond"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	handler := NewHandler(&Service{Repo: NewMemoryRepo()})
	router := gin.New()
	router.Use(middleware.Auth())
	handler.RegisterRoutes(router)
	return router
}

func doJSON(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRegisterLoginAndMe(t *testing.T) {
	router := newAuthRouter(t)

	resp := doJSON(router, http.MethodPost, "/auth/register", "",
		`{"full_name":"Ada Lovelace","email":"ada@example.com","password":"secret1234"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", resp.Code, resp.Body.String())
	}

	var registered struct {
		AccessToken string   `json:"access_token"`
		User        Response `json:"user"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &registered); err != nil {
		t.Fatalf("decode register: %v", err)
	}
	if registered.AccessToken == "" {
		t.Fatal("register returned no token")
	}
	if registered.User.Email != "ada@example.com" || registered.User.FullName != "Ada Lovelace" {
		t.Fatalf("user = %+v", registered.User)
	}

	resp = doJSON(router, http.MethodPost, "/auth/login", "",
		`{"email":"ada@example.com","password":"secret1234"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", resp.Code, resp.Body.String())
	}
	var loggedIn struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &loggedIn); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	resp = doJSON(router, http.MethodGet, "/auth/me", loggedIn.AccessToken, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("me status = %d, body = %s", resp.Code, resp.Body.String())
	}
	var profile Response
	if err := json.Unmarshal(resp.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if profile.Email != "ada@example.com" {
		t.Fatalf("profile = %+v", profile)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	router := newAuthRouter(t)

	body := `{"full_name":"Ada","email":"ada@example.com","password":"secret1234"}`
	if resp := doJSON(router, http.MethodPost, "/auth/register", "", body); resp.Code != http.StatusCreated {
		t.Fatalf("first register status = %d", resp.Code)
	}

	resp := doJSON(router, http.MethodPost, "/auth/register", "", body)
	if resp.Code != http.StatusConflict {
		t.Fatalf("duplicate register status = %d", resp.Code)
	}
	var errResp respond.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Detail != "An account with this email already exists" {
		t.Fatalf("detail = %q", errResp.Detail)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router := newAuthRouter(t)

	if resp := doJSON(router, http.MethodPost, "/auth/register", "",
		`{"full_name":"Ada","email":"ada@example.com","password":"secret1234"}`); resp.Code != http.StatusCreated {
		t.Fatalf("register status = %d", resp.Code)
	}

	tests := []struct {
		name string
		body string
	}{
		{"wrong password", `{"email":"ada@example.com","password":"wrong-pass"}`},
		{"unknown email", `{"email":"nobody@example.com","password":"secret1234"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(router, http.MethodPost, "/auth/login", "", tt.body)
			if resp.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d", resp.Code)
			}
			var errResp respond.ErrorResponse
			if err := json.Unmarshal(resp.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			// Unknown account and wrong password are indistinguishable.
			if errResp.Detail != "Invalid email or password" {
				t.Fatalf("detail = %q", errResp.Detail)
			}
		})
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	router := newAuthRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"ada@example.com","password":"secret1234"}`},
		{"bad email", `{"full_name":"Ada","email":"not-an-email","password":"secret1234"}`},
		{"short password", `{"full_name":"Ada","email":"ada@example.com","password":"short"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(router, http.MethodPost, "/auth/register", "", tt.body)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
			}
		})
	}
}

func TestMeRequiresToken(t *testing.T) {
	router := newAuthRouter(t)

	resp := doJSON(router, http.MethodGet, "/auth/me", "", "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.Code)
	}

	resp = doJSON(router, http.MethodGet, "/auth/me", "not.a.jwt", "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("status with garbage token = %d", resp.Code)
	}
}
