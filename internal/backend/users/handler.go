package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-insights/internal/shared/server/middleware"
	"resume-insights/internal/shared/server/respond"
)

// Handler exposes authentication endpoints.
type Handler struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

// RegisterRoutes mounts the auth endpoints.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/auth/login", h.login)
	r.POST("/auth/register", h.register)
	r.GET("/auth/me", h.me)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken string   `json:"access_token"`
	User        Response `json:"user"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	user, token, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		respond.Error(c, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
		return
	}
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to log in")
		return
	}

	respond.OK(c, authResponse{AccessToken: token, User: toResponse(user)})
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	user, token, err := h.Service.Register(c.Request.Context(), req.FullName, req.Email, req.Password)
	if errors.Is(err, ErrDuplicate) {
		respond.Error(c, http.StatusConflict, "duplicate_account", "An account with this email already exists")
		return
	}
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	respond.Created(c, authResponse{AccessToken: token, User: toResponse(user)})
}

func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	user, err := h.Service.Get(c.Request.Context(), userID)
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unknown account")
		return
	}
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load profile")
		return
	}

	respond.OK(c, toResponse(user))
}
