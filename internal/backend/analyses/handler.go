package analyses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-insights/internal/backend/resumes"
	"resume-insights/internal/shared/server/middleware"
	"resume-insights/internal/shared/server/respond"
)

// Handler exposes the analysis endpoints.
type Handler struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

// RegisterRoutes mounts the analysis endpoints.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/analysis/trigger", h.trigger)
	r.GET("/analysis/:resume_id", h.result)
}

type triggerRequest struct {
	ResumeID string `json:"resume_id"`
}

func (h *Handler) trigger(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req triggerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ResumeID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume_id is required")
		return
	}

	analysis, err := h.Service.Trigger(c.Request.Context(), userID, req.ResumeID)
	if err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Resume not found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start analysis")
		return
	}

	c.Set("resumeId", req.ResumeID)
	respond.JSON(c, http.StatusAccepted, toJobResponse(analysis))
}

func (h *Handler) result(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("resume_id")

	analysis, err := h.Service.Result(c.Request.Context(), userID, resumeID)
	if err != nil {
		switch {
		case errors.Is(err, resumes.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Resume not found")
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrNotReady):
			respond.Error(c, http.StatusNotFound, "not_ready", "Analysis not ready")
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load analysis")
		}
		return
	}

	c.Set("resumeId", resumeID)
	respond.OK(c, ToResultResponse(analysis))
}
