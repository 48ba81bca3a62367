package feedback

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-insights/internal/shared/server/middleware"
	"resume-insights/internal/shared/server/respond"
)

// Handler exposes the feedback summary endpoint.
type Handler struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

// RegisterRoutes mounts the feedback endpoints.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/feedback/summary", h.summary)
}

func (h *Handler) summary(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	summary, err := h.Service.Summarize(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to build feedback summary")
		return
	}
	respond.OK(c, summary)
}
