package resumes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-insights/internal/shared/server/middleware"
	"resume-insights/internal/shared/server/respond"
)

// Handler exposes the resume upload endpoint.
type Handler struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

// RegisterRoutes mounts the resume endpoints.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/resumes/upload", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Please select a file.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Unable to read the uploaded file")
		return
	}
	defer file.Close()

	resume, err := h.Service.Upload(c.Request.Context(), userID, fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store the uploaded resume")
		return
	}

	c.Set("resumeId", resume.ID)
	respond.Created(c, toResponse(resume))
}
