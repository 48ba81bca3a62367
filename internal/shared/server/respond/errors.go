package respond

import (
	"github.com/gin-gonic/gin"

	"resume-insights/internal/shared/telemetry"
)

// ErrorResponse is the standardized error body. The dashboard client reads the
// detail field first when normalizing failures, so it is always populated.
type ErrorResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// Error sends a standardized error response and logs it.
func Error(c *gin.Context, status int, code, detail string) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"detail":     detail,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Detail: detail})
}
