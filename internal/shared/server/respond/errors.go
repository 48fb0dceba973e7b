package respond

import (
	"github.com/gin-gonic/gin"

	"crm-backend/internal/shared/telemetry"
)

// ErrorResponse is the standardized error envelope. Error carries the
// machine-readable code the UI switches on; Message and Details are optional
// human-facing context. Stack traces never cross this boundary.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Error sends a standardized error response and aborts the request.
func Error(c *gin.Context, status int, code, message string, details any) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   code,
		Message: message,
		Details: details,
	})
}
