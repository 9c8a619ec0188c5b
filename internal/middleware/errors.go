package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// errorEnvelope mirrors the API's response envelope for failures raised
// before a handler runs
type errorEnvelope struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	Timestamp string `json:"timestamp"`
}

func errorResponse(c echo.Context, status int, message, details string) error {
	return c.JSON(status, errorEnvelope{
		Success:   false,
		Error:     message,
		Details:   details,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// unauthorizedError creates an unauthorized error response
func unauthorizedError(c echo.Context, detail string) error {
	return errorResponse(c, http.StatusUnauthorized, "Unauthorized", detail)
}
