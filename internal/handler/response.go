package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
)

// Response is the envelope every endpoint returns
type Response struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message,omitempty"`
	Data      interface{}       `json:"data,omitempty"`
	Error     string            `json:"error,omitempty"`
	Details   string            `json:"details,omitempty"`
	Errors    []ValidationError `json:"errors,omitempty"`
	DeletedID *int64            `json:"deletedId,omitempty"`
	Timestamp string            `json:"timestamp,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DeleteResult is the data of a successful delete
type DeleteResult struct {
	Deleted int `json:"deleted"`
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// respondData writes a successful envelope
func respondData(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// respondDeleted writes the envelope for a successful delete
func respondDeleted(c echo.Context, message string, id int64) error {
	return c.JSON(http.StatusOK, Response{
		Success:   true,
		Message:   message,
		Data:      DeleteResult{Deleted: 1},
		DeletedID: &id,
	})
}

// respondError writes a failure envelope
func respondError(c echo.Context, status int, message, details string) error {
	return c.JSON(status, Response{
		Success:   false,
		Error:     message,
		Details:   details,
		Timestamp: timestamp(),
	})
}

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errs []ValidationError) error {
	return c.JSON(http.StatusBadRequest, Response{
		Success:   false,
		Error:     detail,
		Errors:    errs,
		Timestamp: timestamp(),
	})
}

// handleError maps a service or store error onto a status and envelope.
// action names the failed operation in the envelope, e.g. "Failed to create budget".
func handleError(c echo.Context, err error, action string) error {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		return NewValidationError(c, "Validation failed", toValidationErrors(verrs))
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return NewValidationError(c, "Validation failed", toValidationErrors(domain.ValidationErrors{verr}))
	}

	switch {
	case errors.Is(err, domain.ErrCategoryInUse):
		return respondError(c, http.StatusBadRequest, "Cannot delete category that is used by transactions", err.Error())
	case errors.Is(err, domain.ErrIDRequired):
		return respondError(c, http.StatusBadRequest, "ID is required", "")
	case errors.Is(err, domain.ErrBudgetNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrSummaryNotFound),
		errors.Is(err, domain.ErrNotFound):
		return respondError(c, http.StatusNotFound, "Record not found", err.Error())
	case errors.Is(err, domain.ErrNoChartData):
		return respondError(c, http.StatusNotFound, "No data to chart", "")
	case errors.Is(err, domain.ErrStorageDisabled):
		return respondError(c, http.StatusServiceUnavailable, "Snapshot storage is not configured", "")
	case errors.Is(err, domain.ErrStoreNotConfigured):
		logFailure(err, action)
		return respondError(c, http.StatusInternalServerError, "Grist API key is not configured", "")
	case errors.Is(err, domain.ErrStoreUnavailable):
		logFailure(err, action)
		return respondError(c, http.StatusServiceUnavailable, action, "Unable to reach the table store")
	case errors.Is(err, domain.ErrStorePermission):
		logFailure(err, action)
		return respondError(c, http.StatusForbidden, action, "Permission denied by the table store")
	case errors.Is(err, domain.ErrConflict):
		return respondError(c, http.StatusConflict, action, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return respondError(c, http.StatusBadRequest, action, err.Error())
	}

	logFailure(err, action)
	return respondError(c, http.StatusInternalServerError, action, err.Error())
}

func logFailure(err error, action string) {
	log.Error().Err(err).Str("action", action).Msg("Request failed")
}

func toValidationErrors(verrs domain.ValidationErrors) []ValidationError {
	out := make([]ValidationError, len(verrs))
	for i, v := range verrs {
		out[i] = ValidationError{Field: v.Field, Message: v.Message}
	}
	return out
}
