package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrConflict            = errors.New("resource conflict")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInternalError       = errors.New("internal error")
	ErrIDRequired          = errors.New("id is required")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryInUse       = errors.New("category is referenced by transactions")
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrSummaryNotFound     = errors.New("monthly summary not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNoChartData         = errors.New("no data to chart")
	ErrStorageDisabled     = errors.New("snapshot storage not configured")
)

// Store errors. The remote table client wraps every failure so that one of
// these matches with errors.Is.
var (
	ErrStoreNotConfigured = errors.New("table store is not configured")
	ErrStoreUnavailable   = errors.New("table store unavailable")
	ErrStorePermission    = errors.New("table store permission denied")
	ErrStoreFailure       = errors.New("table store request failed")
)

// ValidationError reports a single rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets callers match any validation failure with ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// MissingField is returned when a required field is absent or blank.
func MissingField(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "Missing required field: " + field}
}

// ValidationErrors collects every rejected field of one request.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ErrInvalidInput.Error()
	}
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap lets callers match the collection with ErrInvalidInput.
func (e ValidationErrors) Unwrap() error {
	return ErrInvalidInput
}
