package grist

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
)

// Kind classifies a failed store call.
type Kind string

const (
	KindConfig   Kind = "config"
	KindNetwork  Kind = "network"
	KindAuth     Kind = "auth"
	KindNotFound Kind = "not_found"
	KindConflict Kind = "conflict"
	KindInvalid  Kind = "invalid"
	KindUnknown  Kind = "unknown"
)

// maxErrorBody caps how much of an error response body is kept.
const maxErrorBody = 2048

// Error is returned by every Client method on failure.
type Error struct {
	Op     string
	Table  string
	Kind   Kind
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("grist %s %s: %s", e.Op, e.Table, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the matching domain sentinel and the transport cause.
func (e *Error) Unwrap() []error {
	errs := []error{e.Kind.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (k Kind) sentinel() error {
	switch k {
	case KindConfig:
		return domain.ErrStoreNotConfigured
	case KindNetwork:
		return domain.ErrStoreUnavailable
	case KindAuth:
		return domain.ErrStorePermission
	case KindNotFound:
		return domain.ErrNotFound
	case KindConflict:
		return domain.ErrConflict
	case KindInvalid:
		return domain.ErrInvalidInput
	default:
		return domain.ErrStoreFailure
	}
}

// KindOf returns the Kind of err, or KindUnknown when err did not come from
// this package.
func KindOf(err error) Kind {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	return KindUnknown
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return KindInvalid
	default:
		return KindUnknown
	}
}

func kindForTransport(err error) Kind {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetwork
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return KindNetwork
	}
	return KindUnknown
}
