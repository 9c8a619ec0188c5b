package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
	"github.com/dafibh/finboard/finboard-backend/internal/util"
)

// Clock returns the current time. Services default to time.Now.
type Clock func() time.Time

// fieldErrors accumulates validation failures for one request.
type fieldErrors struct {
	errs domain.ValidationErrors
}

func (v *fieldErrors) add(field, message string) {
	v.errs = append(v.errs, domain.NewValidationError(field, message))
}

func (v *fieldErrors) missing(field string) {
	v.errs = append(v.errs, domain.MissingField(field))
}

// require records a missing field when present is false.
func (v *fieldErrors) require(field string, present bool) {
	if !present {
		v.missing(field)
	}
}

// requireText records a missing field for nil or blank text.
func (v *fieldErrors) requireText(field string, s *string) {
	v.require(field, s != nil && strings.TrimSpace(*s) != "")
}

// blankText records a missing field when s was sent but is blank.
func (v *fieldErrors) blankText(field string, s *string) {
	if s != nil && strings.TrimSpace(*s) == "" {
		v.missing(field)
	}
}

func (v *fieldErrors) year(field string, year *int, now time.Time) {
	if year != nil && !util.IsValidYear(*year, now) {
		v.add(field, "Year must be between 2000 and "+strconv.Itoa(now.Year()+10))
	}
}

func (v *fieldErrors) month(field string, month *int) {
	if month != nil && !util.IsValidMonth(*month) {
		v.add(field, "Month must be between 1 and 12")
	}
}

func (v *fieldErrors) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return v.errs
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
