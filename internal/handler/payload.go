package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
)

var (
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// payload is a decoded JSON request body. Values stay untyped until a getter
// asks for them so that numbers sent as strings and blank strings are
// handled the same way for every entity.
type payload struct {
	fields map[string]interface{}
	errs   domain.ValidationErrors
}

// bindPayload decodes the request body into a payload
func bindPayload(c echo.Context) (*payload, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	p := &payload{fields: map[string]interface{}{}}
	if len(bytes.TrimSpace(body)) == 0 {
		return p, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&p.fields); err != nil {
		return nil, err
	}
	return p, nil
}

// value returns the raw value for key. Null and blank strings count as absent.
func (p *payload) value(key string) (interface{}, bool) {
	v, ok := p.fields[key]
	if !ok || v == nil {
		return nil, false
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return nil, false
	}
	return v, true
}

func (p *payload) invalid(key, message string) {
	p.errs = append(p.errs, domain.NewValidationError(key, message))
}

// err returns the accumulated parse errors
func (p *payload) err() error {
	if len(p.errs) == 0 {
		return nil
	}
	return p.errs
}

func (p *payload) String(key string) *string {
	v, ok := p.fields[key]
	if !ok || v == nil {
		return nil
	}
	switch val := v.(type) {
	case string:
		return &val
	case json.Number:
		s := val.String()
		return &s
	case bool:
		s := strconv.FormatBool(val)
		return &s
	}
	p.invalid(key, "Must be a string")
	return nil
}

func (p *payload) Decimal(key string) *decimal.Decimal {
	v, ok := p.value(key)
	if !ok {
		return nil
	}
	var raw string
	switch val := v.(type) {
	case json.Number:
		raw = val.String()
	case string:
		raw = strings.TrimSpace(val)
	default:
		p.invalid(key, "Must be a number")
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		p.invalid(key, "Must be a number")
		return nil
	}
	return &d
}

func (p *payload) Int64(key string) *int64 {
	d := p.Decimal(key)
	if d == nil {
		return nil
	}
	if !d.Equal(d.Truncate(0)) {
		p.invalid(key, "Must be a whole number")
		return nil
	}
	if d.LessThan(minInt64) || d.GreaterThan(maxInt64) {
		p.invalid(key, "Number is out of range")
		return nil
	}
	n := d.IntPart()
	return &n
}

func (p *payload) Int(key string) *int {
	n := p.Int64(key)
	if n == nil {
		return nil
	}
	if *n < math.MinInt || *n > math.MaxInt {
		p.invalid(key, "Number is out of range")
		return nil
	}
	i := int(*n)
	return &i
}

func (p *payload) Bool(key string) *bool {
	v, ok := p.value(key)
	if !ok {
		return nil
	}
	switch val := v.(type) {
	case bool:
		return &val
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err == nil {
			return &b
		}
	case json.Number:
		if n, err := val.Int64(); err == nil && (n == 0 || n == 1) {
			b := n == 1
			return &b
		}
	}
	p.invalid(key, "Must be true or false")
	return nil
}

func (p *payload) Date(key string) *time.Time {
	v, ok := p.value(key)
	if !ok {
		return nil
	}
	t, ok := domain.ParseFlexibleDate(v)
	if !ok {
		p.invalid(key, "Must be a date or epoch timestamp")
		return nil
	}
	return &t
}

// ID returns the record id of an update body
func (p *payload) ID() (int64, error) {
	id := p.Int64("id")
	if id == nil || *id <= 0 {
		return 0, domain.ErrIDRequired
	}
	return *id, nil
}

// queryID parses the id query parameter of a delete request
func queryID(c echo.Context) (int64, error) {
	raw := strings.TrimSpace(c.QueryParam("id"))
	if raw == "" {
		return 0, domain.ErrIDRequired
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrIDRequired
	}
	return id, nil
}
