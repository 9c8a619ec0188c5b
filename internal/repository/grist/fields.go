package grist

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
)

// Cell readers never fail: malformed or missing values fall back to the
// given default.

func (f Fields) has(col string) bool {
	v, ok := f[col]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

func (f Fields) str(col string) string {
	switch v := f[col].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func (f Fields) decimal(col string) decimal.Decimal {
	switch v := f[col].(type) {
	case json.Number:
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return d
		}
	case float64:
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return decimal.NewFromFloat(v)
		}
	case int64:
		return decimal.NewFromInt(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return decimal.Zero
}

func (f Fields) int64Or(col string, def int64) int64 {
	if !f.has(col) {
		return def
	}
	d := f.decimal(col)
	if d.IsZero() && !isZeroLiteral(f[col]) {
		return def
	}
	return d.IntPart()
}

func (f Fields) intOr(col string, def int) int {
	return int(f.int64Or(col, int64(def)))
}

func (f Fields) boolOr(col string, def bool) bool {
	switch v := f[col].(type) {
	case bool:
		return v
	case json.Number:
		return v.String() != "0"
	case float64:
		return v != 0
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

func (f Fields) date(col string) *time.Time {
	t, ok := domain.ParseFlexibleDate(f[col])
	if !ok {
		return nil
	}
	return &t
}

func isZeroLiteral(v any) bool {
	switch val := v.(type) {
	case json.Number:
		f, err := val.Float64()
		return err == nil && f == 0
	case float64:
		return val == 0
	case int64:
		return val == 0
	case int:
		return val == 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return err == nil && f == 0
	}
	return false
}

// number renders d as a JSON number literal for writes.
func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// epochSeconds renders t as the numeric epoch form date columns hold.
func epochSeconds(t time.Time) int64 {
	return t.Unix()
}
