package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// EpochMillisThreshold separates second-based from millisecond-based epochs.
// Values below it are seconds.
const EpochMillisThreshold = 1_000_000_000_000

// DateLayout is the human readable date format used in views.
const DateLayout = "2006-01-02"

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	DateLayout,
}

// ParseFlexibleDate converts a stored or submitted date into a UTC time.
// Numbers and numeric strings are treated as epochs; other strings are tried
// against the ISO-like layouts. The boolean is false for empty, zero or
// unparsable input.
func ParseFlexibleDate(v any) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return val.UTC(), true
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return ParseFlexibleDate(*val)
	case json.Number:
		return parseEpochString(val.String())
	case float64:
		return fromEpoch(val)
	case float32:
		return fromEpoch(float64(val))
	case int:
		return fromEpoch(float64(val))
	case int32:
		return fromEpoch(float64(val))
	case int64:
		return fromEpoch(float64(val))
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}, false
		}
		if t, ok := parseEpochString(s); ok {
			return t, true
		}
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
		return time.Time{}, false
	}
	return time.Time{}, false
}

func parseEpochString(s string) (time.Time, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, false
	}
	return fromEpoch(f)
}

func fromEpoch(v float64) (time.Time, bool) {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return time.Time{}, false
	}
	millis := v
	if math.Abs(v) < EpochMillisThreshold {
		millis = v * 1000
	}
	return time.UnixMilli(int64(millis)).UTC(), true
}

// InMonth reports whether t falls in year/month as observed in loc.
func InMonth(t time.Time, loc *time.Location, year, month int) bool {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Year() == year && int(t.Month()) == month
}
