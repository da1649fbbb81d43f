package dateformat

import (
	"errors"
	"math"
	"strings"
	"time"
)

// ErrInvalidTimeFormat is returned when a string matches none of the accepted layouts.
var ErrInvalidTimeFormat = errors.New("invalid time format")

// Largest instant a JavaScript Date can hold, in milliseconds from the epoch.
const maxEpochMillis = 8.64e15

var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
}

// Layouts without an offset are read as wall time in the formatter's location.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// ParseTime parses s the way a browser Date constructor would for the
// common ISO shapes: date-only strings are UTC midnight, date-times
// without an offset are wall time in loc.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidTimeFormat
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	for _, f := range zonedLayouts {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	for _, f := range localLayouts {
		if t, err := time.ParseInLocation(f, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidTimeFormat
}

type asTimer interface {
	AsTime() time.Time
}

// toTime converts a timestamp-like value. ok is false for empty or invalid input.
func toTime(v any, loc *time.Location) (time.Time, bool) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case string:
		t, err := ParseTime(x, loc)
		return t, err == nil
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, !x.IsZero()
	case int:
		return fromMillis(float64(x))
	case int32:
		return fromMillis(float64(x))
	case int64:
		return fromMillis(float64(x))
	case uint:
		return fromMillis(float64(x))
	case uint32:
		return fromMillis(float64(x))
	case uint64:
		return fromMillis(float64(x))
	case float32:
		return fromMillis(float64(x))
	case float64:
		return fromMillis(x)
	case asTimer:
		t := x.AsTime()
		return t, !t.IsZero()
	}
	return time.Time{}, false
}

func fromMillis(ms float64) (time.Time, bool) {
	if ms == 0 || math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxEpochMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)), true
}
