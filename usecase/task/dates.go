package task

import (
	"regexp"
	"time"
)

var calendarDateShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// parseStrictDate validates a YYYY-MM-DD string as a real calendar date. The
// parsed components must round-trip exactly, which rejects dates like
// 2024-02-30 that lenient parsers normalize into March.
func parseStrictDate(value string) (time.Time, bool) {
	if !calendarDateShape.MatchString(value) {
		return time.Time{}, false
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false
	}
	// time.Parse normalizes overflow days, so compare the round trip.
	if parsed.Format("2006-01-02") != value {
		return time.Time{}, false
	}
	return parsed.UTC(), true
}

// parseDueDate accepts either a strict calendar date or a full RFC 3339
// instant for task creation input.
func parseDueDate(value string) (time.Time, bool) {
	if t, ok := parseStrictDate(value); ok {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// dayStart returns midnight UTC of the calendar day.
func dayStart(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}

// dayEnd returns 23:59:59 UTC of the calendar day, the inclusive upper bound
// used by whole-day filters.
func dayEnd(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, time.UTC)
}
