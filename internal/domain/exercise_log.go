package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/aarynsmith/exercisetracker/internal/infrastructure/validate"
)

const (
	// DateLayout renders calendar dates as e.g. "Mon Jan 01 2024".
	DateLayout = "Mon Jan 02 2006"

	// InvalidDate is stored when a caller-supplied date cannot be parsed.
	InvalidDate = "Invalid Date"
)

// Accepted input layouts, tried in order. Any time of day is discarded
// before parsing, so every layout is date-only.
var inputDateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/1/2",
	"1/2/2006",
	"Mon Jan 2 2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

type LogEntry struct {
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Date        string  `json:"date"`
}

// LogEntryInput is an entry as received from a caller, before normalization.
type LogEntryInput struct {
	Description string
	Duration    string
	Date        string
}

// LoggedExercise echoes an appended entry together with its owner.
type LoggedExercise struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Date        string  `json:"date"`
	Duration    float64 `json:"duration"`
	Description string  `json:"description"`
}

var (
	validateDescription = validate.Field("description", validate.Required())
	validateDuration    = validate.Field("duration", validate.Required(), validate.Number())
)

// NormalizeEntry validates in and renders its date. When in.Date is empty
// the calendar date of now is used; an unparsable date is kept as the
// InvalidDate sentinel rather than rejected.
func NormalizeEntry(in LogEntryInput, now time.Time) (LogEntry, error) {
	err := validate.First(
		func() error { return validateDescription(in.Description) },
		func() error { return validateDuration(in.Duration) },
	)
	if err != nil {
		return LogEntry{}, NewValidationError(err)
	}

	duration, _ := strconv.ParseFloat(strings.TrimSpace(in.Duration), 64)

	date := FormatDate(now)
	if in.Date != "" {
		if d, ok := ParseDate(in.Date); ok {
			date = FormatDate(d)
		} else {
			date = InvalidDate
		}
	}

	return LogEntry{
		Description: in.Description,
		Duration:    duration,
		Date:        date,
	}, nil
}

// ParseDate reads a calendar date, ignoring any time-of-day or zone suffix.
// The result is midnight UTC of the date as written by the caller, so the
// same input yields the same date whatever the server's time zone.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	// ISO date-times: keep only the date part
	if len(s) > 10 && (s[10] == 'T' || s[10] == ' ') {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return t, true
		}
	}

	s = cutTimeOfDay(s)
	for _, layout := range inputDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// cutTimeOfDay drops the first clock token ("10:00", "8:30:15") and
// everything after it, including AM/PM markers and zones.
func cutTimeOfDay(s string) string {
	fields := strings.Fields(s)
	for i := 1; i < len(fields); i++ {
		if isClock(fields[i]) {
			return strings.TrimRight(strings.Join(fields[:i], " "), ",")
		}
	}
	return s
}

func isClock(field string) bool {
	hour, rest, ok := strings.Cut(field, ":")
	if !ok || hour == "" || len(hour) > 2 || len(rest) < 2 {
		return false
	}
	for _, c := range hour + rest[:2] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// entryDate parses a stored date string; the InvalidDate sentinel and any
// other unreadable value report false.
func entryDate(stored string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, stored)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
