package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/aarynsmith/exercisetracker/internal/infrastructure/validate"
)

// LogFilter narrows the log returned to a caller. Nil fields are unset.
type LogFilter struct {
	From  *time.Time
	To    *time.Time
	Limit *int
}

var validateLimit = validate.Field("limit", validate.NonNegativeInt())

// ParseLogFilter parses the raw from/to/limit query values. Empty values
// leave the corresponding bound unset.
func ParseLogFilter(from, to, limit string) (LogFilter, error) {
	var f LogFilter

	if from != "" {
		t, ok := ParseDate(from)
		if !ok {
			return LogFilter{}, NewValidationError(ErrInvalidFrom)
		}
		f.From = &t
	}

	if to != "" {
		t, ok := ParseDate(to)
		if !ok {
			return LogFilter{}, NewValidationError(ErrInvalidTo)
		}
		f.To = &t
	}

	if limit != "" {
		if err := validateLimit(limit); err != nil {
			return LogFilter{}, NewValidationError(err)
		}
		n, _ := strconv.Atoi(strings.TrimSpace(limit))
		f.Limit = &n
	}

	return f, nil
}

func (f LogFilter) IsZero() bool {
	return f.From == nil && f.To == nil && f.Limit == nil
}

// ApplyFilters keeps entries dated on or after From, then on or before To,
// then truncates to the first Limit entries. Insertion order is preserved
// and entries is never modified.
func ApplyFilters(entries []LogEntry, f LogFilter) []LogEntry {
	if f.IsZero() {
		return entries
	}

	out := make([]LogEntry, 0, len(entries))
	for _, e := range entries {
		if f.From != nil || f.To != nil {
			d, ok := entryDate(e.Date)
			if !ok {
				continue
			}
			if f.From != nil && d.Before(*f.From) {
				continue
			}
			if f.To != nil && d.After(*f.To) {
				continue
			}
		}
		out = append(out, e)
	}

	if f.Limit != nil && *f.Limit < len(out) {
		out = out[:*f.Limit]
	}

	return out
}
