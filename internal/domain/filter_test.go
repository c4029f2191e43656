package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func januaryLog() []LogEntry {
	return []LogEntry{
		{Description: "first", Duration: 10, Date: "Mon Jan 01 2024"},
		{Description: "second", Duration: 20, Date: "Wed Jan 10 2024"},
		{Description: "third", Duration: 30, Date: "Sat Jan 20 2024"},
	}
}

func mustFilter(t *testing.T, from, to, limit string) LogFilter {
	t.Helper()
	f, err := ParseLogFilter(from, to, limit)
	require.NoError(t, err)
	return f
}

func TestApplyFilters_NoFiltersIsIdentity(t *testing.T) {
	entries := januaryLog()

	got := ApplyFilters(entries, LogFilter{})

	assert.Equal(t, entries, got)
}

func TestApplyFilters(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		limit    string
		expected []string
	}{
		{name: "range", from: "2024-01-05", to: "2024-01-15", expected: []string{"second"}},
		{name: "limit only", limit: "1", expected: []string{"first"}},
		{name: "from inclusive", from: "2024-01-10", expected: []string{"second", "third"}},
		{name: "to inclusive", to: "2024-01-10", expected: []string{"first", "second"}},
		{name: "limit after range", from: "2024-01-02", limit: "1", expected: []string{"second"}},
		{name: "limit zero", limit: "0", expected: []string{}},
		{name: "limit larger than log", limit: "10", expected: []string{"first", "second", "third"}},
		{name: "empty range", from: "2024-02-01", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := januaryLog()

			got := ApplyFilters(entries, mustFilter(t, tt.from, tt.to, tt.limit))

			descriptions := make([]string, 0, len(got))
			for _, e := range got {
				descriptions = append(descriptions, e.Description)
			}
			assert.Equal(t, tt.expected, descriptions)
			assert.Equal(t, januaryLog(), entries, "input must not be modified")
		})
	}
}

func TestApplyFilters_InvalidStoredDateNeverMatchesBounds(t *testing.T) {
	entries := append(januaryLog(), LogEntry{Description: "bad", Duration: 1, Date: InvalidDate})

	got := ApplyFilters(entries, mustFilter(t, "2000-01-01", "", ""))
	assert.Len(t, got, 3)

	got = ApplyFilters(entries, mustFilter(t, "", "", "4"))
	assert.Len(t, got, 4)
}

func TestParseLogFilter_BoundsIgnoreTimeOfDay(t *testing.T) {
	f := mustFilter(t, "1/10/2024 18:45", "Jan 10 2024 06:00", "")

	got := ApplyFilters(januaryLog(), f)
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].Description)
}

func TestParseLogFilter_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		limit    string
		expected string
	}{
		{name: "bad from", from: "yesterday", expected: "invalid from date"},
		{name: "bad to", to: "2024-99-01", expected: "invalid to date"},
		{name: "non numeric limit", limit: "ten", expected: "limit must be a non-negative integer"},
		{name: "negative limit", limit: "-1", expected: "limit must be a non-negative integer"},
		{name: "fractional limit", limit: "1.5", expected: "limit must be a non-negative integer"},
		{name: "first error wins", from: "bad", limit: "bad", expected: "invalid from date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLogFilter(tt.from, tt.to, tt.limit)
			require.Error(t, err)
			assert.Equal(t, tt.expected, err.Error())
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}
}
