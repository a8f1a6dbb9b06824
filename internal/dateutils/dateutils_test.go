package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveYear(t *testing.T) {
	tests := []struct {
		name           string
		month          int
		statementYear  int
		statementMonth int
		expected       int
	}{
		{name: "december on january statement", month: 12, statementYear: 2023, statementMonth: 1, expected: 2022},
		{name: "june on january statement", month: 6, statementYear: 2023, statementMonth: 1, expected: 2023},
		{name: "december on december statement", month: 12, statementYear: 2023, statementMonth: 12, expected: 2023},
		{name: "january on january statement", month: 1, statementYear: 2024, statementMonth: 1, expected: 2024},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveYear(tt.month, tt.statementYear, tt.statementMonth))
		})
	}
}

func TestNormalizeTransactionDate(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		year   int
		month  int
		want   string
		wantOK bool
	}{
		{name: "iso", raw: "2023-04-05", want: "2023-04-05", wantOK: true},
		{name: "month day rollover", raw: "12/31", year: 2023, month: 1, want: "2022-12-31", wantOK: true},
		{name: "month day same year", raw: "06/15", year: 2023, month: 1, want: "2023-06-15", wantOK: true},
		{name: "single digits", raw: "1/5", year: 2024, month: 1, want: "2024-01-05", wantOK: true},
		{name: "month name", raw: "Jan 5", year: 2024, month: 2, want: "2024-01-05", wantOK: true},
		{name: "month name rollover", raw: "Dec 28", year: 2024, month: 1, want: "2023-12-28", wantOK: true},
		{name: "weekday prefix", raw: "Tue, Sept 3", year: 2024, month: 9, want: "2024-09-03", wantOK: true},
		{name: "full month name", raw: "September 30", year: 2024, month: 10, want: "2024-09-30", wantOK: true},
		{name: "word with month prefix", raw: "MARKET 12", year: 2024, month: 3, wantOK: false},
		{name: "word with may prefix", raw: "Maytag 3", year: 2024, month: 5, wantOK: false},
		{name: "invalid day", raw: "02/30", year: 2023, month: 3, wantOK: false},
		{name: "month day without year", raw: "12/31", wantOK: false},
		{name: "us full", raw: "03/04/2023", want: "2023-03-04", wantOK: true},
		{name: "us short year", raw: "3/4/23", want: "2023-03-04", wantOK: true},
		{name: "long form", raw: "January 2, 2006", want: "2006-01-02", wantOK: true},
		{name: "european", raw: "15.02.2023", want: "2023-02-15", wantOK: true},
		{name: "timestamp", raw: "2023-02-15 10:11:12", want: "2023-02-15", wantOK: true},
		{name: "compact", raw: "20231231", want: "2023-12-31", wantOK: true},
		{name: "empty", raw: "  ", wantOK: false},
		{name: "garbage", raw: "not a date", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeTransactionDate(tt.raw, tt.year, tt.month)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	parsed, layout, err := ParseDate("Jan 2, 2006")
	require.NoError(t, err)
	assert.Equal(t, "Jan 2, 2006", layout)
	assert.Equal(t, time.Date(2006, 1, 2, 0, 0, 0, 0, time.UTC), parsed)

	_, _, err = ParseDate("31/31/31")
	assert.Error(t, err)
}

func TestHelpers(t *testing.T) {
	m, ok := MonthFromAbbrev("SEPT")
	assert.True(t, ok)
	assert.Equal(t, time.September, m)
	_, ok = MonthFromAbbrev("xx")
	assert.False(t, ok)

	assert.Equal(t, "a b", CleanDateString("\u00a0a  b.\u00a0"))
}
