// Package dateutils resolves the date strings found on statements into
// ISO-8601 calendar dates.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutUS       = "01/02/2006"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
	DateLayoutCompact  = "20060102"
)

// commonFormats is the generic best-effort list, tried in order. US layouts
// come before day-first ones since the statements are mostly US documents.
var commonFormats = []string{
	DateLayoutUS,
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-2006",
	"1-2-2006",
	"2006/01/02",
	DateLayoutFull,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"January 2 2006",
	"Mon, Jan 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"2-Jan-2006",
	"2 January 2006",
	DateLayoutEuropean,
	DateLayoutCompact,
}

// MonthNamePattern matches an English month name, full or abbreviated
// (Sep and Sept included). It does not match longer words that merely
// start with a month prefix, such as MARKET or JUNIOR.
const MonthNamePattern = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

// WeekdayPattern matches an English weekday name, full or abbreviated.
const WeekdayPattern = `(?:mon(?:day)?|tue(?:s(?:day)?)?|wed(?:nesday)?|thu(?:r(?:s(?:day)?)?)?|fri(?:day)?|sat(?:urday)?|sun(?:day)?)`

var (
	monthDayNumeric = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})$`)
	monthDayName    = regexp.MustCompile(`^(?i)(?:` + WeekdayPattern + `,?\s+)?(` + MonthNamePattern + `)\.?\s+(\d{1,2})$`)
	multiSpace      = regexp.MustCompile(`\s+`)
)

var monthAbbrev = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// MonthFromAbbrev maps "Jan", "january", "SEPT" etc. to a month.
func MonthFromAbbrev(s string) (time.Month, bool) {
	if len(s) < 3 {
		return 0, false
	}
	m, ok := monthAbbrev[strings.ToLower(s[:3])]
	return m, ok
}

// ResolveYear returns the calendar year of a month/day date printed on a
// statement. A December date on a January statement belongs to the
// previous year; every other month keeps the statement year.
func ResolveYear(month, statementYear, statementMonth int) int {
	if month == 12 && statementMonth == 1 {
		return statementYear - 1
	}
	return statementYear
}

// NormalizeTransactionDate resolves raw into an ISO date. Strategies, in
// order: exact ISO, month/day combined with the statement year (with the
// December/January rollover), then the generic layouts. It returns false
// when every strategy fails; the caller treats that as a missing date.
func NormalizeTransactionDate(raw string, statementYear, statementMonth int) (string, bool) {
	s := CleanDateString(raw)
	if s == "" {
		return "", false
	}

	if t, err := time.Parse(DateLayoutISO, s); err == nil {
		return ToISODate(t), true
	}

	if statementYear > 0 {
		if month, day, ok := splitMonthDay(s); ok {
			year := ResolveYear(int(month), statementYear, statementMonth)
			if t, ok := makeDate(year, month, day); ok {
				return ToISODate(t), true
			}
			return "", false
		}
	}

	if t, _, err := ParseDate(s); err == nil {
		return ToISODate(t), true
	}
	return "", false
}

func splitMonthDay(s string) (time.Month, int, bool) {
	if m := monthDayNumeric.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 {
			return 0, 0, false
		}
		return time.Month(month), day, true
	}
	if m := monthDayName.FindStringSubmatch(s); m != nil {
		month, ok := MonthFromAbbrev(m[1])
		if !ok {
			return 0, 0, false
		}
		day, _ := strconv.Atoi(m[2])
		return month, day, true
	}
	return 0, 0, false
}

// makeDate rejects days that time.Date would silently roll over (02/30).
func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// ParseDate attempts to parse a date string using the generic layouts.
// Returns the parsed time and the detected format.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)
	for _, format := range commonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// CleanDateString trims s, collapses whitespace and drops a trailing
// period left over from abbreviations.
func CleanDateString(dateStr string) string {
	dateStr = strings.TrimSpace(strings.ReplaceAll(dateStr, "\u00a0", " "))
	dateStr = multiSpace.ReplaceAllString(dateStr, " ")
	return strings.TrimSuffix(dateStr, ".")
}
