package textutils

import (
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(`\s{2,}|\t+`)

// CollapseSpaces trims s and reduces every whitespace run to one space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SplitColumns splits a layout-preserved text line on tabs or runs of two
// or more spaces, dropping empty cells.
func SplitColumns(line string) []string {
	parts := multiSpace.Split(strings.TrimSpace(line), -1)
	cells := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			cells = append(cells, p)
		}
	}
	return cells
}

// ContainsAllFold reports whether text contains every phrase, ignoring case.
func ContainsAllFold(text string, phrases ...string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range phrases {
		if !strings.Contains(lower, strings.ToLower(phrase)) {
			return false
		}
	}
	return true
}

// Snippet returns at most n runes of s for log and error messages.
func Snippet(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
