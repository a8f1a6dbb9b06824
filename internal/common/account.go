package common

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Bank exports often carry the account in the file name, e.g.
// CAMT.053_54293249_2025-04-01_2025-04-30_1.xml.
var accountFilenamePattern = regexp.MustCompile(`(?i)^[A-Z0-9.]+?_([0-9]{6,})_\d{4}-\d{2}-\d{2}_\d{4}-\d{2}-\d{2}(?:_\d+)?\.[a-z]+$`)

// AccountFromFilename extracts an account number embedded in an export file
// name.
func AccountFromFilename(filename string) (string, bool) {
	m := accountFilenamePattern.FindStringSubmatch(filepath.Base(filename))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// SanitizeAccountID sanitizes an identifier to be filesystem-safe.
// Removes or replaces characters that are not safe for filenames
// Also removes path traversal sequences like ".." for security
func SanitizeAccountID(accountID string) string {
	sanitized := strings.ReplaceAll(strings.TrimSpace(accountID), " ", "_")

	var result strings.Builder
	for _, r := range sanitized {
		if (r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') ||
			r == '_' || r == '-' || r == '.' {
			result.WriteRune(r)
		} else {
			result.WriteRune('_')
		}
	}
	sanitized = result.String()

	for strings.Contains(sanitized, "..") {
		sanitized = strings.ReplaceAll(sanitized, "..", "_")
	}
	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = strings.Trim(sanitized, "_.")

	if sanitized == "" {
		sanitized = "UNKNOWN"
	}
	return sanitized
}
