package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
		ok       bool
	}{
		{"camt export", "CAMT.053_54293249_2025-04-01_2025-04-30_1.xml", "54293249", true},
		{"with directory", "/data/in/CAMT.053_54293249_2025-04-01_2025-04-30_1.xml", "54293249", true},
		{"csv export without sequence", "EXPORT_12345678_2024-01-01_2024-01-31.csv", "12345678", true},
		{"plain name", "statement.xml", "", false},
		{"short number", "CAMT.053_123_2025-04-01_2025-04-30_1.xml", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AccountFromFilename(tt.filename)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeAccountID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Clean alphanumeric ID", "ABC123", "ABC123"},
		{"ID with spaces", "ABC 123 XYZ", "ABC_123_XYZ"},
		{"ID with special characters", "ABC@123#XYZ", "ABC_123_XYZ"},
		{"ID with multiple consecutive spaces", "ABC   123", "ABC_123"},
		{"Path traversal", "../../etc", "etc"},
		{"Empty string", "", "UNKNOWN"},
		{"Only special characters", "@#$%", "UNKNOWN"},
		{"Leading and trailing underscores", "_ABC123_", "ABC123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeAccountID(tt.input))
		})
	}
}
