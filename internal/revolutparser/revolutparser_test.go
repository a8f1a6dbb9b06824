package revolutparser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/models"
	"fjacquet/taxstmt/internal/parser"
	"fjacquet/taxstmt/internal/parsererror"
)

const sampleCSV = `Type,Product,Started Date,Completed Date,Description,Amount,Fee,Currency,State,Balance
TRANSFER,Current,2025-01-02 08:07:09,2025-01-02 08:07:09,To CHF Vacances,-2.50,0.00,CHF,COMPLETED,111.42
CARD_PAYMENT,Current,2025-01-02 08:07:09,2025-01-03 15:38:51,Boreal Coffee Shop,-57.50,0.00,CHF,COMPLETED,53.92
CARD_PAYMENT,Current,2025-01-08 19:39:37,,Pending Shop,-9.14,0.00,CHF,PENDING,
TOPUP,Current,2025-01-09 10:00:00,2025-01-09 10:00:05,Top-up by card,100.00,1.00,CHF,COMPLETED,152.92
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTestParser() *Parser {
	return New(parser.Dependencies{Logger: logging.NewMockLogger()}).(*Parser)
}

func TestParseFile(t *testing.T) {
	path := writeFile(t, "revolut.csv", sampleCSV)

	result, err := newTestParser().ParseFile(path, models.ParseConfig{AccountNumber: "REV-1"})
	require.NoError(t, err)
	require.Len(t, result.Records, 3)

	first := result.Records[0]
	assert.Equal(t, "2025-01-02", first["Date"])
	assert.Equal(t, "To CHF Vacances", first["Description"])
	assert.InDelta(t, -2.50, first["Amount"], 0.001)
	assert.Equal(t, "CHF", first["Currency"])
	assert.Equal(t, "REV-1", first["Account Number"])
	_, hasFee := first["Fee"]
	assert.False(t, hasFee)

	assert.Equal(t, "2025-01-03", result.Records[1]["Date"])
	assert.Equal(t, "2025-01-02", result.Records[1]["Started Date"])

	topup := result.Records[2]
	assert.InDelta(t, 100.00, topup["Amount"], 0.001)
	assert.InDelta(t, 1.00, topup["Fee"], 0.001)

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 4, result.Skipped[0].Line)
	assert.Equal(t, "state PENDING", result.Skipped[0].Reason)
}

func TestParseFile_InvalidAmount(t *testing.T) {
	content := "Type,Product,Started Date,Completed Date,Description,Amount,Fee,Currency,State,Balance\n" +
		"CARD_PAYMENT,Current,2025-01-02,2025-01-02,Broken,abc,0,CHF,COMPLETED,1\n"
	result, err := newTestParser().ParseFile(writeFile(t, "revolut.csv", content), models.ParseConfig{})
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Len(t, result.Skipped, 1)
}

func TestParseFile_MissingFile(t *testing.T) {
	_, err := newTestParser().ParseFile(filepath.Join(t.TempDir(), "none.csv"), models.ParseConfig{})
	var formatErr *parsererror.InvalidFormatError
	assert.True(t, errors.As(err, &formatErr))
}

func TestCanParse(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name    string
		file    string
		content string
		want    bool
	}{
		{"revolut export", "a.csv", sampleCSV, true},
		{"byte order mark", "a.csv", "\ufeff" + sampleCSV, true},
		{"missing columns", "a.csv", "Date,Description,Amount\n2025-01-01,x,1.00\n", false},
		{"wrong extension", "a.txt", sampleCSV, false},
		{"empty file", "a.csv", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.CanParse(writeFile(t, tt.file, tt.content)))
		})
	}
}
