package report

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"fjacquet/taxstmt/internal/batch"
	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/models"
)

func sampleReport() *batch.Report {
	return &batch.Report{
		RunID: "8f4c",
		Files: []batch.FileReport{
			{File: "in/chase.pdf", Parser: "chase", Extracted: 4, Validated: 3, Skipped: []string{"record: missing description"}},
			{File: "in/notes.txt", Err: errors.New("no parser detected")},
		},
		Transactions: []models.CanonicalTransaction{{TransactionDate: "2024-01-02"}, {TransactionDate: "2024-01-03"}, {TransactionDate: "2024-01-04"}},
		Duplicates:   1,
	}
}

func TestGenerator_Generate(t *testing.T) {
	g := NewGenerator(logging.NewMockLogger())

	tests := []struct {
		format    string
		unmarshal func([]byte, any) error
	}{
		{FormatJSON, json.Unmarshal},
		{FormatXML, xml.Unmarshal},
		{FormatYAML, yaml.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := g.Generate(sampleReport(), tt.format)
			require.NoError(t, err)

			var got RunSummary
			require.NoError(t, tt.unmarshal(out, &got))
			assert.Equal(t, "8f4c", got.RunID)
			assert.Equal(t, 2, got.FileCount)
			assert.Equal(t, 1, got.Failures)
			assert.Equal(t, 3, got.Transactions)
			assert.Equal(t, 1, got.Duplicates)
			require.Len(t, got.Files, 2)
			assert.Equal(t, []string{"record: missing description"}, got.Files[0].Skipped)
			assert.Equal(t, "no parser detected", got.Files[1].Error)
		})
	}
}

func TestGenerator_UnsupportedFormat(t *testing.T) {
	_, err := NewGenerator(nil).Generate(sampleReport(), "pdf")
	assert.EqualError(t, err, "unsupported report format: pdf")
}

func TestGenerator_WriteFile(t *testing.T) {
	logger := logging.NewMockLogger()
	path := filepath.Join(t.TempDir(), "reports", "run.json")

	require.NoError(t, NewGenerator(logger).WriteFile(sampleReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run_id": "8f4c"`)
	assert.True(t, logger.HasEntry("INFO", "Wrote run report"))
}
