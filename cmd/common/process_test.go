package common

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/taxstmt/internal/batch"
	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/models"
)

func sampleTransactions() []models.CanonicalTransaction {
	return []models.CanonicalTransaction{
		{TransactionDate: "2023-01-05", Amount: -12.5, Description: "COFFEE", AccountNumber: "1234", TransactionHash: "h1"},
		{TransactionDate: "2023-01-07", Amount: 100, Description: "REFUND", AccountNumber: "1234", TransactionHash: "h2"},
	}
}

func TestWriteTransactions(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name       string
		withHeader bool
	}{
		{"with header", true},
		{"without header", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".csv")
			err := WriteTransactions(sampleTransactions(), out, ',', tt.withHeader, logging.NewMockLogger())
			require.NoError(t, err)

			data, err := os.ReadFile(out)
			require.NoError(t, err)
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			if tt.withHeader {
				assert.Len(t, lines, 3)
				assert.Contains(t, lines[0], models.FieldTransactionHash)
			} else {
				assert.Len(t, lines, 2)
				assert.Contains(t, lines[0], "COFFEE")
			}
		})
	}
}

func TestWriteGroups(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "split")
	groups := batch.NewAggregator(logging.NewMockLogger()).GroupByAccount(sampleTransactions())

	paths, err := WriteGroups(groups, dir, ';', logging.NewMockLogger())
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, filepath.Join(dir, "1234_2023-01-05_2023-01-07.csv"), paths[0])
	assert.FileExists(t, paths[0])
}

func TestPrintReport(t *testing.T) {
	report := &batch.Report{
		RunID: "run-1",
		Files: []batch.FileReport{
			{File: "a.csv", Parser: "revolut", Extracted: 3, Validated: 2, Skipped: []string{"line 4: state PENDING"}},
			{File: "b.txt", Err: errors.New("no parser detected")},
		},
		Transactions: sampleTransactions(),
	}

	var buf bytes.Buffer
	PrintReport(&buf, report)
	out := buf.String()

	assert.Contains(t, out, "a.csv [revolut]: extracted=3 validated=2 skipped=1")
	assert.Contains(t, out, "    - line 4: state PENDING")
	assert.Contains(t, out, "b.txt [None]: FAILED: no parser detected")
	assert.Contains(t, out, "run run-1: 2 files, 1 failed, 2 transactions, 0 duplicate hashes")
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(sub, 0750))
	for _, p := range []string{filepath.Join(dir, "b.csv"), filepath.Join(sub, "a.pdf")} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0600))
	}
	single := filepath.Join(t.TempDir(), "one.ofx")
	require.NoError(t, os.WriteFile(single, []byte("x"), 0600))

	files, err := ExpandInputs([]string{dir, single})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.csv"), filepath.Join(sub, "a.pdf"), single}, files)

	_, err = ExpandInputs([]string{filepath.Join(dir, "missing.csv")})
	assert.Error(t, err)
}
