package batch

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/taxstmt/cmd/root"
	"fjacquet/taxstmt/internal/common"
	"fjacquet/taxstmt/internal/config"
	"fjacquet/taxstmt/internal/container"
	"fjacquet/taxstmt/internal/logging"
)

const revolutCSV = "Type,Product,Started Date,Completed Date,Description,Amount,Fee,Currency,State,Balance\n" +
	"CARD_PAYMENT,Current,2025-01-02 08:07:09,2025-01-03 15:38:51,Boreal Coffee Shop,-57.50,0.00,CHF,COMPLETED,53.92\n" +
	"CARD_PAYMENT,Current,2025-01-08 19:39:37,,Pending Shop,-9.14,0.00,CHF,PENDING,\n"

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testChdir(t, dir)
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	root.AppContainer = c

	saved := root.SharedFlags
	t.Cleanup(func() {
		root.AppContainer = nil
		root.SharedFlags = saved
		clientDir, splitDir, reportFile = "", "", ""
		Cmd.SetErr(nil)
	})
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestBatchCommand(t *testing.T) {
	assert.Equal(t, "batch", Cmd.Use)
	assert.NotNil(t, Cmd.Flags().Lookup("client"))
	assert.NotNil(t, Cmd.Flags().Lookup("split-dir"))
}

func TestBatchFunc_Client(t *testing.T) {
	dir := setup(t)
	client := filepath.Join(dir, "smith")
	writeFile(t, filepath.Join(client, "input", "revolut", "jan.csv"), revolutCSV)
	writeFile(t, filepath.Join(client, "input", "revolut", "broken.csv"), "Type,State\n\"unterminated")
	writeFile(t, filepath.Join(client, "input", "unknown_bank", "x.csv"), "a,b\n1,2\n")

	clientDir = client
	output := filepath.Join(dir, "smith.csv")
	root.SharedFlags.Output = output
	var stderr bytes.Buffer
	Cmd.SetErr(&stderr)

	require.NoError(t, batchFunc(Cmd, nil))

	txs, err := common.ReadCanonicalCSV(output, common.DefaultDelimiter, logging.NewMockLogger())
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Boreal Coffee Shop", txs[0].Description)

	report := stderr.String()
	assert.Contains(t, report, "jan.csv [revolut]: extracted=1 validated=1 skipped=1")
	assert.Contains(t, report, "x.csv [unknown_bank]: FAILED")
	assert.Contains(t, report, "3 files, 2 failed, 1 transactions")
}

func TestBatchFunc_DirectoryWithSplit(t *testing.T) {
	dir := setup(t)
	in := filepath.Join(dir, "in")
	writeFile(t, filepath.Join(in, "jan.csv"), revolutCSV)

	root.SharedFlags.Input = in
	root.SharedFlags.Output = filepath.Join(dir, "all.csv")
	splitDir = filepath.Join(dir, "split")
	reportFile = filepath.Join(dir, "run.yaml")
	Cmd.SetErr(&bytes.Buffer{})

	require.NoError(t, batchFunc(Cmd, nil))

	assert.FileExists(t, reportFile)

	assert.FileExists(t, root.SharedFlags.Output)
	assert.FileExists(t, filepath.Join(splitDir, "unknown_2025-01-03_2025-01-03.csv"))
}

func TestBatchFunc_NoInput(t *testing.T) {
	setup(t)
	root.SharedFlags.Input = ""
	assert.Error(t, batchFunc(Cmd, nil))
}

func TestBatchFunc_InvalidDirectory(t *testing.T) {
	tests := []struct {
		name   string
		client string
		input  string
		errMsg string
	}{
		{"missing client", "nobody", "", "does not exist"},
		{"input is a file", "", "jan.csv", "not a directory"},
		{"missing input", "", "absent", "does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setup(t)
			writeFile(t, filepath.Join(dir, "jan.csv"), revolutCSV)
			clientDir = tt.client
			root.SharedFlags.Input = tt.input

			err := batchFunc(Cmd, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestBatchFunc_RelativeInputDirectory(t *testing.T) {
	dir := setup(t)
	writeFile(t, filepath.Join(dir, "in", "jan.csv"), revolutCSV)

	root.SharedFlags.Input = "in"
	root.SharedFlags.Output = filepath.Join(dir, "all.csv")
	Cmd.SetErr(&bytes.Buffer{})

	require.NoError(t, batchFunc(Cmd, nil))

	txs, err := common.ReadCanonicalCSV(root.SharedFlags.Output, common.DefaultDelimiter, logging.NewMockLogger())
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}
