package normalize

import (
	"os"
	"path/filepath"
	"strings"
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
		statementDate, accountNumber, showSkipped = "", "", false
	})

	input := filepath.Join(dir, "revolut.csv")
	require.NoError(t, os.WriteFile(input, []byte(revolutCSV), 0600))
	return input
}

func TestNormalizeCommand(t *testing.T) {
	assert.Equal(t, "normalize", Cmd.Use)
	for _, name := range []string{"statement-date", "account", "show-skipped"} {
		assert.NotNil(t, Cmd.Flags().Lookup(name), name)
	}
}

func TestNormalizeFunc(t *testing.T) {
	tests := []struct {
		name     string
		parser   string
		account  string
		relative bool
	}{
		{"explicit parser", "revolut", "", false},
		{"detected parser", "", "", false},
		{"account override", "revolut", "CH-42", false},
		{"relative input", "revolut", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := setup(t)
			output := filepath.Join(filepath.Dir(input), "out.csv")
			root.SharedFlags.Input = input
			if tt.relative {
				root.SharedFlags.Input = filepath.Base(input)
			}
			root.SharedFlags.Output = output
			root.SharedFlags.Parser = tt.parser
			accountNumber = tt.account

			require.NoError(t, normalizeFunc(Cmd, nil))

			txs, err := common.ReadCanonicalCSV(output, common.DefaultDelimiter, logging.NewMockLogger())
			require.NoError(t, err)
			require.Len(t, txs, 1)
			assert.Equal(t, "2025-01-03", txs[0].TransactionDate)
			assert.Equal(t, "revolut", txs[0].Source)
			assert.Equal(t, tt.account, txs[0].AccountNumber)
			assert.Len(t, txs[0].TransactionHash, 64)
		})
	}
}

func TestNormalizeFunc_Errors(t *testing.T) {
	input := setup(t)

	root.SharedFlags.Input = ""
	assert.Error(t, normalizeFunc(Cmd, nil))

	root.SharedFlags.Input = input
	root.SharedFlags.Parser = "no_such_parser"
	assert.Error(t, normalizeFunc(Cmd, nil))

	notes := filepath.Join(filepath.Dir(input), "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("plain"), 0600))
	root.SharedFlags.Input = notes
	root.SharedFlags.Parser = ""
	err := normalizeFunc(Cmd, nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no parser detected"))
}
