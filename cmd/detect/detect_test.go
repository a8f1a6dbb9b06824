package detect

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/taxstmt/cmd/root"
	"fjacquet/taxstmt/internal/config"
	"fjacquet/taxstmt/internal/container"
	"fjacquet/taxstmt/internal/logging"
)

func setupContainer(t *testing.T) {
	t.Helper()
	testChdir(t, t.TempDir())
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	root.AppContainer = c
	t.Cleanup(func() { root.AppContainer = nil })
}

func TestDetectCommand(t *testing.T) {
	assert.Equal(t, "detect [file|dir]...", Cmd.Use)
	assert.NotEmpty(t, Cmd.Short)
	assert.NotNil(t, Cmd.RunE)
}

func TestDetectFunc(t *testing.T) {
	setupContainer(t)
	dir := t.TempDir()
	revolut := filepath.Join(dir, "account.csv")
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(revolut, []byte("Type,Product,Started Date,Completed Date,Description,Amount,Fee,Currency,State,Balance\n" +
	"CARD_PAYMENT,Current,2025-01-02 08:07:09,2025-01-03 15:38:51,Boreal Coffee Shop,-57.50,0.00,CHF,COMPLETED,53.92\n" +
	"CARD_PAYMENT,Current,2025-01-08 19:39:37,,Pending Shop,-9.14,0.00,CHF,PENDING,\n"), 0600))
	require.NoError(t, os.WriteFile(notes, []byte("hello"), 0600))

	var out bytes.Buffer
	Cmd.SetOut(&out)
	t.Cleanup(func() { Cmd.SetOut(nil) })

	require.NoError(t, detectFunc(Cmd, []string{dir}))
	assert.Equal(t, revolut+": revolut\n"+notes+": None\n", out.String())
}

func TestDetectFunc_Errors(t *testing.T) {
	setupContainer(t)

	assert.Error(t, detectFunc(Cmd, nil))
	assert.Error(t, detectFunc(Cmd, []string{filepath.Join(t.TempDir(), "missing.pdf")}))
}
