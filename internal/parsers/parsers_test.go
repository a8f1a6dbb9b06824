package parsers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/taxstmt/internal/chaseparser"
	"fjacquet/taxstmt/internal/csvparser"
	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/parser"
	"fjacquet/taxstmt/internal/pdftext"
	"fjacquet/taxstmt/internal/revolutparser"
	"fjacquet/taxstmt/internal/statementdate"
)

func testDeps(pages []string) parser.Dependencies {
	logger := logging.NewMockLogger()
	return parser.Dependencies{
		Logger:    logger,
		Extractor: pdftext.NewMockExtractor(pages, nil),
		Dates:     statementdate.NewResolver(nil, logger),
	}
}

func TestDiscover_Idempotent(t *testing.T) {
	reg := parser.NewRegistry(testDeps(nil))

	Discover(reg, nil)
	first := reg.Names()
	Discover(reg, nil)

	assert.Equal(t, first, reg.Names())
	assert.Len(t, first, len(Builtin))
}

func TestBootstrap_EveryParserConstructs(t *testing.T) {
	reg := Bootstrap(testDeps(nil))
	for _, name := range reg.Names() {
		p, err := reg.Get(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, p.Name())
	}
	assert.True(t, reg.Has(csvparser.Name))
}

func TestBootstrap_OnlyGenericCSVLacksDetection(t *testing.T) {
	reg := Bootstrap(testDeps(nil))
	for _, name := range reg.Names() {
		p, err := reg.Get(name)
		require.NoError(t, err)
		assert.Equal(t, name != csvparser.Name, parser.SupportsDetection(p), name)
	}
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	revolut := filepath.Join(dir, "revolut.csv")
	require.NoError(t, os.WriteFile(revolut, []byte(
		"Type,Product,Started Date,Completed Date,Description,Amount,Fee,Currency,State,Balance\n"+
			"TOPUP,Current,2025-01-09 10:00:00,2025-01-09 10:00:05,Top-up,100.00,0.00,CHF,COMPLETED,152.92\n"), 0o600))
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("hello"), 0o600))

	chasePage := "JPMorgan Chase Bank, N.A.\nCHECKING SUMMARY\nTRANSACTION DETAIL\n"
	reg := Bootstrap(testDeps([]string{chasePage}))

	tests := []struct {
		name string
		path string
		want string
		ok   bool
	}{
		{"revolut csv", revolut, revolutparser.Name, true},
		{"chase pdf", filepath.Join(dir, "statement.pdf"), chaseparser.Name, true},
		{"unknown file", other, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := reg.Detect(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
