package xmlutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <Stmt>
      <Acct><Id><IBAN>CH9300762011623852957</IBAN></Id></Acct>
      <Ntry>
        <Amt Ccy="CHF">100.50</Amt>
        <CdtDbtInd>DBIT</CdtDbtInd>
      </Ntry>
      <Ntry>
        <Amt Ccy="EUR">20.00</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
      </Ntry>
    </Stmt>
  </BkToCstmrStmt>
</Document>`

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple text unchanged", "Hello World", "Hello World"},
		{"removes extra whitespace", "Hello    World", "Hello World"},
		{"newlines and tabs", "Hello\n\tWorld\n", "Hello World"},
		{"strips remittance prefix", "Remittance Info: Invoice 42", "Invoice 42"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestExtractFromXML(t *testing.T) {
	root, err := Parse(strings.NewReader(sampleXML))
	require.NoError(t, err)

	amounts, err := ExtractFromXML(root, "//Ntry/Amt")
	require.NoError(t, err)
	assert.Equal(t, []string{"100.50", "20.00"}, amounts)

	currencies, err := ExtractFromXML(root, "//Ntry/Amt/@Ccy")
	require.NoError(t, err)
	assert.Equal(t, []string{"CHF", "EUR"}, currencies)

	_, err = ExtractFromXML(root, "//[")
	assert.Error(t, err)
}

func TestNodesAndRelativeValues(t *testing.T) {
	root, err := Parse(strings.NewReader(sampleXML))
	require.NoError(t, err)

	stmts, err := Nodes(root, DefaultStatementPaths().Statement)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t, "CH9300762011623852957", Value(stmts[0], DefaultStatementPaths().IBAN))

	entries, err := Nodes(stmts[0], "Ntry")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	paths := DefaultEntryPaths()
	assert.Equal(t, "DBIT", Value(entries[0], paths.CreditDebitInd))
	assert.Equal(t, "EUR", Value(entries[1], paths.Currency))
	assert.Equal(t, "", Value(entries[1], paths.BookingDate))

	assert.True(t, Exists(root, "//BkToCstmrStmt"))
	assert.False(t, Exists(root, "//MissingElement"))
}

func TestLoadXMLFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.xml")
	require.NoError(t, os.WriteFile(good, []byte(sampleXML), 0o600))
	bad := filepath.Join(dir, "bad.xml")
	require.NoError(t, os.WriteFile(bad, []byte("<unclosed"), 0o600))

	root, err := LoadXMLFile(good)
	require.NoError(t, err)
	assert.NotNil(t, root)

	_, err = LoadXMLFile(bad)
	assert.Error(t, err)

	_, err = LoadXMLFile(filepath.Join(dir, "missing.xml"))
	assert.Error(t, err)
}
