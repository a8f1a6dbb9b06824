package transform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/taxstmt/internal/chaseparser"
	"fjacquet/taxstmt/internal/models"
)

func TestApply(t *testing.T) {
	maps := Maps{
		"bank": {
			models.FieldTransactionDate: Column("posted_on"),
			models.FieldDescription:     Coalesce("payee", "memo"),
			models.FieldAmount: Derive(func(row models.Row) any {
				if v, ok := row["debit"]; ok {
					return "-" + v.(string)
				}
				return nil
			}),
		},
	}

	tests := []struct {
		name string
		row  models.Row
		want models.Row
	}{
		{
			name: "rename coalesce and derive",
			row:  models.Row{"posted_on": "01/02", "payee": "", "memo": "RENT", "debit": "900.00", "ref": "x1"},
			want: models.Row{"transaction_date": "01/02", "description": "RENT", "amount": "-900.00",
				"payee": "", "memo": "RENT", "debit": "900.00", "ref": "x1"},
		},
		{
			name: "missing source keeps existing field",
			row:  models.Row{"description": "kept", "transaction_date": "2023-01-01"},
			want: models.Row{"description": "kept", "transaction_date": "2023-01-01"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maps.Apply("bank", tt.row))
		})
	}
}

func TestApply_NoMapPassesThrough(t *testing.T) {
	row := models.Row{"Weird": 1}
	assert.Equal(t, row, Maps{}.Apply("unknown", row))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	row := models.Row{"date": "01/05"}
	out := Builtin().Apply(chaseparser.Name, row)

	assert.Equal(t, models.Row{"date": "01/05"}, row)
	assert.Equal(t, models.Row{"transaction_date": "01/05"}, out)
}

func TestBuiltin_CoversEveryParser(t *testing.T) {
	maps := Builtin()
	for _, name := range []string{
		"chase_checking", "capitalone_credit", "amazon_orders", "tax_organizer",
		"camt053", "ofx", "revolut", "bank_xls", "generic_csv",
	} {
		assert.True(t, maps.Has(name), name)
		assert.Contains(t, maps[name], models.FieldTransactionDate, name)
	}
}

func TestMerge(t *testing.T) {
	base := Maps{"a": {"x": Column("one")}}
	overlay := Maps{"a": {"x": Column("two"), "y": Column("three")}, "b": {"z": Column("four")}}

	merged := base.Merge(overlay)

	assert.Equal(t, Column("two"), merged["a"]["x"])
	assert.Equal(t, Column("three"), merged["a"]["y"])
	assert.True(t, merged.Has("b"))
	assert.Equal(t, Column("one"), base["a"]["x"])
}

func TestLoadMapFile(t *testing.T) {
	content := strings.Join([]string{
		"sources:",
		"  generic_csv:",
		"    Transaction Date: Posted On",
		"    description: [Payee Name, Memo]",
		"  revolut:",
		"    amount: Amount",
	}, "\n")
	path := filepath.Join(t.TempDir(), "maps.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	maps, err := LoadMapFile(path)
	require.NoError(t, err)

	assert.Equal(t, Column("posted_on"), maps["generic_csv"]["transaction_date"])
	assert.Equal(t, Coalesce("payee_name", "memo"), maps["generic_csv"]["description"])
	assert.Equal(t, Column("amount"), maps["revolut"]["amount"])
}

func TestParseMaps_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"mapping instead of column", "sources:\n  a:\n    amount:\n      nested: x\n"},
		{"empty list", "sources:\n  a:\n    amount: []\n"},
		{"not yaml", "sources: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMaps([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadMapFile_Missing(t *testing.T) {
	_, err := LoadMapFile(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}
