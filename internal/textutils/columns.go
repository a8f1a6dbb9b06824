// Package textutils holds the column standardizer and small text helpers
// shared by the statement parsers.
package textutils

import (
	"strings"
	"unicode"
)

// StandardizeColumnName converts a raw column label to lower_snake_case.
// CamelCase boundaries become underscores, and any run of characters
// other than letters and digits collapses to a single underscore:
//
//	"Date of Transaction" -> "date_of_transaction"
//	"TransactionDate"     -> "transaction_date"
//	"Amount ($)"          -> "amount"
func StandardizeColumnName(name string) string {
	runes := []rune(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(runes) + 4)

	pendingSep := false
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			pendingSep = b.Len() > 0
			continue
		}
		if unicode.IsUpper(r) && i > 0 && b.Len() > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				pendingSep = true
			}
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// StandardizeColumnNames applies StandardizeColumnName to every name.
func StandardizeColumnNames(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = StandardizeColumnName(name)
	}
	return out
}
