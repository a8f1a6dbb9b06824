package models

import "sort"

// RawRecord is one row as extracted by a single parser. Its keys are
// source-specific until the record has been normalized.
type RawRecord map[string]any

// Row is a record inside a Table, keyed by standardized column names.
type Row map[string]any

// Table is the tabular structure produced by Parser.NormalizeData.
type Table struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// IsEmpty reports whether the table holds no rows.
func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// ParseConfig carries optional hints the caller can pass to a parser when
// filename or content inference is not enough.
type ParseConfig struct {
	// StatementDate is a known statement date, any layout dateutils accepts.
	StatementDate string
	// AccountNumber overrides the account found in the document.
	AccountNumber string
	// Extra holds parser-specific hints.
	Extra map[string]string
}

// Hint returns an Extra value, or "" when absent.
func (c ParseConfig) Hint(key string) string {
	if c.Extra == nil {
		return ""
	}
	return c.Extra[key]
}

// SkipReason records a line or record that was dropped during extraction.
type SkipReason struct {
	Line   int
	Text   string
	Reason string
}

// ParseResult aggregates the output of ParseFile: the extracted records and
// every candidate that was discarded along the way.
type ParseResult struct {
	Records []RawRecord
	Skipped []SkipReason
}

// Add appends a record.
func (r *ParseResult) Add(record RawRecord) {
	r.Records = append(r.Records, record)
}

// Skip appends a skip reason.
func (r *ParseResult) Skip(line int, text, reason string) {
	r.Skipped = append(r.Skipped, SkipReason{Line: line, Text: text, Reason: reason})
}

// Merge appends everything from other.
func (r *ParseResult) Merge(other ParseResult) {
	r.Records = append(r.Records, other.Records...)
	r.Skipped = append(r.Skipped, other.Skipped...)
}

// Keys returns the record keys in sorted order.
func (r RawRecord) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
