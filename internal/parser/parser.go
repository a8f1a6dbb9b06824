// Package parser defines the contract every institution parser implements
// and the registry that maps parser names to constructors.
package parser

import (
	"fjacquet/taxstmt/internal/models"
)

// Parser extracts raw records from one kind of statement file.
type Parser interface {
	// Name is the registry name, also stamped as the record source.
	Name() string

	// ParseFile extracts raw records from a single file. A bad line or page
	// is skipped and reported in the result; an error is returned only when
	// the file as a whole cannot be read or is not in this parser's format.
	ParseFile(filePath string, cfg models.ParseConfig) (models.ParseResult, error)

	// NormalizeData converts raw records into a table with lower_snake_case
	// column names. An empty input yields an empty table.
	NormalizeData(records []models.RawRecord) models.Table
}

// Detector is the optional capability of recognizing a file by a cheap
// content sniff. CanParse returns false, never panics or errors, when the
// file cannot be read.
type Detector interface {
	CanParse(filePath string) bool
}

// SupportsDetection reports whether p implements Detector.
func SupportsDetection(p Parser) bool {
	_, ok := p.(Detector)
	return ok
}
