// Package csvparser reads any headered CSV file as-is. It never claims a
// file during detection; callers select it by name and describe its
// columns with a transformation map.
package csvparser

import (
	"strings"

	"fjacquet/taxstmt/internal/common"
	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/models"
	"fjacquet/taxstmt/internal/parser"
	"fjacquet/taxstmt/internal/parsererror"
	"fjacquet/taxstmt/internal/textutils"
)

// Name is the registry name of this parser.
const Name = "generic_csv"

// Parser implements parser.Parser.
type Parser struct {
	parser.BaseParser
	header []string
}

// New creates a generic CSV parser.
func New(deps parser.Dependencies) parser.Parser {
	return &Parser{BaseParser: parser.NewBaseParser(Name, deps.Logger)}
}

// ParseFile implements parser.Parser. Every non-blank row becomes a record
// keyed by the header labels; values stay strings.
func (p *Parser) ParseFile(filePath string, cfg models.ParseConfig) (models.ParseResult, error) {
	var result models.ParseResult
	logger := p.GetLogger().WithField(logging.FieldFile, filePath)

	header, rows, err := common.ReadCSVMaps(filePath)
	if err != nil {
		return result, &parsererror.InvalidFormatError{FilePath: filePath, ExpectedFormat: "headered CSV", Msg: err.Error()}
	}
	p.header = header

	for _, row := range rows {
		if blank(row) {
			continue
		}
		record := make(models.RawRecord, len(row)+1)
		for k, v := range row {
			record[k] = strings.TrimSpace(v)
		}
		if cfg.AccountNumber != "" {
			record["Account Number"] = cfg.AccountNumber
		}
		result.Add(record)
	}

	logger.Info("Parsed CSV file",
		logging.F(logging.FieldCount, len(result.Records)),
		logging.F("columns", len(header)))
	return result, nil
}

// NormalizeData keeps the columns in header order when a file was parsed.
func (p *Parser) NormalizeData(records []models.RawRecord) models.Table {
	table := p.BaseParser.NormalizeData(records)
	if len(p.header) == 0 || table.IsEmpty() {
		return table
	}
	table.Columns = orderColumns(table.Columns, textutils.StandardizeColumnNames(p.header))
	return table
}

// orderColumns puts the header columns first, in header order, followed
// by any others in their existing order.
func orderColumns(columns, header []string) []string {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	out := make([]string, 0, len(columns))
	used := make(map[string]bool, len(columns))
	for _, h := range header {
		if present[h] && !used[h] {
			out = append(out, h)
			used[h] = true
		}
	}
	for _, c := range columns {
		if !used[c] {
			out = append(out, c)
		}
	}
	return out
}

func blank(row map[string]string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
