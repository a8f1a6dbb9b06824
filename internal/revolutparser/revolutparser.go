// Package revolutparser reads Revolut account statement CSV exports.
package revolutparser

import (
	"strings"

	"fjacquet/taxstmt/internal/common"
	"fjacquet/taxstmt/internal/currencyutils"
	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/models"
	"fjacquet/taxstmt/internal/parser"
	"fjacquet/taxstmt/internal/parsererror"
)

// Name is the registry name of this parser.
const Name = "revolut"

// StateCompleted is the only state whose rows are extracted.
const StateCompleted = "COMPLETED"

// requiredColumns must all appear in the header of a Revolut export.
var requiredColumns = []string{
	"Type", "Product", "Started Date", "Description",
	"Amount", "Currency", "State",
}

// RevolutCSVRow represents a single row in a Revolut CSV file
// It uses struct tags for gocsv unmarshaling
type RevolutCSVRow struct {
	Type          string `csv:"Type"`
	Product       string `csv:"Product"`
	StartedDate   string `csv:"Started Date"`
	CompletedDate string `csv:"Completed Date"`
	Description   string `csv:"Description"`
	Amount        string `csv:"Amount"`
	Fee           string `csv:"Fee"`
	Currency      string `csv:"Currency"`
	State         string `csv:"State"`
	Balance       string `csv:"Balance"`
}

// Parser implements parser.Parser and parser.Detector.
type Parser struct {
	parser.BaseParser
}

// New creates a Revolut CSV parser.
func New(deps parser.Dependencies) parser.Parser {
	return &Parser{BaseParser: parser.NewBaseParser(Name, deps.Logger)}
}

// CanParse checks that the header carries every Revolut column.
func (p *Parser) CanParse(filePath string) bool {
	if !parser.HasExtension(filePath, ".csv") {
		return false
	}
	header, err := common.ReadHeader(filePath, common.DefaultDelimiter)
	if err != nil {
		return false
	}
	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))] = true
	}
	for _, col := range requiredColumns {
		if !present[col] {
			return false
		}
	}
	return true
}

// ParseFile implements parser.Parser. Only completed rows are extracted;
// amounts keep their sign.
func (p *Parser) ParseFile(filePath string, cfg models.ParseConfig) (models.ParseResult, error) {
	var result models.ParseResult
	logger := p.GetLogger().WithField(logging.FieldFile, filePath)
	logger.Info("Parsing Revolut CSV file")

	rows, err := common.ReadCSVFile[RevolutCSVRow](filePath, common.DefaultDelimiter, logger)
	if err != nil {
		return result, &parsererror.InvalidFormatError{FilePath: filePath, ExpectedFormat: "Revolut CSV", Msg: err.Error()}
	}

	for i, row := range rows {
		line := i + 2 // header is line 1
		if row.CompletedDate == "" && row.Description == "" {
			continue
		}
		if !strings.EqualFold(row.State, StateCompleted) {
			p.Skip(&result, line, row.Description, "state "+row.State)
			continue
		}
		record, err := toRecord(row)
		if err != nil {
			p.Skip(&result, line, row.Description, err.Error())
			continue
		}
		if cfg.AccountNumber != "" {
			record["Account Number"] = cfg.AccountNumber
		}
		result.Add(record)
	}

	logger.Info("Parsed Revolut CSV file",
		logging.F(logging.FieldCount, len(result.Records)),
		logging.F("skipped", len(result.Skipped)))
	return result, nil
}

func toRecord(row RevolutCSVRow) (models.RawRecord, error) {
	amount, err := currencyutils.ParseAmount(row.Amount)
	if err != nil {
		return nil, err
	}
	record := models.RawRecord{
		"Date":         datePart(row.CompletedDate),
		"Started Date": datePart(row.StartedDate),
		"Description":  row.Description,
		"Amount":       amount.InexactFloat64(),
		"Currency":     row.Currency,
		"Type":         row.Type,
		"Product":      row.Product,
		"State":        row.State,
	}
	if fee, err := currencyutils.ParseAmount(row.Fee); err == nil && !fee.IsZero() {
		record["Fee"] = fee.InexactFloat64()
	}
	if balance, err := currencyutils.ParseAmount(row.Balance); err == nil {
		record["Balance"] = balance.InexactFloat64()
	}
	return record, nil
}

// datePart drops the time from "2025-01-02 08:07:09".
func datePart(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i > 0 {
		return s[:i]
	}
	return s
}
