// Package xlsparser reads legacy Excel (.xls) bank exports. The header row
// is located by its column labels, so title rows and account summaries
// above the table are ignored.
package xlsparser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"

	"fjacquet/taxstmt/internal/currencyutils"
	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/models"
	"fjacquet/taxstmt/internal/parser"
	"fjacquet/taxstmt/internal/parsererror"
)

// Name is the registry name of this parser.
const Name = "bank_xls"

// maxHeaderScan bounds how far down the sheet the header is searched.
const maxHeaderScan = 30

// Column roles recognized in the header row.
const (
	roleDate        = "date"
	roleDescription = "description"
	roleAmount      = "amount"
	roleDebit       = "debit"
	roleCredit      = "credit"
	roleBalance     = "balance"
)

var roleLabels = map[string][]string{
	roleDate:        {"date", "booking date", "transaction date", "posting date", "value date", "datum"},
	roleDescription: {"description", "details", "text", "payee", "memo", "narrative", "buchungstext"},
	roleAmount:      {"amount", "betrag"},
	roleDebit:       {"debit", "withdrawal", "withdrawals", "belastung"},
	roleCredit:      {"credit", "deposit", "deposits", "gutschrift"},
	roleBalance:     {"balance", "saldo"},
}

// excelEpoch is day zero of the 1900 date system as Excel counts it.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Header is the located header row.
type Header struct {
	Row    int
	Labels []string
	Roles  map[string]int
}

// Parser implements parser.Parser and parser.Detector.
type Parser struct {
	parser.BaseParser
}

// New creates an XLS parser.
func New(deps parser.Dependencies) parser.Parser {
	return &Parser{BaseParser: parser.NewBaseParser(Name, deps.Logger)}
}

// CanParse accepts .xls files whose first sheet has a recognizable header.
func (p *Parser) CanParse(filePath string) bool {
	if !parser.HasExtension(filePath, ".xls") {
		return false
	}
	rows, err := ReadSheet(filePath)
	if err != nil {
		return false
	}
	_, ok := FindHeader(rows)
	return ok
}

// ParseFile implements parser.Parser.
func (p *Parser) ParseFile(filePath string, cfg models.ParseConfig) (models.ParseResult, error) {
	var result models.ParseResult
	logger := p.GetLogger().WithField(logging.FieldFile, filePath)

	rows, err := ReadSheet(filePath)
	if err != nil {
		return result, &parsererror.InvalidFormatError{FilePath: filePath, ExpectedFormat: "XLS workbook", Msg: err.Error()}
	}

	header, ok := FindHeader(rows)
	if !ok {
		p.HeaderMissing(&result, filePath, "date/description/amount columns")
		return result, nil
	}
	p.extract(&result, rows, header, cfg)

	logger.Info("Parsed XLS file",
		logging.F(logging.FieldCount, len(result.Records)),
		logging.F("header_row", header.Row+1))
	return result, nil
}

func (p *Parser) extract(result *models.ParseResult, rows [][]string, header Header, cfg models.ParseConfig) {
	for i := header.Row + 1; i < len(rows); i++ {
		row := rows[i]
		line := i + 1
		date := cell(row, header.Roles[roleDate])
		if date == "" {
			if strings.TrimSpace(strings.Join(row, "")) != "" {
				p.Skip(result, line, strings.Join(row, " | "), "no date")
			}
			continue
		}

		record := make(models.RawRecord, len(header.Labels)+2)
		for j, label := range header.Labels {
			if label == "" {
				continue
			}
			if v := cell(row, j); v != "" {
				record[label] = v
			}
		}
		record["Date"] = excelDate(date)

		amount, err := amountOf(row, header)
		if err != nil {
			p.Skip(result, line, strings.Join(row, " | "), err.Error())
			continue
		}
		record["Amount"] = amount
		if idx, ok := header.Roles[roleBalance]; ok {
			if b, err := currencyutils.ParseAmount(cell(row, idx)); err == nil {
				record["Balance"] = b.InexactFloat64()
			}
		}
		if cfg.AccountNumber != "" {
			record["Account Number"] = cfg.AccountNumber
		}
		result.Add(record)
	}
}

// amountOf reads the signed amount: the amount column when present,
// otherwise credit minus debit.
func amountOf(row []string, header Header) (float64, error) {
	if idx, ok := header.Roles[roleAmount]; ok {
		d, err := currencyutils.ParseAmount(cell(row, idx))
		if err != nil {
			return 0, err
		}
		return d.InexactFloat64(), nil
	}

	debitRaw := cell(row, indexOr(header.Roles, roleDebit))
	creditRaw := cell(row, indexOr(header.Roles, roleCredit))
	if debitRaw == "" && creditRaw == "" {
		return 0, fmt.Errorf("no debit or credit amount")
	}
	var total float64
	if creditRaw != "" {
		c, err := currencyutils.ParseAmount(creditRaw)
		if err != nil {
			return 0, err
		}
		total += c.Abs().InexactFloat64()
	}
	if debitRaw != "" {
		d, err := currencyutils.ParseAmount(debitRaw)
		if err != nil {
			return 0, err
		}
		total -= d.Abs().InexactFloat64()
	}
	return total, nil
}

// ReadSheet loads the first sheet as a grid of trimmed strings. The xls
// reader panics on some malformed files; that is reported as an error.
func ReadSheet(filePath string) (rows [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("malformed xls file: %v", r)
		}
	}()

	wb, err := xls.Open(filePath, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("error opening xls file: %w", err)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		r := sheet.Row(i)
		if r == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, r.LastCol()+1)
		for j := 0; j <= r.LastCol(); j++ {
			cells = append(cells, strings.TrimSpace(r.Col(j)))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// FindHeader returns the first row, within the scan window, that labels a
// date column, a description column and at least one amount column.
func FindHeader(rows [][]string) (Header, bool) {
	for i := 0; i < len(rows) && i < maxHeaderScan; i++ {
		roles := classify(rows[i])
		_, hasDate := roles[roleDate]
		_, hasDesc := roles[roleDescription]
		_, hasAmount := roles[roleAmount]
		_, hasDebit := roles[roleDebit]
		_, hasCredit := roles[roleCredit]
		if hasDate && hasDesc && (hasAmount || hasDebit || hasCredit) {
			return Header{Row: i, Labels: rows[i], Roles: roles}, true
		}
	}
	return Header{}, false
}

// classify maps each role to the first column whose label matches it.
func classify(labels []string) map[string]int {
	roles := make(map[string]int)
	for j, label := range labels {
		l := strings.ToLower(strings.TrimSpace(label))
		if l == "" {
			continue
		}
		for role, names := range roleLabels {
			if _, taken := roles[role]; taken {
				continue
			}
			for _, name := range names {
				if l == name {
					roles[role] = j
					break
				}
			}
		}
	}
	return roles
}

// excelDate converts a serial day number to an ISO date; anything else is
// returned unchanged for the date normalizer.
func excelDate(v string) string {
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil || serial < 1 || serial > 2958465 {
		return v
	}
	return excelEpoch.AddDate(0, 0, int(serial)).Format(models.ISODate)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func indexOr(roles map[string]int, role string) int {
	if idx, ok := roles[role]; ok {
		return idx
	}
	return -1
}
