// Package camtparser reads ISO 20022 CAMT.053 bank-to-customer statements.
package camtparser

import (
	"bufio"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/xmlpath.v2"

	"fjacquet/taxstmt/internal/currencyutils"
	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/models"
	"fjacquet/taxstmt/internal/parser"
	"fjacquet/taxstmt/internal/parsererror"
	"fjacquet/taxstmt/internal/xmlutils"
)

// Name is the registry name of this parser.
const Name = "camt053"

// sniffBytes bounds how much of a file CanParse reads.
const sniffBytes = 64 * 1024

// Parser implements parser.Parser and parser.Detector.
type Parser struct {
	parser.BaseParser
	stmt  xmlutils.StatementPaths
	entry xmlutils.EntryPaths
}

// New creates a CAMT.053 parser.
func New(deps parser.Dependencies) parser.Parser {
	return &Parser{
		BaseParser: parser.NewBaseParser(Name, deps.Logger),
		stmt:       xmlutils.DefaultStatementPaths(),
		entry:      xmlutils.DefaultEntryPaths(),
	}
}

// CanParse looks for the CAMT.053 statement element near the top of an XML
// file.
func (p *Parser) CanParse(filePath string) bool {
	if !parser.HasExtension(filePath, ".xml") {
		return false
	}
	f, err := os.Open(filePath)
	if err != nil {
		return false
	}
	defer f.Close()

	head, err := io.ReadAll(io.LimitReader(bufio.NewReader(f), sniffBytes))
	if err != nil {
		return false
	}
	s := string(head)
	return strings.Contains(s, "BkToCstmrStmt") || strings.Contains(s, "camt.053")
}

// ParseFile implements parser.Parser. Debits are negative.
func (p *Parser) ParseFile(filePath string, cfg models.ParseConfig) (models.ParseResult, error) {
	var result models.ParseResult
	logger := p.GetLogger().WithField(logging.FieldFile, filePath)
	logger.Info("Parsing CAMT.053 file")

	root, err := xmlutils.LoadXMLFile(filePath)
	if err != nil {
		return result, &parsererror.InvalidFormatError{
			FilePath: filePath, ExpectedFormat: "CAMT.053 XML", Msg: err.Error(),
		}
	}

	statements, err := xmlutils.Nodes(root, p.stmt.Statement)
	if err != nil {
		return result, err
	}
	if len(statements) == 0 {
		p.HeaderMissing(&result, filePath, "BkToCstmrStmt/Stmt")
		return result, nil
	}

	line := 0
	for _, stmt := range statements {
		account := cfg.AccountNumber
		if account == "" {
			account = xmlutils.Value(stmt, p.stmt.IBAN)
		}
		if account == "" {
			account = xmlutils.Value(stmt, p.stmt.OtherID)
		}
		period := p.statementPeriod(stmt)

		entries, err := xmlutils.Nodes(stmt, p.stmt.Entry)
		if err != nil {
			return result, err
		}
		for _, entry := range entries {
			line++
			record, reason := p.entryRecord(entry)
			if reason != "" {
				p.Skip(&result, line, xmlutils.Value(entry, p.entry.AccountSvcRef), reason)
				continue
			}
			record["Account Number"] = account
			period.Stamp(record)
			result.Add(record)
		}
	}

	logger.Info("Parsed CAMT.053 file",
		logging.F("statements", len(statements)),
		logging.F(logging.FieldCount, len(result.Records)))
	return result, nil
}

func (p *Parser) entryRecord(entry *xmlpath.Node) (models.RawRecord, string) {
	rawAmount := xmlutils.Value(entry, p.entry.Amount)
	amount, err := currencyutils.ParseAmount(rawAmount)
	if err != nil {
		return nil, "invalid amount: " + rawAmount
	}
	indicator := xmlutils.Value(entry, p.entry.CreditDebitInd)
	if indicator == "DBIT" && amount.IsPositive() {
		amount = amount.Neg()
	}

	date := isoDate(xmlutils.Value(entry, p.entry.BookingDate))
	if date == "" {
		date = isoDate(xmlutils.Value(entry, p.entry.ValueDate))
	}
	if date == "" {
		return nil, "missing booking date"
	}

	counterparty := xmlutils.Value(entry, p.entry.CreditorName)
	if indicator == "CRDT" {
		counterparty = xmlutils.Value(entry, p.entry.DebtorName)
	}

	description := firstNonEmpty(
		xmlutils.Value(entry, p.entry.RemittanceInfo),
		xmlutils.Value(entry, p.entry.AddTxInfo),
		xmlutils.Value(entry, p.entry.AddEntryInfo),
		counterparty,
	)

	record := models.RawRecord{
		"Booking Date": date,
		"Value Date":   isoDate(xmlutils.Value(entry, p.entry.ValueDate)),
		"Description":  description,
		"Amount":       amount.InexactFloat64(),
		"Currency":     xmlutils.Value(entry, p.entry.Currency),
		"Credit Debit": indicator,
		"Counterparty": counterparty,
		"Reference":    firstNonEmpty(xmlutils.Value(entry, p.entry.EndToEndID), xmlutils.Value(entry, p.entry.AccountSvcRef)),
		"Status":       xmlutils.Value(entry, p.entry.Status),
		"Bank Tx Code": firstNonEmpty(xmlutils.Value(entry, p.entry.BankTxFamily), xmlutils.Value(entry, p.entry.ProprietaryCode)),
	}
	return record, ""
}

func (p *Parser) statementPeriod(stmt *xmlpath.Node) models.StatementPeriod {
	var period models.StatementPeriod
	if end, ok := parseISO(xmlutils.Value(stmt, p.stmt.ToDate)); ok {
		period.End = end
	} else if created, ok := parseISO(xmlutils.Value(stmt, p.stmt.Created)); ok {
		period.End = created
	}
	if start, ok := parseISO(xmlutils.Value(stmt, p.stmt.FromDate)); ok && !period.End.IsZero() {
		period.Start = start
	}
	return period
}

// parseISO reads the date part of an ISO date or date-time.
func parseISO(s string) (time.Time, bool) {
	if len(s) < 10 {
		return time.Time{}, false
	}
	t, err := time.Parse(models.ISODate, s[:10])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func isoDate(s string) string {
	if t, ok := parseISO(s); ok {
		return t.Format(models.ISODate)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
