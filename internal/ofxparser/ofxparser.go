// Package ofxparser reads OFX and QFX downloads of bank and credit card
// accounts.
package ofxparser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aclindsa/ofxgo"

	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/models"
	"fjacquet/taxstmt/internal/parser"
	"fjacquet/taxstmt/internal/parsererror"
)

// Name is the registry name of this parser.
const Name = "ofx"

const sniffBytes = 4096

// Parser implements parser.Parser and parser.Detector.
type Parser struct {
	parser.BaseParser
}

// New creates an OFX parser.
func New(deps parser.Dependencies) parser.Parser {
	return &Parser{BaseParser: parser.NewBaseParser(Name, deps.Logger)}
}

// CanParse checks the extension and the OFX header markers of both the
// SGML and XML variants.
func (p *Parser) CanParse(filePath string) bool {
	if !parser.HasExtension(filePath, ".ofx", ".qfx") {
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
	upper := strings.ToUpper(string(head))
	return strings.Contains(upper, "OFXHEADER") ||
		strings.Contains(upper, "<?OFX") ||
		strings.Contains(upper, "<OFX>")
}

// statement is what bank and credit card responses have in common.
type statement struct {
	kind     string
	account  string
	currency string
	list     *ofxgo.TransactionList
}

// ParseFile implements parser.Parser.
func (p *Parser) ParseFile(filePath string, cfg models.ParseConfig) (models.ParseResult, error) {
	var result models.ParseResult
	logger := p.GetLogger().WithField(logging.FieldFile, filePath)
	logger.Info("Parsing OFX file")

	f, err := os.Open(filePath)
	if err != nil {
		return result, fmt.Errorf("error opening OFX file: %w", err)
	}
	defer f.Close()

	resp, err := ofxgo.ParseResponse(f)
	if err != nil {
		return result, &parsererror.InvalidFormatError{FilePath: filePath, ExpectedFormat: "OFX/QFX", Msg: err.Error()}
	}

	statements := collectStatements(resp)
	if len(statements) == 0 {
		p.HeaderMissing(&result, filePath, "BANKTRANLIST")
		return result, nil
	}

	line := 0
	for _, stmt := range statements {
		account := cfg.AccountNumber
		if account == "" {
			account = stmt.account
		}
		period := models.StatementPeriod{
			Start: stmt.list.DtStart.Time,
			End:   stmt.list.DtEnd.Time,
		}

		for _, txn := range stmt.list.Transactions {
			line++
			if txn.DtPosted.Time.IsZero() {
				p.Skip(&result, line, txn.FiTID.String(), "missing posted date")
				continue
			}
			amount, _ := txn.TrnAmt.Float64()
			record := models.RawRecord{
				"Date":           txn.DtPosted.Time.Format(models.ISODate),
				"Description":    description(txn),
				"Memo":           txn.Memo.String(),
				"Amount":         amount,
				"Type":           txn.TrnType.String(),
				"Transaction ID": txn.FiTID.String(),
				"Account Number": account,
				"Account Type":   stmt.kind,
				"Currency":       stmt.currency,
			}
			if txn.DtUser != nil && !txn.DtUser.Time.IsZero() {
				record["User Date"] = txn.DtUser.Time.Format(models.ISODate)
			}
			period.Stamp(record)
			result.Add(record)
		}
	}

	logger.Info("Parsed OFX file",
		logging.F("statements", len(statements)),
		logging.F(logging.FieldCount, len(result.Records)))
	return result, nil
}

func collectStatements(resp *ofxgo.Response) []statement {
	var out []statement
	for _, msg := range resp.Bank {
		if s, ok := msg.(*ofxgo.StatementResponse); ok && s.BankTranList != nil {
			out = append(out, statement{
				kind:     "bank",
				account:  s.BankAcctFrom.AcctID.String(),
				currency: s.CurDef.String(),
				list:     s.BankTranList,
			})
		}
	}
	for _, msg := range resp.CreditCard {
		if s, ok := msg.(*ofxgo.CCStatementResponse); ok && s.BankTranList != nil {
			out = append(out, statement{
				kind:     "credit_card",
				account:  s.CCAcctFrom.AcctID.String(),
				currency: s.CurDef.String(),
				list:     s.BankTranList,
			})
		}
	}
	return out
}

func description(txn ofxgo.Transaction) string {
	if name := strings.TrimSpace(txn.Name.String()); name != "" {
		return name
	}
	if txn.Payee != nil {
		if name := strings.TrimSpace(txn.Payee.Name.String()); name != "" {
			return name
		}
	}
	return strings.TrimSpace(txn.Memo.String())
}
