// Package xmlutils provides XML helpers built on xmlpath.
package xmlutils

// EntryPaths holds the XPath expressions for one CAMT.053 entry. Paths are
// relative to an Ntry node.
type EntryPaths struct {
	Amount          string
	Currency        string
	CreditDebitInd  string
	BookingDate     string
	ValueDate       string
	Status          string
	AccountSvcRef   string
	AddEntryInfo    string
	EndToEndID      string
	RemittanceInfo  string
	AddTxInfo       string
	DebtorName      string
	CreditorName    string
	BankTxFamily    string
	ProprietaryCode string
}

// StatementPaths locate the statements and their account-level data.
// Statement is absolute; the others are relative to a Stmt node.
type StatementPaths struct {
	Statement string
	Entry     string
	IBAN      string
	OtherID   string
	FromDate  string
	ToDate    string
	Created   string
}

// DefaultEntryPaths returns the entry paths of the CAMT.053 schema.
func DefaultEntryPaths() EntryPaths {
	return EntryPaths{
		Amount:          "Amt",
		Currency:        "Amt/@Ccy",
		CreditDebitInd:  "CdtDbtInd",
		BookingDate:     "BookgDt/Dt",
		ValueDate:       "ValDt/Dt",
		Status:          "Sts",
		AccountSvcRef:   "AcctSvcrRef",
		AddEntryInfo:    "AddtlNtryInf",
		EndToEndID:      "NtryDtls/TxDtls/Refs/EndToEndId",
		RemittanceInfo:  "NtryDtls/TxDtls/RmtInf/Ustrd",
		AddTxInfo:       "NtryDtls/TxDtls/AddtlTxInf",
		DebtorName:      "NtryDtls/TxDtls/RltdPties/Dbtr/Nm",
		CreditorName:    "NtryDtls/TxDtls/RltdPties/Cdtr/Nm",
		BankTxFamily:    "BkTxCd/Domn/Fmly/Cd",
		ProprietaryCode: "BkTxCd/Prtry/Cd",
	}
}

// DefaultStatementPaths returns the statement paths of the CAMT.053 schema.
func DefaultStatementPaths() StatementPaths {
	return StatementPaths{
		Statement: "//BkToCstmrStmt/Stmt",
		Entry:     "Ntry",
		IBAN:      "Acct/Id/IBAN",
		OtherID:   "Acct/Id/Othr/Id",
		FromDate:  "FrToDt/FrDtTm",
		ToDate:    "FrToDt/ToDtTm",
		Created:   "CreDtTm",
	}
}
