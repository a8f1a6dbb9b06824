package transform

import (
	"fjacquet/taxstmt/internal/amazonparser"
	"fjacquet/taxstmt/internal/camtparser"
	"fjacquet/taxstmt/internal/capitaloneparser"
	"fjacquet/taxstmt/internal/chaseparser"
	"fjacquet/taxstmt/internal/csvparser"
	"fjacquet/taxstmt/internal/models"
	"fjacquet/taxstmt/internal/ofxparser"
	"fjacquet/taxstmt/internal/revolutparser"
	"fjacquet/taxstmt/internal/taxorganizerparser"
	"fjacquet/taxstmt/internal/xlsparser"
)

// Builtin returns the maps for every bundled parser, keyed on the
// standardized names of the columns each parser emits.
func Builtin() Maps {
	return Maps{
		chaseparser.Name: {
			models.FieldTransactionDate: Column("date"),
		},
		capitaloneparser.Name: {
			models.FieldTransactionDate: Coalesce("transaction_date", "posting_date"),
		},
		amazonparser.Name: {
			models.FieldTransactionDate: Column("order_date"),
		},
		taxorganizerparser.Name: {
			models.FieldTransactionDate: Column("date"),
		},
		camtparser.Name: {
			models.FieldTransactionDate: Coalesce("booking_date", "value_date"),
			models.FieldDescription:     Coalesce("description", "counterparty", "reference"),
		},
		ofxparser.Name: {
			models.FieldTransactionDate: Column("date"),
			models.FieldDescription:     Coalesce("description", "memo"),
		},
		revolutparser.Name: {
			models.FieldTransactionDate: Coalesce("date", "started_date"),
		},
		xlsparser.Name: {
			models.FieldTransactionDate: Column("date"),
			models.FieldDescription: Coalesce("description", "details", "text", "payee",
				"memo", "narrative", "buchungstext"),
		},
		csvparser.Name: {
			models.FieldTransactionDate: Coalesce("transaction_date", "date", "posted_on",
				"posting_date", "booking_date", "trans_date"),
			models.FieldDescription: Coalesce("description", "payee", "payee_name",
				"details", "memo", "name"),
			models.FieldAmount:        Coalesce("amount", "value"),
			models.FieldAccountNumber: Coalesce("account_number", "account"),
		},
	}
}
