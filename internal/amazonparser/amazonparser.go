// Package amazonparser extracts purchased items from Amazon order summary
// PDFs. One file may hold several orders and each order expands into one
// record per line item.
package amazonparser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"fjacquet/taxstmt/internal/currencyutils"
	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/models"
	"fjacquet/taxstmt/internal/parser"
	"fjacquet/taxstmt/internal/parsererror"
	"fjacquet/taxstmt/internal/pdftext"
	"fjacquet/taxstmt/internal/statementdate"
	"fjacquet/taxstmt/internal/textutils"
)

// Name is the registry name of this parser.
const Name = "amazon_orders"

// Skip reasons.
const (
	ReasonNoOrderDate = "missing order date"
	ReasonNoItems     = "no items found in order"
)

var (
	orderPlacedRe = regexp.MustCompile(`(?i)order\s+placed:`)
	orderDateRe   = regexp.MustCompile(`^\s*([A-Za-z]+\.?\s+\d{1,2},?\s+\d{4}|\d{1,2}/\d{1,2}/\d{2,4})`)
	orderNumberRe = regexp.MustCompile(`(?i)order\s+(?:number:?|#)\s*(\d{3}-\d{7}-\d{7})`)
	giftCardRe    = regexp.MustCompile(`(?i)gift\s+card\s+amount:\s*-?\$([\d,]+\.\d{2})`)
	itemRe        = regexp.MustCompile(`(?s)(\d+)\s+of:\s*(.+?)\s+\$([\d,]+\.\d{2})`)
	paymentRe     = regexp.MustCompile(`(?i)payment\s+information`)
	soldByRe      = regexp.MustCompile(`(?is)\s*(?:sold\s+by|supplied\s+by|condition):.*$`)
)

// Item is one line of an order.
type Item struct {
	Quantity    int64
	Description string
	UnitPrice   decimal.Decimal
}

// Amount is quantity times unit price.
func (i Item) Amount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// Order is one "Order Placed:" section of a summary.
type Order struct {
	Number   string
	Date     string
	GiftCard decimal.Decimal
	Items    []Item
	// Line is where the section starts in the joined page text.
	Line int
}

// Parser implements parser.Parser and parser.Detector.
type Parser struct {
	parser.BaseParser
	extractor pdftext.Extractor
}

// New creates an Amazon order summary parser.
func New(deps parser.Dependencies) parser.Parser {
	return &Parser{
		BaseParser: parser.NewBaseParser(Name, deps.Logger),
		extractor:  deps.PDFExtractor(),
	}
}

// CanParse sniffs the first page for the order summary markers.
func (p *Parser) CanParse(filePath string) bool {
	return parser.SniffPDF(p.extractor, filePath, "amazon.com", "Order Placed")
}

// ParseFile implements parser.Parser.
//
// An item whose amount is exactly zero takes the order's gift card amount
// when one is present. This also rewrites items that were genuinely free.
func (p *Parser) ParseFile(filePath string, cfg models.ParseConfig) (models.ParseResult, error) {
	var result models.ParseResult
	logger := p.GetLogger().WithField(logging.FieldFile, filePath)
	logger.Info("Parsing Amazon order summary")

	pages, err := p.extractor.ExtractPages(filePath)
	if err != nil {
		return result, &parsererror.DataExtractionError{FilePath: filePath, Reason: "extracting pdf text", Err: err}
	}

	orders := SplitOrders(pdftext.Join(pages))
	if len(orders) == 0 {
		p.HeaderMissing(&result, filePath, "Order Placed:")
		return result, nil
	}

	for _, order := range orders {
		if order.Date == "" {
			p.Skip(&result, order.Line, order.Number, ReasonNoOrderDate)
			continue
		}
		if len(order.Items) == 0 {
			p.Skip(&result, order.Line, order.Number, ReasonNoItems)
			continue
		}
		for _, item := range order.Items {
			amount := item.Amount()
			if amount.IsZero() && !order.GiftCard.IsZero() {
				logger.Debug("Substituting gift card amount for zero-priced item",
					logging.F("order", order.Number),
					logging.F("item", item.Description))
				amount = order.GiftCard
			}
			record := models.RawRecord{
				"Order Date":   order.Date,
				"Order Number": order.Number,
				"Description":  item.Description,
				"Quantity":     item.Quantity,
				"Unit Price":   item.UnitPrice.InexactFloat64(),
				"Amount":       amount.InexactFloat64(),
			}
			if cfg.AccountNumber != "" {
				record["Account Number"] = cfg.AccountNumber
			}
			if !order.GiftCard.IsZero() {
				record["Gift Card Amount"] = order.GiftCard.InexactFloat64()
			}
			result.Add(record)
		}
	}

	logger.Info("Parsed Amazon order summary",
		logging.F("orders", len(orders)),
		logging.F(logging.FieldCount, len(result.Records)))
	return result, nil
}

// SplitOrders cuts text on "Order Placed:" markers and parses each section.
// Order dates are returned as ISO dates when they can be read.
func SplitOrders(text string) []Order {
	locs := orderPlacedRe.FindAllStringIndex(text, -1)
	orders := make([]Order, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		order := parseOrder(text[loc[1]:end])
		order.Line = strings.Count(text[:loc[0]], "\n") + 1
		if order.Number == "" && i == 0 {
			// The number is often printed just above the first marker.
			order.Number = lastOrderNumber(text[:loc[0]])
		}
		orders = append(orders, order)
	}
	return orders
}

func parseOrder(section string) Order {
	var order Order

	if m := orderDateRe.FindStringSubmatch(section); m != nil {
		raw := textutils.CollapseSpaces(m[1])
		if t, ok := statementdate.ParseDate(raw); ok {
			order.Date = t.Format(models.ISODate)
		} else {
			order.Date = raw
		}
	}
	if m := orderNumberRe.FindStringSubmatch(section); m != nil {
		order.Number = m[1]
	}
	if m := giftCardRe.FindStringSubmatch(section); m != nil {
		if amt, err := currencyutils.ParseAmount(m[1]); err == nil {
			order.GiftCard = amt
		}
	}
	order.Items = parseItems(itemsBlock(section))
	return order
}

// itemsBlock drops the payment summary so its totals are never read as
// item prices.
func itemsBlock(section string) string {
	if loc := paymentRe.FindStringIndex(section); loc != nil {
		return section[:loc[0]]
	}
	return section
}

func parseItems(block string) []Item {
	var items []Item
	for _, m := range itemRe.FindAllStringSubmatch(block, -1) {
		qty, err := decimal.NewFromString(m[1])
		if err != nil || !qty.IsPositive() {
			continue
		}
		price, err := currencyutils.ParseAmount(m[3])
		if err != nil {
			continue
		}
		desc := textutils.CollapseSpaces(soldByRe.ReplaceAllString(m[2], ""))
		if desc == "" {
			continue
		}
		items = append(items, Item{Quantity: qty.IntPart(), Description: desc, UnitPrice: price})
	}
	return items
}

func lastOrderNumber(text string) string {
	all := orderNumberRe.FindAllStringSubmatch(text, -1)
	if len(all) == 0 {
		return ""
	}
	return all[len(all)-1][1]
}
