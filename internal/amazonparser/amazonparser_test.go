package amazonparser

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/models"
	"fjacquet/taxstmt/internal/parser"
	"fjacquet/taxstmt/internal/pdftext"
)

const summary = `Final Details for Order #112-1234567-1234567
Order Placed: January 15, 2023
Amazon.com order number: 112-1234567-1234567
Order Total: $37.97
Shipped on January 16, 2023
Items Ordered                                  Price
1 of: USB-C Cable, 6ft
Sold by: Acme Cables (seller profile)
                                               $9.99
2 of: Notebook Pack
Sold by: Amazon.com Services LLC
                                               $13.99
1 of: Promotional Sticker
Condition: New
                                               $0.00
Payment information
Item(s) Subtotal: $37.97
Gift Card Amount: -$5.00
Grand Total: $32.97
Order Placed: March 3, 2023
Amazon.com order number: 113-7654321-7654321
Items Ordered                                  Price
3 of: AA Batteries
                                               $4.50
Payment information
Grand Total: $13.50
Order Placed: sometime
Amazon.com order number: 114-0000000-0000000
`

func newTestParser(pages []string) *Parser {
	deps := parser.Dependencies{
		Logger:    logging.NewMockLogger(),
		Extractor: pdftext.NewMockExtractor(pages, nil),
	}
	return New(deps).(*Parser)
}

func TestSplitOrders(t *testing.T) {
	orders := SplitOrders(summary)
	require.Len(t, orders, 3)

	first := orders[0]
	assert.Equal(t, "112-1234567-1234567", first.Number)
	assert.Equal(t, "2023-01-15", first.Date)
	assert.True(t, first.GiftCard.Equal(decimal.RequireFromString("5.00")))
	require.Len(t, first.Items, 3)
	assert.Equal(t, "USB-C Cable, 6ft", first.Items[0].Description)
	assert.Equal(t, int64(2), first.Items[1].Quantity)
	assert.Equal(t, "27.98", first.Items[1].Amount().StringFixed(2))
	assert.Equal(t, "Promotional Sticker", first.Items[2].Description)
	assert.Equal(t, 2, first.Line)

	assert.Equal(t, "113-7654321-7654321", orders[1].Number)
	assert.True(t, orders[1].GiftCard.IsZero())
	assert.Empty(t, orders[2].Date)
}

func TestParseFile(t *testing.T) {
	p := newTestParser([]string{summary})

	result, err := p.ParseFile("orders.pdf", models.ParseConfig{})
	require.NoError(t, err)
	require.Len(t, result.Records, 4)

	tests := []struct {
		description string
		amount      float64
		date        string
	}{
		{"USB-C Cable, 6ft", 9.99, "2023-01-15"},
		{"Notebook Pack", 27.98, "2023-01-15"},
		{"Promotional Sticker", 5.00, "2023-01-15"},
		{"AA Batteries", 13.50, "2023-03-03"},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.description, result.Records[i]["Description"])
		assert.InDelta(t, tt.amount, result.Records[i]["Amount"], 0.001)
		assert.Equal(t, tt.date, result.Records[i]["Order Date"])
	}

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, ReasonNoOrderDate, result.Skipped[0].Reason)
}

func TestParseFile_ZeroAmountWithoutGiftCard(t *testing.T) {
	text := "Order Placed: May 1, 2023\norder number: 111-1111111-1111111\n1 of: Free Sample\n$0.00\n"
	p := newTestParser([]string{text})

	result, err := p.ParseFile("orders.pdf", models.ParseConfig{})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.InDelta(t, 0.0, result.Records[0]["Amount"], 0.0001)
}

func TestParseFile_NoOrders(t *testing.T) {
	p := newTestParser([]string{"Your Amazon.com account\nNothing ordered"})

	result, err := p.ParseFile("orders.pdf", models.ParseConfig{})
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Len(t, result.Skipped, 1)
}

func TestParseFile_OrderWithoutItems(t *testing.T) {
	p := newTestParser([]string{"Order Placed: May 1, 2023\nGrand Total: $0.00\n"})

	result, err := p.ParseFile("orders.pdf", models.ParseConfig{})
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, ReasonNoItems, result.Skipped[0].Reason)
}

func TestCanParse(t *testing.T) {
	assert.True(t, newTestParser([]string{summary}).CanParse("orders.pdf"))
	assert.False(t, newTestParser([]string{"Capital One"}).CanParse("orders.pdf"))
	assert.False(t, newTestParser([]string{summary}).CanParse("orders.txt"))
}
