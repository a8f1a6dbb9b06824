// Package currencyutils parses the amount formats found on statements into
// decimal values.
package currencyutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// currencyNumber matches a statement amount: optional sign and dollar
// sign, optional thousands separators, exactly two decimals and an
// optional trailing minus or CR marker.
var currencyNumber = regexp.MustCompile(`^[-+]?\$?(\d{1,3}(,\d{3})+|\d+)\.\d{2}(-|CR)?$`)

var currencySymbols = regexp.MustCompile(`[€$£¥₹₽₩]|\b(CHF|USD|EUR|GBP)\b|\s`)

// IsCurrencyNumber reports whether token is a two-decimal currency amount.
func IsCurrencyNumber(token string) bool {
	return currencyNumber.MatchString(strings.TrimSpace(token))
}

// ParseAmount parses a string representation of an amount into a decimal value.
// It handles formats like "1,234.56", "1.234,56", "$-4.50", "(12.00)",
// "12.00-" and "12.00CR"; the last three are negative.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	s := strings.TrimSpace(amountStr)
	if s == "" {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': empty", amountStr)
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	upper := strings.ToUpper(s)
	switch {
	case strings.HasSuffix(upper, "CR"):
		negative = true
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "-"):
		negative = true
		s = s[:len(s)-1]
	}

	standardized := StandardizeAmount(s)
	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	if negative && amount.IsPositive() {
		amount = amount.Neg()
	}
	return amount, nil
}

// StandardizeAmount converts various currency string formats to a standard format that can be parsed by decimal.NewFromString
// Handles patterns like "CHF 1'234.56", "€1.234,56", "$1,234.56", "1 234,56", etc.
func StandardizeAmount(amountStr string) string {
	amountStr = currencySymbols.ReplaceAllString(amountStr, "")
	amountStr = strings.ReplaceAll(amountStr, "'", "")

	if strings.Contains(amountStr, ",") && strings.Contains(amountStr, ".") {
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			// European format (1.234,56)
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	} else if strings.Contains(amountStr, ",") {
		parts := strings.Split(amountStr, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			// Comma used as decimal separator (1234,56)
			amountStr = strings.Replace(amountStr, ",", ".", 1)
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	}

	// "$-4.50" leaves the sign after the symbol was stripped; "+4.50" is fine.
	return strings.TrimPrefix(amountStr, "+")
}

// ToFloat coerces a raw record value into a float64 amount. Strings go
// through ParseAmount; decimals and numeric kinds convert directly.
func ToFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case decimal.Decimal:
		f, _ := v.Float64()
		return f, true
	case string:
		d, err := ParseAmount(v)
		if err != nil {
			return 0, false
		}
		f, _ := d.Float64()
		return f, true
	case fmt.Stringer:
		return ToFloat(v.String())
	default:
		f, err := strconv.ParseFloat(fmt.Sprint(v), 64)
		return f, err == nil
	}
}
