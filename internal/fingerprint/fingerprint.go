// Package fingerprint computes the deterministic transaction hash used as
// the deduplication key across runs and re-exported files.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionHash returns the hex SHA-256 of the pipe-joined string forms of
// date, amount, description and account. Missing values hash as "".
//
// Two distinct transactions sharing all four values get the same hash;
// deciding whether that is a duplicate is left to downstream consumers.
func TransactionHash(date, amount, description, account any) string {
	parts := []string{
		Stringify(date),
		Stringify(amount),
		Stringify(description),
		Stringify(account),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// Stringify renders a value the way the hash expects. Floats use the
// shortest round-trip form and keep a ".0" suffix when integral, so an
// amount of 100 hashes as "100.0" regardless of how it was parsed.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return formatFloat(v)
	case float32:
		return formatFloat(float64(v))
	case decimal.Decimal:
		f, _ := v.Float64()
		return formatFloat(f)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}
