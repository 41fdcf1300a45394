package cryptofolio

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// maxExponent bounds the decimal exponent accepted from users, so that
// printing a number never builds a huge string.
const maxExponent = 64

// ParseDecimal parses a user supplied number like "0.56" or "48000".
func ParseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q", s)
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, fmt.Errorf("invalid number %q: exponent out of range", s)
	}
	return d, nil
}
