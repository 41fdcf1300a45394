// Package renderer turns ledger results into markdown.
package renderer

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/etnz/cryptofolio"
	"github.com/shopspring/decimal"
)

// Positions renders add and modify rows as a markdown table.
func Positions(rows ...cryptofolio.Row) string {
	if len(rows) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintln(&b, "| Ticker | Quantity | Buy Price |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s | %s |\n",
			r.Ticker,
			r.Quantity,
			Price(r.Ticker, r.BuyPrice),
		)
	}
	return b.String()
}

// Valuation renders the rows of a list command, followed by the total PNL.
func Valuation(res cryptofolio.ListResult) string {
	if len(res.Rows) == 0 {
		return "Your Folio is empty.\n"
	}
	var b strings.Builder
	fmt.Fprintln(&b, "| Ticker | Quantity | Buy Price | Current Price | PNL |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
	for _, r := range res.Rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			r.Ticker,
			r.Quantity,
			Price(r.Ticker, r.BuyPrice),
			Price(r.Ticker, r.CurrentPrice),
			PNL(r.Ticker, r.PNL),
		)
	}
	// Totals only make sense when every ticker is quoted in the same currency.
	if cur, ok := commonCurrency(res.Rows); ok {
		fmt.Fprintf(&b, "\n**Total PNL**: %s\n", PNL(cur, res.Total()))
	}
	return b.String()
}

// Currency returns the ISO currency a ticker is quoted in, like "EUR" for
// "BTCEUR", or nil if the ticker does not end with a known currency code.
func Currency(ticker string) *money.Currency {
	if len(ticker) <= 3 {
		return nil
	}
	return money.GetCurrency(strings.ToUpper(ticker[len(ticker)-3:]))
}

// Price formats a unit price in the currency of the ticker.
//
// Prices with more digits than the currency allows (common for small coins)
// are printed in full, followed by the currency code.
func Price(ticker string, d decimal.Decimal) string {
	cur := Currency(ticker)
	if cur == nil {
		return d.String()
	}
	if -d.Exponent() > int32(cur.Fraction) && !d.Equal(d.Round(int32(cur.Fraction))) {
		return d.String() + " " + cur.Code
	}
	return format(cur, d)
}

// PNL formats a profit or loss with its sign. Zero is represented as "-".
func PNL(ticker string, d decimal.Decimal) string {
	if d.IsZero() {
		return "-"
	}
	s := d.String()
	if cur := Currency(ticker); cur != nil {
		s = format(cur, d)
	}
	if d.IsPositive() {
		return "+" + s
	}
	return s
}

// maxMinor is the largest amount of minor units go-money can format.
var maxMinor = decimal.NewFromInt(math.MaxInt64)

// format rounds d to the currency fraction and prints it with the currency
// symbol. Amounts too large for go-money are printed in full with the code.
func format(cur *money.Currency, d decimal.Decimal) string {
	minor := d.Shift(int32(cur.Fraction)).Round(0)
	if minor.Abs().GreaterThan(maxMinor) {
		return d.String() + " " + cur.Code
	}
	return cur.Formatter().Format(minor.IntPart())
}

// commonCurrency returns the ticker of the first row if all the rows share the
// same quote currency, or if none of them has one.
func commonCurrency(rows []cryptofolio.PNLRow) (string, bool) {
	code := func(ticker string) string {
		if cur := Currency(ticker); cur != nil {
			return cur.Code
		}
		return ""
	}
	first := code(rows[0].Ticker)
	for _, r := range rows[1:] {
		if code(r.Ticker) != first {
			return "", false
		}
	}
	return rows[0].Ticker, true
}
