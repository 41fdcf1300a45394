package cryptofolio

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Ledger is the ordered list of positions of one store file.
//
// Tickers are not unique: Add never checks for an existing ticker, Del removes
// every match and Modify only changes the first one.
type Ledger struct {
	positions []Position
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{positions: make([]Position, 0)}
}

// Append adds positions at the end of the ledger, as is.
func (l *Ledger) Append(p ...Position) {
	l.positions = append(l.positions, p...)
}

// Len returns the number of positions.
func (l *Ledger) Len() int { return len(l.positions) }

// Positions iterates over the positions in ledger order.
func (l *Ledger) Positions() iter.Seq2[int, Position] {
	return func(yield func(int, Position) bool) {
		for i, p := range l.positions {
			if !yield(i, p) {
				return
			}
		}
	}
}

// Position returns the i-th position.
func (l *Ledger) Position(i int) Position { return l.positions[i] }

// Tickers returns the distinct tickers in order of first appearance.
func (l *Ledger) Tickers() []string {
	var tickers []string
	for _, p := range l.positions {
		if !slices.Contains(tickers, p.Ticker) {
			tickers = append(tickers, p.Ticker)
		}
	}
	return tickers
}

// Equal reports whether both ledgers hold equal positions in the same order.
func (l *Ledger) Equal(m *Ledger) bool {
	return slices.EqualFunc(l.positions, m.positions, Position.Equal)
}

// AddResult is the outcome of Ledger.Add.
type AddResult struct {
	Message string
	Row     Row
}

// DelResult is the outcome of Ledger.Del.
type DelResult struct {
	Message string
	Found   bool
}

// ModifyResult is the outcome of Ledger.Modify.
//
// Matched is false when no position had the ticker. The ledger is then
// unchanged, but the message still reads as a success.
type ModifyResult struct {
	Message string
	Matched bool
	Row     Row
}

// ListResult is the outcome of Ledger.List.
type ListResult struct {
	Rows []PNLRow
}

// Total returns the sum of the PNL of all rows.
func (r ListResult) Total() decimal.Decimal {
	total := decimal.Zero
	for _, row := range r.Rows {
		total = total.Add(row.PNL)
	}
	return total
}

// Add appends a new position, without any check on the ticker or the values.
func (l *Ledger) Add(ticker string, quantity, buyPrice decimal.Decimal) AddResult {
	p := NewPosition(ticker, quantity, buyPrice)
	l.positions = append(l.positions, p)
	return AddResult{
		Message: fmt.Sprintf("Position added to Folio => Ticker: %s, Quantity: %s, Price: %s", ticker, quantity, buyPrice),
		Row:     p.Row(),
	}
}

// Del removes every position with this ticker.
func (l *Ledger) Del(ticker string) DelResult {
	kept := make([]Position, 0, len(l.positions))
	for _, p := range l.positions {
		if p.Ticker != ticker {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(l.positions) {
		return DelResult{Message: fmt.Sprintf("%s was not found in your Folio", ticker)}
	}
	l.positions = kept
	return DelResult{
		Message: fmt.Sprintf("%s position was removed from your Folio", ticker),
		Found:   true,
	}
}

// Modify overwrites the quantity and buy price of the first position with this ticker.
func (l *Ledger) Modify(ticker string, quantity, buyPrice decimal.Decimal) ModifyResult {
	matched := false
	for i := range l.positions {
		if l.positions[i].Ticker == ticker {
			l.positions[i].Quantity = quantity
			l.positions[i].BuyPrice = buyPrice
			matched = true
			break
		}
	}
	return ModifyResult{
		Message: fmt.Sprintf("%s position was modified in your Folio", ticker),
		Matched: matched,
		Row:     Row{Ticker: ticker, Quantity: quantity, BuyPrice: buyPrice},
	}
}

// List refreshes the price and PNL of every position, in ledger order, and
// returns one row per position.
//
// Prices are fetched one after the other. The first failure stops the pass
// and is returned as a *QuoteLookupError, without rows. Positions refreshed
// before the failure keep their new price and PNL.
func (l *Ledger) List(ctx context.Context, q Quoter) (ListResult, error) {
	rows := make([]PNLRow, 0, len(l.positions))
	for i := range l.positions {
		p := &l.positions[i]
		price, err := lookup(ctx, q, p.Ticker)
		if err != nil {
			return ListResult{}, err
		}
		p.CalcPNL(price)
		log.Debug().Str("ticker", p.Ticker).Stringer("price", price).Stringer("pnl", p.PNL).Msg("position refreshed")
		rows = append(rows, p.PNLRow())
	}
	return ListResult{Rows: rows}, nil
}

// lookup gets a single price and makes sure any failure is a *QuoteLookupError
// naming ticker.
func lookup(ctx context.Context, q Quoter, ticker string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, &QuoteLookupError{Ticker: ticker, Err: err}
	}
	price, err := q.Price(ctx, ticker)
	if err != nil {
		var qerr *QuoteLookupError
		if errors.As(err, &qerr) && qerr.Ticker == ticker {
			return decimal.Zero, err
		}
		return decimal.Zero, &QuoteLookupError{Ticker: ticker, Err: err}
	}
	return price, nil
}
