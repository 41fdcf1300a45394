package cryptofolio

import "github.com/shopspring/decimal"

// Position is one purchase lot of an asset.
//
// CurrentPrice and PNL are transient: they only mean something right after
// CalcPNL, and are zero for a freshly added position.
type Position struct {
	Ticker       string          `json:"ticker"`
	Quantity     decimal.Decimal `json:"quantity"`
	BuyPrice     decimal.Decimal `json:"buyPrice"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	PNL          decimal.Decimal `json:"pnl"`
}

// NewPosition creates a position with no price information yet.
func NewPosition(ticker string, quantity, buyPrice decimal.Decimal) Position {
	return Position{
		Ticker:       ticker,
		Quantity:     quantity,
		BuyPrice:     buyPrice,
		CurrentPrice: decimal.Zero,
		PNL:          decimal.Zero,
	}
}

// CalcPNL records the current price and recomputes the PNL from it:
//
//	pnl = (current - buy) * quantity
func (p *Position) CalcPNL(current decimal.Decimal) {
	p.CurrentPrice = current
	p.PNL = current.Sub(p.BuyPrice).Mul(p.Quantity)
}

// Equal reports whether both positions hold the same values, regardless of
// the decimal representation.
func (p Position) Equal(q Position) bool {
	return p.Ticker == q.Ticker &&
		p.Quantity.Equal(q.Quantity) &&
		p.BuyPrice.Equal(q.BuyPrice) &&
		p.CurrentPrice.Equal(q.CurrentPrice) &&
		p.PNL.Equal(q.PNL)
}

// Row is the short tabular view of a position.
type Row struct {
	Ticker   string
	Quantity decimal.Decimal
	BuyPrice decimal.Decimal
}

// PNLRow is the tabular view of a position after a price refresh.
type PNLRow struct {
	Ticker       string
	Quantity     decimal.Decimal
	BuyPrice     decimal.Decimal
	CurrentPrice decimal.Decimal
	PNL          decimal.Decimal
}

func (p Position) Row() Row { return Row{Ticker: p.Ticker, Quantity: p.Quantity, BuyPrice: p.BuyPrice} }

func (p Position) PNLRow() PNLRow {
	return PNLRow{
		Ticker:       p.Ticker,
		Quantity:     p.Quantity,
		BuyPrice:     p.BuyPrice,
		CurrentPrice: p.CurrentPrice,
		PNL:          p.PNL,
	}
}
