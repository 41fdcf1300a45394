package cryptofolio

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
)

// newTestLedger builds a ledger holding lots, in order.
func newTestLedger(lots ...Position) *Ledger {
	l := NewLedger()
	l.Append(lots...)
	return l
}

// fixedPrices is a Quoter that answers from a map and records the calls.
type fixedPrices struct {
	prices map[string]float64
	calls  []string
}

func (f *fixedPrices) Price(_ context.Context, ticker string) (decimal.Decimal, error) {
	f.calls = append(f.calls, ticker)
	p, ok := f.prices[ticker]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown ticker %s", ticker)
	}
	return D(p), nil
}

func TestLedger_Add(t *testing.T) {
	l := NewLedger()
	res := l.Add("ETHEUR", D(2.0), D(1500))

	if l.Len() != 1 {
		t.Fatalf("Add() ledger length = %d, want 1", l.Len())
	}
	want := Position{Ticker: "ETHEUR", Quantity: D(2.0), BuyPrice: D(1500), CurrentPrice: D(0), PNL: D(0)}
	if got := l.Position(0); !got.Equal(want) {
		t.Errorf("Add() position = %+v, want %+v", got, want)
	}
	if res.Row.Ticker != "ETHEUR" || !res.Row.Quantity.Equal(D(2.0)) || !res.Row.BuyPrice.Equal(D(1500)) {
		t.Errorf("Add() row = %+v, want [ETHEUR 2 1500]", res.Row)
	}
	if want := "Position added to Folio => Ticker: ETHEUR, Quantity: 2, Price: 1500"; res.Message != want {
		t.Errorf("Add() message = %q, want %q", res.Message, want)
	}
}

func TestLedger_AddKeepsDuplicates(t *testing.T) {
	l := NewLedger()
	l.Add("BTCEUR", D(0.5), D(20000))
	l.Add("BTCEUR", D(0.25), D(30000))
	l.Add("ETHEUR", D(-1), D(0)) // no validation either

	if l.Len() != 3 {
		t.Fatalf("ledger length = %d, want 3", l.Len())
	}
	if got := l.Position(1); got.Ticker != "BTCEUR" || !got.BuyPrice.Equal(D(30000)) {
		t.Errorf("second position = %+v, want the second BTCEUR lot", got)
	}
	if got, want := fmt.Sprint(l.Tickers()), "[BTCEUR ETHEUR]"; got != want {
		t.Errorf("Tickers() = %v, want %v", got, want)
	}
}

func TestLedger_Del(t *testing.T) {
	testCases := []struct {
		name      string
		ledger    *Ledger
		ticker    string
		wantFound bool
		wantMsg   string
		wantLen   int
	}{
		{
			name:      "found",
			ledger:    newTestLedger(NewPosition("ETHEUR", D(4.351), D(3548))),
			ticker:    "ETHEUR",
			wantFound: true,
			wantMsg:   "ETHEUR position was removed from your Folio",
			wantLen:   0,
		},
		{
			name:    "not found",
			ledger:  newTestLedger(NewPosition("ETHEUR", D(4.351), D(3548))),
			ticker:  "XRPEUR",
			wantMsg: "XRPEUR was not found in your Folio",
			wantLen: 1,
		},
		{
			name: "removes all duplicates",
			ledger: newTestLedger(
				NewPosition("BTCEUR", D(1), D(1)),
				NewPosition("ETHEUR", D(2), D(2)),
				NewPosition("BTCEUR", D(3), D(3)),
			),
			ticker:    "BTCEUR",
			wantFound: true,
			wantMsg:   "BTCEUR position was removed from your Folio",
			wantLen:   1,
		},
		{
			name:    "case sensitive",
			ledger:  newTestLedger(NewPosition("ETHEUR", D(1), D(1))),
			ticker:  "etheur",
			wantMsg: "etheur was not found in your Folio",
			wantLen: 1,
		},
		{
			name:    "empty ledger",
			ledger:  NewLedger(),
			ticker:  "ETHEUR",
			wantMsg: "ETHEUR was not found in your Folio",
			wantLen: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := tc.ledger.Del(tc.ticker)
			if res.Found != tc.wantFound {
				t.Errorf("Del(%q).Found = %v, want %v", tc.ticker, res.Found, tc.wantFound)
			}
			if res.Message != tc.wantMsg {
				t.Errorf("Del(%q).Message = %q, want %q", tc.ticker, res.Message, tc.wantMsg)
			}
			if tc.ledger.Len() != tc.wantLen {
				t.Errorf("Del(%q) ledger length = %d, want %d", tc.ticker, tc.ledger.Len(), tc.wantLen)
			}
			for _, p := range tc.ledger.Positions() {
				if p.Ticker == tc.ticker {
					t.Errorf("Del(%q) left %+v in the ledger", tc.ticker, p)
				}
			}
		})
	}
}

func TestLedger_Modify(t *testing.T) {
	l := newTestLedger(NewPosition("BTCEUR", D(0.56), D(48000)))
	res := l.Modify("BTCEUR", D(0.75), D(48567))

	if !res.Matched {
		t.Errorf("Modify().Matched = false, want true")
	}
	want := NewPosition("BTCEUR", D(0.75), D(48567))
	if got := l.Position(0); !got.Equal(want) {
		t.Errorf("Modify() position = %+v, want %+v", got, want)
	}
	if want := "BTCEUR position was modified in your Folio"; res.Message != want {
		t.Errorf("Modify().Message = %q, want %q", res.Message, want)
	}
	if res.Row.Ticker != "BTCEUR" || !res.Row.Quantity.Equal(D(0.75)) || !res.Row.BuyPrice.Equal(D(48567)) {
		t.Errorf("Modify().Row = %+v, want [BTCEUR 0.75 48567]", res.Row)
	}
}

func TestLedger_ModifyFirstMatchOnly(t *testing.T) {
	l := newTestLedger(
		NewPosition("ETHEUR", D(1), D(1000)),
		NewPosition("BTCEUR", D(0.5), D(20000)),
		NewPosition("BTCEUR", D(0.25), D(30000)),
	)
	l.Modify("BTCEUR", D(1), D(25000))

	if got := l.Position(1); !got.Quantity.Equal(D(1)) || !got.BuyPrice.Equal(D(25000)) {
		t.Errorf("first BTCEUR = %+v, want modified", got)
	}
	if got := l.Position(2); !got.Quantity.Equal(D(0.25)) || !got.BuyPrice.Equal(D(30000)) {
		t.Errorf("second BTCEUR = %+v, want untouched", got)
	}
	if got := l.Position(0); !got.Quantity.Equal(D(1)) || !got.BuyPrice.Equal(D(1000)) {
		t.Errorf("ETHEUR = %+v, want untouched", got)
	}
}

func TestLedger_ModifyUnknownTicker(t *testing.T) {
	before := newTestLedger(NewPosition("BTCEUR", D(0.56), D(48000)))
	l := newTestLedger(NewPosition("BTCEUR", D(0.56), D(48000)))

	res := l.Modify("XRPEUR", D(10), D(0.5))

	if res.Matched {
		t.Errorf("Modify().Matched = true, want false")
	}
	if want := "XRPEUR position was modified in your Folio"; res.Message != want {
		t.Errorf("Modify().Message = %q, want %q", res.Message, want)
	}
	if !l.Equal(before) {
		t.Errorf("Modify() changed the ledger on an unknown ticker")
	}
}

func TestLedger_List(t *testing.T) {
	l := newTestLedger(
		NewPosition("BTCEUR", D(1.5), D(25000)),
		NewPosition("ETHEUR", D(2), D(1500)),
	)
	q := &fixedPrices{prices: map[string]float64{"BTCEUR": 50000, "ETHEUR": 1200}}

	res, err := l.List(context.Background(), q)
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}

	if got, want := fmt.Sprint(q.calls), "[BTCEUR ETHEUR]"; got != want {
		t.Errorf("List() lookups = %v, want %v", got, want)
	}
	want := []PNLRow{
		{Ticker: "BTCEUR", Quantity: D(1.5), BuyPrice: D(25000), CurrentPrice: D(50000), PNL: D(37500)},
		{Ticker: "ETHEUR", Quantity: D(2), BuyPrice: D(1500), CurrentPrice: D(1200), PNL: D(-600)},
	}
	if len(res.Rows) != len(want) {
		t.Fatalf("List() returned %d rows, want %d", len(res.Rows), len(want))
	}
	for i, row := range res.Rows {
		w := want[i]
		if row.Ticker != w.Ticker || !row.Quantity.Equal(w.Quantity) || !row.BuyPrice.Equal(w.BuyPrice) ||
			!row.CurrentPrice.Equal(w.CurrentPrice) || !row.PNL.Equal(w.PNL) {
			t.Errorf("List() row %d = %+v, want %+v", i, row, w)
		}
	}
	if got := res.Total(); !got.Equal(D(36900)) {
		t.Errorf("Total() = %v, want 36900", got)
	}

	// The ledger itself is refreshed, the lots are untouched.
	for i, p := range l.Positions() {
		if !p.Quantity.Equal(want[i].Quantity) || !p.BuyPrice.Equal(want[i].BuyPrice) {
			t.Errorf("List() changed lot %d: %+v", i, p)
		}
		if !p.PNL.Equal(want[i].PNL) || !p.CurrentPrice.Equal(want[i].CurrentPrice) {
			t.Errorf("List() did not refresh position %d: %+v", i, p)
		}
	}
}

func TestLedger_ListEmpty(t *testing.T) {
	q := &fixedPrices{}
	res, err := NewLedger().List(context.Background(), q)
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(res.Rows) != 0 || len(q.calls) != 0 {
		t.Errorf("List() on empty ledger = %v rows, %v calls, want none", len(res.Rows), len(q.calls))
	}
}

func TestLedger_ListFailsFast(t *testing.T) {
	l := newTestLedger(
		NewPosition("BTCEUR", D(1.5), D(25000)),
		NewPosition("DOGEEUR", D(100), D(0.1)),
		NewPosition("ETHEUR", D(2), D(1500)),
	)
	q := &fixedPrices{prices: map[string]float64{"BTCEUR": 50000, "ETHEUR": 1200}}

	res, err := l.List(context.Background(), q)

	var qerr *QuoteLookupError
	if !errors.As(err, &qerr) {
		t.Fatalf("List() error = %v, want a *QuoteLookupError", err)
	}
	if qerr.Ticker != "DOGEEUR" {
		t.Errorf("QuoteLookupError.Ticker = %q, want %q", qerr.Ticker, "DOGEEUR")
	}
	if len(res.Rows) != 0 {
		t.Errorf("List() returned %d rows on failure, want none", len(res.Rows))
	}
	if got, want := fmt.Sprint(q.calls), "[BTCEUR DOGEEUR]"; got != want {
		t.Errorf("List() lookups = %v, want %v", got, want)
	}
	// best effort: the first position was refreshed, the last one was not.
	if got := l.Position(0).PNL; !got.Equal(D(37500)) {
		t.Errorf("first position PNL = %v, want 37500", got)
	}
	if got := l.Position(2).CurrentPrice; !got.IsZero() {
		t.Errorf("last position CurrentPrice = %v, want 0", got)
	}
}

func TestLedger_ListCanceled(t *testing.T) {
	l := newTestLedger(NewPosition("BTCEUR", D(1.5), D(25000)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.List(ctx, QuoterFunc(func(context.Context, string) (decimal.Decimal, error) {
		t.Error("Price() called on a canceled context")
		return D(1), nil
	}))

	var qerr *QuoteLookupError
	if !errors.As(err, &qerr) || !errors.Is(err, context.Canceled) {
		t.Errorf("List() error = %v, want a *QuoteLookupError wrapping context.Canceled", err)
	}
}

func TestLedger_ListLookupErrorNamesPosition(t *testing.T) {
	inner := &QuoteLookupError{Ticker: "ETHEUR", Err: errors.New("rate limited")}
	testCases := []struct {
		name string
		err  error
		wrap bool // whether the quoter error must be wrapped
	}{
		{name: "same ticker", err: &QuoteLookupError{Ticker: "BTCEUR", Err: errors.New("rate limited")}},
		{name: "other ticker", err: inner, wrap: true},
		{name: "wrapped other ticker", err: fmt.Errorf("upstream: %w", inner), wrap: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := newTestLedger(NewPosition("BTCEUR", D(1.5), D(25000)))

			_, err := l.List(context.Background(), QuoterFunc(func(context.Context, string) (decimal.Decimal, error) {
				return decimal.Zero, tc.err
			}))

			var qerr *QuoteLookupError
			if !errors.As(err, &qerr) || qerr.Ticker != "BTCEUR" {
				t.Fatalf("List() error = %v, want a *QuoteLookupError for BTCEUR", err)
			}
			if wrapped := err != tc.err; wrapped != tc.wrap {
				t.Errorf("List() wrapped the quoter error = %v, want %v", wrapped, tc.wrap)
			}
			if !errors.Is(err, tc.err) {
				t.Errorf("List() error = %v, want it to wrap %v", err, tc.err)
			}
		})
	}
}
