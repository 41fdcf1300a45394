package cryptofolio

import (
	"strings"
	"testing"
)

func TestPosition_CalcPNL(t *testing.T) {
	testCases := []struct {
		name     string
		quantity float64
		buy      float64
		current  float64
		wantPNL  string
	}{
		{name: "gain", quantity: 1.5, buy: 25000, current: 50000, wantPNL: "37500"},
		{name: "loss", quantity: 2, buy: 1500, current: 1200.5, wantPNL: "-599"},
		{name: "flat", quantity: 0.56, buy: 48000, current: 48000, wantPNL: "0"},
		{name: "short quantity", quantity: -1, buy: 100, current: 110, wantPNL: "-10"},
		{name: "no float drift", quantity: 0.1, buy: 0.2, current: 0.3, wantPNL: "0.01"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPosition("BTCEUR", D(tc.quantity), D(tc.buy))
			p.CalcPNL(D(tc.current))

			if !p.CurrentPrice.Equal(D(tc.current)) {
				t.Errorf("CurrentPrice = %v, want %v", p.CurrentPrice, tc.current)
			}
			if p.PNL.String() != tc.wantPNL {
				t.Errorf("PNL = %v, want %v", p.PNL, tc.wantPNL)
			}
		})
	}
}

func TestPosition_CalcPNLKeepsLot(t *testing.T) {
	p := NewPosition("BTCEUR", D(1.5), D(25000))
	p.CalcPNL(D(50000))

	want := Position{Ticker: "BTCEUR", Quantity: D(1.5), BuyPrice: D(25000), CurrentPrice: D(50000), PNL: D(37500)}
	if !p.Equal(want) {
		t.Errorf("CalcPNL() = %+v, want %+v", p, want)
	}
}

func TestPosition_PNLRow(t *testing.T) {
	p := NewPosition("BTCEUR", D(1.5), D(25000))
	p.CalcPNL(D(50000))

	row := p.PNLRow()
	if row.Ticker != "BTCEUR" || !row.Quantity.Equal(D(1.5)) || !row.BuyPrice.Equal(D(25000)) ||
		!row.CurrentPrice.Equal(D(50000)) || !row.PNL.Equal(D(37500)) {
		t.Errorf("PNLRow() = %+v, want [BTCEUR 1.5 25000 50000 37500]", row)
	}
}

func TestNewPosition(t *testing.T) {
	p := NewPosition("ETHEUR", D(2.0), D(1500))
	if !p.CurrentPrice.IsZero() || !p.PNL.IsZero() {
		t.Errorf("NewPosition() transient fields = (%v, %v), want zeros", p.CurrentPrice, p.PNL)
	}
}

func TestParseDecimal(t *testing.T) {
	testCases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "0.56", want: "0.56"},
		{in: " 48000 ", want: "48000"},
		{in: "-1.25", want: "-1.25"},
		{in: "1e3", want: "1000"},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
		{in: "1,5", wantErr: true},
		{in: "0.00000001", want: "0.00000001"},
		{in: "1e64", want: "1" + strings.Repeat("0", 64)},
		{in: "1e65", wantErr: true},
		{in: "1e999999999", wantErr: true},
		{in: "1e-999999999", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := ParseDecimal(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseDecimal(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && got.String() != tc.want {
			t.Errorf("ParseDecimal(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
