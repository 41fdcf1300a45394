package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type addCmd struct {
	app *App
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a position to the Folio" }
func (*addCmd) Usage() string {
	return `add <ticker> <quantity> <buy_price>

  Appends a new position to the Folio. The ticker is free text, usually the
  pair traded on the quote service (e.g., "BTCEUR"). Adding an existing
  ticker again creates a second position.

  Example: add BTCEUR 0.56 48000
`
}

func (*addCmd) SetFlags(*flag.FlagSet) {}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ticker, quantity, price, err := parseLot(f.Args())
	if err != nil {
		fmt.Fprintf(c.app.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	return c.app.run(ctx, func(_ context.Context, _ *Config, l *cryptofolio.Ledger) (string, string, error) {
		res := l.Add(ticker, quantity, price)
		return res.Message, renderer.Positions(res.Row), nil
	})
}

// parseLot parses the "<ticker> <quantity> <buy_price>" arguments shared by
// add and modify.
func parseLot(args []string) (ticker string, quantity, price decimal.Decimal, err error) {
	if len(args) != 3 {
		return "", decimal.Zero, decimal.Zero, fmt.Errorf("expected <ticker> <quantity> <buy_price>, got %d argument(s)", len(args))
	}
	if ticker, err = parseTicker(args[0]); err != nil {
		return
	}
	if quantity, err = cryptofolio.ParseDecimal(args[1]); err != nil {
		return "", decimal.Zero, decimal.Zero, fmt.Errorf("quantity: %w", err)
	}
	if price, err = cryptofolio.ParseDecimal(args[2]); err != nil {
		return "", decimal.Zero, decimal.Zero, fmt.Errorf("buy price: %w", err)
	}
	return ticker, quantity, price, nil
}

func parseTicker(arg string) (string, error) {
	ticker := strings.TrimSpace(arg)
	if ticker == "" {
		return "", errors.New("ticker is required")
	}
	if !utf8.ValidString(ticker) {
		return "", fmt.Errorf("ticker %q is not valid UTF-8", ticker)
	}
	return ticker, nil
}
