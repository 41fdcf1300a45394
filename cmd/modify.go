package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/renderer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

type modifyCmd struct {
	app    *App
	strict bool
}

func (*modifyCmd) Name() string     { return "modify" }
func (*modifyCmd) Synopsis() string { return "change the quantity and buy price of a position" }
func (*modifyCmd) Usage() string {
	return `modify [-strict] <ticker> <quantity> <buy_price>

  Overwrites the quantity and buy price of the first position with this
  ticker. An unknown ticker leaves the Folio unchanged.

  Example: modify BTCEUR 0.60 47000
`
}

func (c *modifyCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.strict, "strict", false, "Fail when no position has the ticker")
}

func (c *modifyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ticker, quantity, price, err := parseLot(f.Args())
	if err != nil {
		fmt.Fprintf(c.app.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	return c.app.run(ctx, func(_ context.Context, _ *Config, l *cryptofolio.Ledger) (string, string, error) {
		res := l.Modify(ticker, quantity, price)
		if !res.Matched {
			if c.strict {
				return "", "", fmt.Errorf("%s: %w", ticker, errNoPosition)
			}
			log.Warn().Str("ticker", ticker).Msg("no position with this ticker, Folio unchanged")
		}
		return res.Message, renderer.Positions(res.Row), nil
	})
}

var errNoPosition = errors.New("no position in the Folio")
