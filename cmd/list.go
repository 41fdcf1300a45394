package cmd

import (
	"context"
	"flag"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/renderer"
	"github.com/google/subcommands"
)

type listCmd struct {
	app *App
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list positions with their current price and PNL" }
func (*listCmd) Usage() string {
	return `list

  Fetches the current price of every position from the quote service,
  computes the profit and loss of each one and prints them with the total.

  Nothing is saved if any price cannot be fetched.
`
}

func (*listCmd) SetFlags(*flag.FlagSet) {}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.run(ctx, func(ctx context.Context, cfg *Config, l *cryptofolio.Ledger) (string, string, error) {
		if l.Len() == 0 {
			return "", renderer.Valuation(cryptofolio.ListResult{}), nil
		}
		quoter, err := cfg.Quoter()
		if err != nil {
			return "", "", err
		}
		res, err := l.List(ctx, quoter)
		if err != nil {
			return "", "", err
		}
		return "", renderer.Valuation(res), nil
	})
}
