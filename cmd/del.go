package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/cryptofolio"
	"github.com/google/subcommands"
)

type delCmd struct {
	app *App
}

func (*delCmd) Name() string     { return "del" }
func (*delCmd) Synopsis() string { return "remove a ticker from the Folio" }
func (*delCmd) Usage() string {
	return `del <ticker>

  Removes every position with this ticker from the Folio.
`
}

func (*delCmd) SetFlags(*flag.FlagSet) {}

func (c *delCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintf(c.app.Stderr, "Error: expected <ticker>, got %d argument(s)\n", f.NArg())
		return subcommands.ExitUsageError
	}
	ticker, err := parseTicker(f.Arg(0))
	if err != nil {
		fmt.Fprintf(c.app.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	return c.app.run(ctx, func(_ context.Context, _ *Config, l *cryptofolio.Ledger) (string, string, error) {
		return l.Del(ticker).Message, "", nil
	})
}
