package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/cryptofolio"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

type fmtCmd struct {
	app    *App
	output string
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates the Folio file and rewrites it in canonical form"
}
func (*fmtCmd) Usage() string {
	return `fmt [-o <file>]

  Reads every position of the Folio file, and writes them back. With -o the
  positions are written to another file instead, its extension selects the
  format: .jsonl, .msgpack or .db (SQLite).

Usage Examples:
# Rewrites the Folio file in place.
$ cf fmt

# Moves the Folio to SQLite.
$ cf fmt -o ~/.cryptofolio/folio.db
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Write the positions to this file instead")
}

func (c *fmtCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(c.app.Stderr, "Error: fmt takes no argument")
		return subcommands.ExitUsageError
	}
	if c.output == "" {
		return c.app.run(ctx, func(_ context.Context, _ *Config, l *cryptofolio.Ledger) (string, string, error) {
			return fmt.Sprintf("Formatted %d position(s)", l.Len()), "", nil
		})
	}

	cfg, err := c.app.config()
	if err != nil {
		fmt.Fprintf(c.app.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	src := c.app.dataPath(cfg)
	ledger, err := cryptofolio.LoadLedger(src)
	if err != nil {
		fmt.Fprintf(c.app.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	dst := expandHome(c.output)
	if err := cryptofolio.SaveLedger(dst, ledger); err != nil {
		fmt.Fprintf(c.app.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	log.Debug().Str("from", src).Str("to", dst).Stringer("format", cryptofolio.FormatOf(dst)).Msg("Folio copied")
	fmt.Fprintf(c.app.Stdout, "Wrote %d position(s) to %s\n", ledger.Len(), dst)
	return subcommands.ExitSuccess
}
