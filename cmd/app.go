// Package cmd implements the CLI application to manage a crypto Folio.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/cryptofolio"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Version of the cf command.
var Version = "0.1"

// App holds the global flags and the streams shared by every subcommand.
type App struct {
	ConfigFile string
	DataFile   string // overrides the config data_file when set
	Verbose    bool
	Plain      bool // print raw markdown

	Stdout io.Writer
	Stderr io.Writer

	cfg *Config
}

// NewApp returns an App writing to the process standard streams.
func NewApp() *App {
	return &App{Stdout: os.Stdout, Stderr: os.Stderr}
}

// SetFlags registers the global flags.
func (a *App) SetFlags(f *flag.FlagSet) {
	f.StringVar(&a.ConfigFile, "config", defaultConfig, "Path to the configuration file (TOML)")
	f.StringVar(&a.DataFile, "data", "", "Path to the Folio data file, overrides the configuration")
	f.BoolVar(&a.Verbose, "v", false, "Verbose logging")
	f.BoolVar(&a.Plain, "plain", false, "Print raw markdown instead of rendering it")
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func (a *App) Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(&versionCmd{app: a}, "")

	c.Register(&listCmd{app: a}, "folio")
	c.Register(&addCmd{app: a}, "folio")
	c.Register(&delCmd{app: a}, "folio")
	c.Register(&modifyCmd{app: a}, "folio")
	c.Register(&fmtCmd{app: a}, "folio")
}

// SetupLogger configures the global zerolog logger, writing human readable
// lines to w.
func SetupLogger(w io.Writer, verbose bool) {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		With().
		Timestamp().
		Logger()
}

// config loads the configuration once.
func (a *App) config() (*Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := LoadConfig(a.ConfigFile)
	if err != nil {
		return nil, err
	}
	a.cfg = cfg
	return cfg, nil
}

// dataPath returns the path of the Folio data file.
func (a *App) dataPath(cfg *Config) string {
	if a.DataFile != "" {
		return expandHome(a.DataFile)
	}
	return cfg.Main.DataFile
}

// operation runs against a loaded ledger. It returns the message and the
// markdown to print on success.
type operation func(ctx context.Context, cfg *Config, l *cryptofolio.Ledger) (msg, md string, err error)

// run loads the ledger, applies op, saves the ledger and prints the outcome.
// Nothing is saved when op fails.
func (a *App) run(ctx context.Context, op operation) subcommands.ExitStatus {
	cfg, err := a.config()
	if err != nil {
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	path := a.dataPath(cfg)

	ledger, err := cryptofolio.LoadLedger(path)
	if err != nil {
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	msg, md, err := op(ctx, cfg, ledger)
	if err != nil {
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := cryptofolio.SaveLedger(path, ledger); err != nil {
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if msg != "" {
		fmt.Fprintln(a.Stdout, msg)
	}
	a.printMarkdown(md)
	return subcommands.ExitSuccess
}

// printMarkdown renders md for the terminal, or prints it as is in plain mode.
func (a *App) printMarkdown(md string) {
	if md == "" {
		return
	}
	if a.Plain {
		fmt.Fprint(a.Stdout, md)
		return
	}
	out, err := glamour.Render(md, "auto")
	if err != nil {
		log.Debug().Err(err).Msg("cannot render markdown, printing it raw")
		fmt.Fprint(a.Stdout, md)
		return
	}
	fmt.Fprint(a.Stdout, out)
}
