package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/etnz/cryptofolio/cmd"
	"github.com/google/subcommands"
)

func main() {
	cmd.Completion().Complete(path.Base(os.Args[0]))

	app := cmd.NewApp()
	app.SetFlags(flag.CommandLine)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	app.Register(commander)

	flag.Parse()
	cmd.SetupLogger(os.Stderr, app.Verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}
