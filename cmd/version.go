package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type versionCmd struct {
	app *App
}

func (*versionCmd) Name() string           { return "version" }
func (*versionCmd) Synopsis() string       { return "print the version" }
func (*versionCmd) Usage() string          { return "version\n" }
func (*versionCmd) SetFlags(*flag.FlagSet) {}

func (c *versionCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Fprintf(c.app.Stdout, "cf %s\n", Version)
	return subcommands.ExitSuccess
}
