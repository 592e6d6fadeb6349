package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/ndewijer/folio/internal/cli"
	"github.com/ndewijer/folio/internal/logging"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	env := cli.NewEnv()
	flag.BoolVar(&env.Plain, "plain", false, "Print raw markdown instead of rendering it for the terminal.")
	cli.Register(commander, env)

	// Exits when invoked by the shell for completion.
	cli.Completion(commander).Complete("folio")

	flag.Parse()
	code := commander.Execute(context.Background())
	logging.Sync()
	os.Exit(int(code))
}
