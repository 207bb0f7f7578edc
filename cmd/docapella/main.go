package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/Doctave/docapella-sub001/cmd/docapella/commands"
)

var version = "dev"

func main() {
	// Best-effort: local overrides for development environments.
	_ = godotenv.Load()

	cli := commands.CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("docapella"),
		kong.Description("Compile a documentation project into render trees and check it for problems."),
		kong.Vars{"version": version},
	)

	err := ctx.Run(&commands.Global{}, &cli)
	ctx.FatalIfErrorf(err)
}
