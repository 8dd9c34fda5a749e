package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/xmlsite/cmd/xmlsite/commands"
	"git.home.luguber.info/inful/xmlsite/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("xmlsite"),
		kong.Description("Convert XML documents to HTML or other text output."),
		kong.Vars{"version": version.Version},
	)
	err := ctx.Run(&commands.Global{}, cli)
	ctx.FatalIfErrorf(err)
}
