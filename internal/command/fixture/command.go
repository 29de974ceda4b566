package fixture

import (
	"github.com/urfave/cli/v2"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "fixture",
		Usage: "Export and import club records as fixtures",
		Subcommands: []*cli.Command{
			ExportCommand(),
			ImportCommand(),
		},
	}
}
