package fixture

import (
	"github.com/bornholm/clubhouse/internal/fixture"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	paramFile   = "file"
	paramFormat = "format"
)

var (
	flagFile = &cli.StringFlag{
		Name:    paramFile,
		Aliases: []string{"f"},
		Value:   "-",
		Usage:   "Fixture file, '-' for the standard streams",
	}
	flagFormat = &cli.StringFlag{
		Name:  paramFormat,
		Usage: "Fixture format (json, yaml), guessed from the file extension when empty",
	}
)

func getFormat(ctx *cli.Context) (fixture.Format, error) {
	if raw := ctx.String(paramFormat); raw != "" {
		format, err := fixture.ParseFormat(raw)
		if err != nil {
			return "", errors.WithStack(err)
		}
		return format, nil
	}

	return fixture.FormatFromPath(ctx.String(paramFile)), nil
}
