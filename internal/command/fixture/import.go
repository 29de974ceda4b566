package fixture

import (
	"io"
	"log/slog"
	"os"

	"github.com/bornholm/clubhouse/internal/command/common"
	"github.com/bornholm/clubhouse/internal/fixture"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func ImportCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import fixture records, preserving their storage keys",
		Flags: common.WithCommonFlags(flagFile, flagFormat),
		Action: func(ctx *cli.Context) error {
			format, err := getFormat(ctx)
			if err != nil {
				return errors.WithStack(err)
			}

			var r io.Reader = os.Stdin

			if path := ctx.String(paramFile); path != "-" {
				file, err := os.Open(path)
				if err != nil {
					return errors.WithStack(err)
				}

				defer file.Close()

				r = file
			}

			records, err := fixture.Decode(r, format)
			if err != nil {
				return errors.Wrap(err, "could not decode fixtures")
			}

			club, err := common.GetClub(ctx)
			if err != nil {
				return errors.WithStack(err)
			}

			if err := club.Fixtures().ImportFixtures(ctx.Context, records); err != nil {
				return errors.Wrap(err, "could not import fixtures")
			}

			slog.InfoContext(ctx.Context, "fixtures imported", slog.Int("records", len(records)))

			return nil
		},
	}
}
