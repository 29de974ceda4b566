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

func ExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export every record, deleted ones included",
		Flags: common.WithCommonFlags(flagFile, flagFormat),
		Action: func(ctx *cli.Context) error {
			format, err := getFormat(ctx)
			if err != nil {
				return errors.WithStack(err)
			}

			club, err := common.GetClub(ctx)
			if err != nil {
				return errors.WithStack(err)
			}

			records, err := club.Fixtures().ExportFixtures(ctx.Context)
			if err != nil {
				return errors.Wrap(err, "could not export fixtures")
			}

			var w io.Writer = os.Stdout

			if path := ctx.String(paramFile); path != "-" {
				file, err := os.Create(path)
				if err != nil {
					return errors.WithStack(err)
				}

				defer file.Close()

				w = file
			}

			if err := fixture.Encode(w, format, records); err != nil {
				return errors.Wrap(err, "could not encode fixtures")
			}

			slog.InfoContext(ctx.Context, "fixtures exported", slog.Int("records", len(records)))

			return nil
		},
	}
}
