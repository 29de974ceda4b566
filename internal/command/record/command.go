package record

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bornholm/clubhouse/internal/command/common"
	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	paramCollection = "collection"
	paramConfirm    = "confirm"
)

var (
	flagCollection = &cli.StringFlag{
		Name:     paramCollection,
		Aliases:  []string{"c"},
		Required: true,
		Usage:    fmt.Sprintf("Record collection (%s)", strings.Join(collectionNames(), ", ")),
	}
	flagConfirm = &cli.BoolFlag{
		Name:  paramConfirm,
		Usage: "Confirm the permanent removal of the records",
	}
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "record",
		Usage: "Manage deleted club records",
		Subcommands: []*cli.Command{
			TrashCommand(),
			RestoreCommand(),
			PurgeCommand(),
		},
	}
}

func TrashCommand() *cli.Command {
	return &cli.Command{
		Name:  "trash",
		Usage: "List the soft-deleted records of a collection",
		Flags: common.WithCommonFlags(flagCollection),
		Action: func(ctx *cli.Context) error {
			club, err := common.GetClub(ctx)
			if err != nil {
				return errors.WithStack(err)
			}

			coll, err := getCollection(club, ctx.String(paramCollection))
			if err != nil {
				return errors.WithStack(err)
			}

			records, err := coll.trash(ctx.Context)
			if err != nil {
				return errors.Wrap(err, "could not list deleted records")
			}

			return printJSON(records)
		},
	}
}

func RestoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "restore",
		Usage:     "Restore soft-deleted records",
		ArgsUsage: "<id> [<id>...]",
		Flags:     common.WithCommonFlags(flagCollection),
		Action: func(ctx *cli.Context) error {
			ids, err := getIDs(ctx)
			if err != nil {
				return errors.WithStack(err)
			}

			club, err := common.GetClub(ctx)
			if err != nil {
				return errors.WithStack(err)
			}

			coll, err := getCollection(club, ctx.String(paramCollection))
			if err != nil {
				return errors.WithStack(err)
			}

			restored := make([]model.Record, 0, len(ids))

			for _, id := range ids {
				record, err := coll.restore(ctx.Context, id)
				if err != nil {
					return errors.Wrapf(err, "could not restore record '%s'", id)
				}

				slog.InfoContext(ctx.Context, "record restored", slog.String("id", id.String()))

				restored = append(restored, record)
			}

			return printJSON(restored)
		},
	}
}

func PurgeCommand() *cli.Command {
	return &cli.Command{
		Name:      "purge",
		Usage:     "Permanently remove records",
		ArgsUsage: "<id> [<id>...]",
		Flags:     common.WithCommonFlags(flagCollection, flagConfirm),
		Action: func(ctx *cli.Context) error {
			ids, err := getIDs(ctx)
			if err != nil {
				return errors.WithStack(err)
			}

			if !ctx.Bool(paramConfirm) {
				return errors.Errorf("refusing to remove %d record(s) permanently without --%s", len(ids), paramConfirm)
			}

			club, err := common.GetClub(ctx)
			if err != nil {
				return errors.WithStack(err)
			}

			coll, err := getCollection(club, ctx.String(paramCollection))
			if err != nil {
				return errors.WithStack(err)
			}

			for _, id := range ids {
				if err := coll.purge(ctx.Context, id); err != nil {
					return errors.Wrapf(err, "could not purge record '%s'", id)
				}

				slog.InfoContext(ctx.Context, "record purged", slog.String("id", id.String()))
			}

			return nil
		},
	}
}

func getIDs(ctx *cli.Context) ([]model.PublicID, error) {
	if ctx.NArg() == 0 {
		return nil, errors.New("at least one record id is required")
	}

	ids := make([]model.PublicID, 0, ctx.NArg())
	for _, raw := range ctx.Args().Slice() {
		ids = append(ids, model.PublicID(raw))
	}

	return ids, nil
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return errors.WithStack(err)
	}

	return nil
}
