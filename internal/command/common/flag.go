package common

import (
	"github.com/bornholm/clubhouse/internal/config"
	"github.com/bornholm/clubhouse/internal/core/service"
	"github.com/bornholm/clubhouse/internal/setup"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	paramDatabase = "database"
)

var (
	flagDatabase = &cli.StringFlag{
		Name:    paramDatabase,
		Aliases: []string{"d"},
		EnvVars: []string{"CLUBHOUSE_STORAGE_DATABASE_DSN"},
		Value:   "data.sqlite",
		Usage:   "Database DSN",
	}
)

func WithCommonFlags(flags ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		flagDatabase,
	}, flags...)
}

// GetClub opens the club store described by the environment configuration
// and the command flags.
func GetClub(ctx *cli.Context) (*service.Club, error) {
	conf, err := config.Parse()
	if err != nil {
		return nil, errors.Wrap(err, "could not parse config")
	}

	conf.Storage.Database.DSN = ctx.String(paramDatabase)

	club, err := setup.NewClubFromConfig(ctx.Context, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not open club store")
	}

	return club, nil
}
