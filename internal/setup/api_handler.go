package setup

import (
	"context"

	"github.com/bornholm/clubhouse/internal/config"
	"github.com/bornholm/clubhouse/internal/http/handler/api"
	"github.com/pkg/errors"
)

func getAPIHandlerFromConfig(ctx context.Context, conf *config.Config) (*api.Handler, error) {
	club, err := getClubFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	handler := api.NewHandler(club, api.WithHardDelete(conf.HTTP.API.HardDeleteEnabled))

	return handler, nil
}
