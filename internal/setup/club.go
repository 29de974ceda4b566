package setup

import (
	"context"

	"github.com/bornholm/clubhouse/internal/config"
	"github.com/bornholm/clubhouse/internal/core/service"
	"github.com/pkg/errors"
)

var getClubFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*service.Club, error) {
	store, err := getGormStoreFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return service.NewClub(store, store), nil
})

// NewClubFromConfig returns the club collections backed by the configured
// store.
func NewClubFromConfig(ctx context.Context, conf *config.Config) (*service.Club, error) {
	club, err := getClubFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return club, nil
}
