package setup

import (
	"context"

	gormAdapter "github.com/bornholm/clubhouse/internal/adapter/gorm"
	"github.com/bornholm/clubhouse/internal/config"
	"github.com/pkg/errors"
)

var getGormStoreFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*gormAdapter.Store, error) {
	db, err := getGormDatabaseFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	clock, err := getClock(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	generator, err := getIdentifierGeneratorFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	store, err := gormAdapter.NewStore(db,
		gormAdapter.WithClock(clock),
		gormAdapter.WithIdentifierGenerator(generator),
		gormAdapter.WithMaxIdentifierAttempts(conf.Identifier.MaxAttempts),
		gormAdapter.WithRetry(conf.Storage.Database.MaxRetries, conf.Storage.Database.BaseBackoff),
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return store, nil
})
