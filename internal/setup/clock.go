package setup

import (
	"context"

	"github.com/bornholm/clubhouse/internal/config"
	"github.com/jonboulle/clockwork"
)

var getClock = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (clockwork.Clock, error) {
	return clockwork.NewRealClock(), nil
})
