package setup

import (
	"context"
	"sync"

	"github.com/bornholm/clubhouse/internal/config"
	"github.com/pkg/errors"
)

// createFromConfigOnce memoizes a factory: the component is built on the
// first call and shared by every later one, errors included.
func createFromConfigOnce[T any](factory func(ctx context.Context, conf *config.Config) (T, error)) func(ctx context.Context, conf *config.Config) (T, error) {
	var (
		once    sync.Once
		service T
		err     error
	)

	return func(ctx context.Context, conf *config.Config) (T, error) {
		once.Do(func() {
			service, err = factory(ctx, conf)
			if err != nil {
				err = errors.WithStack(err)
			}
		})

		return service, err
	}
}
