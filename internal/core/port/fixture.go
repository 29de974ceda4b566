package port

import (
	"context"

	"github.com/bornholm/clubhouse/internal/fixture"
)

// FixtureStore exports and imports whole collections, deleted records
// included, in the persisted fixture format.
type FixtureStore interface {
	ExportFixtures(ctx context.Context) ([]fixture.Record, error)
	ImportFixtures(ctx context.Context, records []fixture.Record) error
}
