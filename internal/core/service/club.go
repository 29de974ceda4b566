package service

import (
	"github.com/bornholm/clubhouse/internal/core/port"
)

// Club bundles the collections of the club with the merged activity
// timeline built on top of them.
type Club struct {
	port.Store

	fixtures port.FixtureStore
	timeline *Timeline
}

func (c *Club) Fixtures() port.FixtureStore {
	return c.fixtures
}

func (c *Club) Timeline() *Timeline {
	return c.timeline
}

// ActivitySources returns the sources of the timeline, trainings first.
func ActivitySources(store port.Store) []port.ActivitySource {
	return []port.ActivitySource{
		store.Trainings(),
		store.Competitions(),
	}
}

func NewClub(store port.Store, fixtures port.FixtureStore, funcs ...TimelineOptionFunc) *Club {
	return &Club{
		Store:    store,
		fixtures: fixtures,
		timeline: NewTimeline(ActivitySources(store), funcs...),
	}
}
