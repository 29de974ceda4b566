package record

import (
	"context"
	"sort"

	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/bornholm/clubhouse/internal/core/port"
	"github.com/bornholm/clubhouse/internal/core/service"
	"github.com/pkg/errors"
)

var ErrUnknownCollection = errors.New("unknown collection")

type collection struct {
	trash   func(ctx context.Context) ([]model.Record, error)
	restore func(ctx context.Context, id model.PublicID) (model.Record, error)
	purge   func(ctx context.Context, id model.PublicID) error
}

func bind[E any, PE interface {
	*E
	model.Record
}, I any, P any, F any](repo port.Repository[E, I, P, F]) collection {
	return collection{
		trash: func(ctx context.Context) ([]model.Record, error) {
			var filter F

			entities, err := repo.Unrestricted().List(ctx, filter)
			if err != nil {
				return nil, errors.WithStack(err)
			}

			records := make([]model.Record, 0)
			for _, e := range entities {
				r := PE(e)
				if r.Envelope().Active() {
					continue
				}
				records = append(records, r)
			}

			return records, nil
		},
		restore: func(ctx context.Context, id model.PublicID) (model.Record, error) {
			e, err := repo.Restore(ctx, id)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			return PE(e), nil
		},
		purge: func(ctx context.Context, id model.PublicID) error {
			return repo.HardDelete(ctx, id)
		},
	}
}

func collections(club *service.Club) map[string]collection {
	return map[string]collection{
		"addresses":    bind[model.Address](port.AddressRepository(club.Addresses())),
		"athletes":     bind[model.Athlete](port.AthleteRepository(club.Athletes())),
		"coaches":      bind[model.Coach](port.CoachRepository(club.Coaches())),
		"venues":       bind[model.Venue](port.VenueRepository(club.Venues())),
		"seasons":      bind[model.Season](port.SeasonRepository(club.Seasons())),
		"trainings":    bind[model.Training](port.TrainingRepository(club.Trainings())),
		"competitions": bind[model.Competition](port.CompetitionRepository(club.Competitions())),
	}
}

func getCollection(club *service.Club, name string) (collection, error) {
	c, exists := collections(club)[name]
	if !exists {
		return collection{}, errors.Wrapf(ErrUnknownCollection, "'%s'", name)
	}
	return c, nil
}

func collectionNames() []string {
	names := []string{"addresses", "athletes", "coaches", "venues", "seasons", "trainings", "competitions"}
	sort.Strings(names)
	return names
}
