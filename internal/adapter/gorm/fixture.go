package gorm

import (
	"context"
	"log/slog"
	"sort"

	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/bornholm/clubhouse/internal/core/port"
	"github.com/bornholm/clubhouse/internal/fixture"
	"github.com/bornholm/clubhouse/internal/metrics"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	FixtureAddress     = "address"
	FixtureSeason      = "season"
	FixtureVenue       = "venue"
	FixtureAthlete     = "athlete"
	FixtureCoach       = "coach"
	FixtureTraining    = "training"
	FixtureCompetition = "competition"
)

type fixtureRow[R any] interface {
	row[R]
	exportFields() fixture.Fields
	importFields(key uint, fields fixture.Fields) error
}

type fixtureModel struct {
	name   string
	export func(tx *gorm.DB) ([]fixture.Record, error)
	insert func(tx *gorm.DB, record fixture.Record) error
}

func newFixtureModel[R any, PR fixtureRow[R]](name string, links relations[R]) fixtureModel {
	return fixtureModel{
		name: name,
		export: func(tx *gorm.DB) ([]fixture.Record, error) {
			var rows []*R
			if err := tx.Model(PR(new(R))).Order("id ASC").Find(&rows).Error; err != nil {
				return nil, errors.WithStack(err)
			}

			if links != nil && len(rows) > 0 {
				if err := links.Load(tx, rows); err != nil {
					return nil, errors.WithStack(err)
				}
			}

			records := make([]fixture.Record, 0, len(rows))
			for _, r := range rows {
				records = append(records, fixture.Record{
					Model:  name,
					Key:    PR(r).envelope().ID,
					Fields: PR(r).exportFields(),
				})
			}

			return records, nil
		},
		insert: func(tx *gorm.DB, record fixture.Record) error {
			r := new(R)
			if err := PR(r).importFields(record.Key, record.Fields); err != nil {
				return errors.WithStack(err)
			}

			if err := tx.Omit(clause.Associations).Create(r).Error; err != nil {
				return errors.WithStack(err)
			}

			if links != nil {
				if err := links.Save(tx, r); err != nil {
					return errors.WithStack(err)
				}
			}

			return nil
		},
	}
}

// fixtureModels lists the models in dependency order: every model only
// references models listed before it.
func (s *Store) fixtureModels() []fixtureModel {
	return []fixtureModel{
		newFixtureModel[Address](FixtureAddress, nil),
		newFixtureModel[Season](FixtureSeason, nil),
		newFixtureModel[Venue](FixtureVenue, nil),
		newFixtureModel[Athlete](FixtureAthlete, nil),
		newFixtureModel[Coach](FixtureCoach, nil),
		newFixtureModel[Training](FixtureTraining, s.trainings.spec.Relations),
		newFixtureModel[Competition](FixtureCompetition, s.competitions.spec.Relations),
	}
}

// ExportFixtures implements port.FixtureStore.
func (s *Store) ExportFixtures(ctx context.Context) ([]fixture.Record, error) {
	var records []fixture.Record

	err := s.withTransaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		records = make([]fixture.Record, 0)

		for _, m := range s.fixtureModels() {
			exported, err := m.export(tx)
			if err != nil {
				return errors.Wrapf(err, "could not export '%s' records", m.name)
			}

			records = append(records, exported...)
		}

		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return records, nil
}

// ImportFixtures implements port.FixtureStore. Records are inserted with
// their storage key and audit envelope preserved, in a single transaction.
func (s *Store) ImportFixtures(ctx context.Context, records []fixture.Record) error {
	models := s.fixtureModels()

	rank := make(map[string]int, len(models))
	for i, m := range models {
		rank[m.name] = i
	}

	verr := &model.ValidationError{}
	for i, r := range records {
		if _, exists := rank[r.Model]; !exists {
			verr.Addf("model", "record #%d has unknown model '%s'", i, r.Model)
		}
		if r.Key == 0 {
			verr.Addf("pk", "record #%d has no primary key", i)
		}
	}
	if err := verr.Err(); err != nil {
		return errors.WithStack(err)
	}

	sorted := make([]fixture.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rank[sorted[i].Model] < rank[sorted[j].Model]
	})

	counts := make(map[string]int, len(models))

	err := s.withTransaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		clear(counts)

		for _, r := range sorted {
			m := models[rank[r.Model]]

			if err := m.insert(tx, r); err != nil {
				switch {
				case errors.Is(err, fixture.ErrMissingField) || errors.Is(err, fixture.ErrInvalidField):
					return model.NewValidationError("fields", err.Error())
				case isUniqueViolation(err):
					return errors.Wrapf(port.ErrConflict, "%s record %d already exists", r.Model, r.Key)
				case isForeignKeyViolation(err):
					return model.NewValidationError("fields", "a "+r.Model+" record references an unknown record")
				default:
					return errors.WithStack(err)
				}
			}

			counts[r.Model]++
		}

		return nil
	})
	if err != nil {
		return errors.WithStack(err)
	}

	for name, total := range counts {
		metrics.Mutations.WithLabelValues(name, metrics.OperationImport).Add(float64(total))
	}

	slog.InfoContext(ctx, "fixtures imported", slog.Int("records", len(records)))

	return nil
}

var _ port.FixtureStore = &Store{}
