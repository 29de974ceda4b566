package gorm

import (
	"time"

	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/bornholm/clubhouse/internal/core/port"
	"github.com/bornholm/clubhouse/internal/fixture"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Season struct {
	Envelope

	Name     string    `gorm:"not null"`
	StartsOn time.Time `gorm:"not null;index"`
	EndsOn   time.Time `gorm:"not null;index"`
}

func (s *Season) toEntity() *model.Season {
	return &model.Season{
		Identity: s.identity(),
		Audit:    s.audit(),
		Name:     s.Name,
		StartsOn: s.StartsOn,
		EndsOn:   s.EndsOn,
	}
}

func (s *Season) write(_ resolver, in model.SeasonInput) error {
	s.Name = in.Name
	s.StartsOn = normalizeDate(in.StartsOn)
	s.EndsOn = normalizeDate(in.EndsOn)
	return nil
}

func (s *Season) exportFields() fixture.Fields {
	fields := fixture.Fields{
		"name":      s.Name,
		"starts_on": fixture.FormatTime(s.StartsOn),
		"ends_on":   fixture.FormatTime(s.EndsOn),
	}
	s.Envelope.exportFields(fields)
	return fields
}

func (s *Season) importFields(key uint, fields fixture.Fields) error {
	if err := s.Envelope.importFields(key, fields); err != nil {
		return errors.WithStack(err)
	}

	var err error

	if s.Name, err = fields.String("name"); err != nil {
		return errors.WithStack(err)
	}

	if s.StartsOn, err = fields.Time("starts_on"); err != nil {
		return errors.WithStack(err)
	}

	if s.EndsOn, err = fields.Time("ends_on"); err != nil {
		return errors.WithStack(err)
	}

	s.StartsOn = normalizeDate(s.StartsOn)
	s.EndsOn = normalizeDate(s.EndsOn)

	return nil
}

type seasonCollection = collection[Season, *Season, model.Season, model.SeasonInput, model.SeasonPatch, port.SeasonFilter]

func newSeasonCollection(store *Store) *seasonCollection {
	return newCollection[Season, *Season](store, collectionSpec[Season, model.Season, model.SeasonInput, model.SeasonPatch, port.SeasonFilter]{
		Name:     "season",
		ToEntity: (*Season).toEntity,
		ToInput:  (*model.Season).Input,
		Write:    (*Season).write,
		Filter: func(filter port.SeasonFilter) scope {
			return func(db *gorm.DB) *gorm.DB {
				if filter.Containing != nil {
					t := normalizeDate(*filter.Containing)
					db = db.Where("seasons.starts_on <= ? AND seasons.ends_on >= ?", t, t)
				}
				return db
			}
		},
		Options: func(filter port.SeasonFilter) port.QueryOptions {
			return filter.QueryOptions
		},
		Referrers: []referrer{
			{Table: "trainings", Column: "season_id"},
			{Table: "competitions", Column: "season_id"},
		},
	})
}

var _ port.SeasonRepository = &seasonCollection{}
