package gorm

import (
	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/bornholm/clubhouse/internal/core/port"
	"github.com/bornholm/clubhouse/internal/fixture"
	"github.com/pkg/errors"
)

type Athlete struct {
	Envelope
	PersonColumns `gorm:"embedded"`

	AddressID *uint
	Address   *Address `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`

	HeightCm     *int
	WeightKg     *float64
	JerseyNumber *int
	Position     string
}

func (a *Athlete) toEntity() *model.Athlete {
	return &model.Athlete{
		Identity:     a.identity(),
		Audit:        a.audit(),
		Person:       a.toPerson(a.Address),
		HeightCm:     a.HeightCm,
		WeightKg:     a.WeightKg,
		JerseyNumber: a.JerseyNumber,
		Position:     a.Position,
	}
}

func (a *Athlete) write(res resolver, in model.AthleteInput) error {
	if err := a.PersonColumns.write(res, &a.AddressID, in.PersonInput); err != nil {
		return errors.WithStack(err)
	}

	a.Address = nil
	a.HeightCm = in.HeightCm
	a.WeightKg = in.WeightKg
	a.JerseyNumber = in.JerseyNumber
	a.Position = in.Position

	return nil
}

func (a *Athlete) exportFields() fixture.Fields {
	fields := fixture.Fields{
		"height_cm":     fixture.OptionalValue(a.HeightCm),
		"weight_kg":     fixture.OptionalValue(a.WeightKg),
		"jersey_number": fixture.OptionalValue(a.JerseyNumber),
		"position":      a.Position,
	}
	a.Envelope.exportFields(fields)
	a.PersonColumns.exportFields(fields, a.AddressID)
	return fields
}

func (a *Athlete) importFields(key uint, fields fixture.Fields) error {
	if err := a.Envelope.importFields(key, fields); err != nil {
		return errors.WithStack(err)
	}

	if err := a.PersonColumns.importFields(fields, &a.AddressID); err != nil {
		return errors.WithStack(err)
	}

	var err error

	if a.HeightCm, err = fields.OptionalInt("height_cm"); err != nil {
		return errors.WithStack(err)
	}

	if a.WeightKg, err = fields.OptionalFloat("weight_kg"); err != nil {
		return errors.WithStack(err)
	}

	if a.JerseyNumber, err = fields.OptionalInt("jersey_number"); err != nil {
		return errors.WithStack(err)
	}

	if a.Position, err = fields.String("position"); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

type athleteCollection = collection[Athlete, *Athlete, model.Athlete, model.AthleteInput, model.AthletePatch, port.PersonFilter]

func newAthleteCollection(store *Store) *athleteCollection {
	return newCollection[Athlete, *Athlete](store, collectionSpec[Athlete, model.Athlete, model.AthleteInput, model.AthletePatch, port.PersonFilter]{
		Name:     "athlete",
		Preloads: []string{"Address"},
		ToEntity: (*Athlete).toEntity,
		ToInput:  (*model.Athlete).Input,
		Write:    (*Athlete).write,
		Filter:   personFilter("athletes"),
		Options:  personOptions,
		Referrers: []referrer{
			{Table: "training_athletes", Column: "athlete_id"},
			{Table: "competition_athletes", Column: "athlete_id"},
		},
	})
}

var _ port.AthleteRepository = &athleteCollection{}
