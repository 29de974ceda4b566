package gorm

import (
	"time"

	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/bornholm/clubhouse/internal/core/port"
	"github.com/bornholm/clubhouse/internal/fixture"
	"github.com/pkg/errors"
)

type Coach struct {
	Envelope
	PersonColumns `gorm:"embedded"`

	AddressID *uint
	Address   *Address `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`

	Certification string
	LicenseNumber string
	CertifiedOn   *time.Time
}

func (c *Coach) toEntity() *model.Coach {
	return &model.Coach{
		Identity:      c.identity(),
		Audit:         c.audit(),
		Person:        c.toPerson(c.Address),
		Certification: c.Certification,
		LicenseNumber: c.LicenseNumber,
		CertifiedOn:   c.CertifiedOn,
	}
}

func (c *Coach) write(res resolver, in model.CoachInput) error {
	if err := c.PersonColumns.write(res, &c.AddressID, in.PersonInput); err != nil {
		return errors.WithStack(err)
	}

	c.Address = nil
	c.Certification = in.Certification
	c.LicenseNumber = in.LicenseNumber
	c.CertifiedOn = in.CertifiedOn

	return nil
}

func (c *Coach) exportFields() fixture.Fields {
	fields := fixture.Fields{
		"certification":  c.Certification,
		"license_number": c.LicenseNumber,
		"certified_on":   fixture.FormatOptionalTime(c.CertifiedOn),
	}
	c.Envelope.exportFields(fields)
	c.PersonColumns.exportFields(fields, c.AddressID)
	return fields
}

func (c *Coach) importFields(key uint, fields fixture.Fields) error {
	if err := c.Envelope.importFields(key, fields); err != nil {
		return errors.WithStack(err)
	}

	if err := c.PersonColumns.importFields(fields, &c.AddressID); err != nil {
		return errors.WithStack(err)
	}

	err := importStrings(fields, map[string]*string{
		"certification":  &c.Certification,
		"license_number": &c.LicenseNumber,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	if c.CertifiedOn, err = fields.OptionalTime("certified_on"); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

type coachCollection = collection[Coach, *Coach, model.Coach, model.CoachInput, model.CoachPatch, port.PersonFilter]

func newCoachCollection(store *Store) *coachCollection {
	return newCollection[Coach, *Coach](store, collectionSpec[Coach, model.Coach, model.CoachInput, model.CoachPatch, port.PersonFilter]{
		Name:     "coach",
		Preloads: []string{"Address"},
		ToEntity: (*Coach).toEntity,
		ToInput:  (*model.Coach).Input,
		Write:    (*Coach).write,
		Filter:   personFilter("coaches"),
		Options:  personOptions,
		Referrers: []referrer{
			{Table: "training_coaches", Column: "coach_id"},
			{Table: "competition_coaches", Column: "coach_id"},
		},
	})
}

var _ port.CoachRepository = &coachCollection{}
