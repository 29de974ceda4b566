package gorm

import (
	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/bornholm/clubhouse/internal/core/port"
	"github.com/bornholm/clubhouse/internal/fixture"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Venue struct {
	Envelope

	Name     string `gorm:"not null"`
	Type     string `gorm:"not null;index"`
	Capacity *int

	AddressID *uint
	Address   *Address `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}

func (v *Venue) toEntity() *model.Venue {
	venue := &model.Venue{
		Identity: v.identity(),
		Audit:    v.audit(),
		Name:     v.Name,
		Type:     model.VenueType(v.Type),
		Capacity: v.Capacity,
	}

	if v.Address != nil {
		id := model.PublicID(v.Address.PublicID)
		venue.Address = &id
	}

	return venue
}

func (v *Venue) write(res resolver, in model.VenueInput) error {
	key, err := reference[Address](res, "address", v.AddressID, in.Address)
	if err != nil {
		return errors.WithStack(err)
	}

	v.Name = in.Name
	v.Type = string(in.Type)
	v.Capacity = in.Capacity
	v.AddressID = key
	v.Address = nil

	return nil
}

func (v *Venue) exportFields() fixture.Fields {
	fields := fixture.Fields{
		"name":     v.Name,
		"type":     v.Type,
		"capacity": fixture.OptionalValue(v.Capacity),
		"address":  fixture.OptionalValue(v.AddressID),
	}
	v.Envelope.exportFields(fields)
	return fields
}

func (v *Venue) importFields(key uint, fields fixture.Fields) error {
	if err := v.Envelope.importFields(key, fields); err != nil {
		return errors.WithStack(err)
	}

	err := importStrings(fields, map[string]*string{
		"name": &v.Name,
		"type": &v.Type,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	if !model.VenueType(v.Type).Valid() {
		return errors.Wrapf(fixture.ErrInvalidField, "'type': unknown venue type '%s'", v.Type)
	}

	if v.Capacity, err = fields.OptionalInt("capacity"); err != nil {
		return errors.WithStack(err)
	}

	if v.AddressID, err = fields.OptionalKey("address"); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

type venueCollection = collection[Venue, *Venue, model.Venue, model.VenueInput, model.VenuePatch, port.VenueFilter]

func newVenueCollection(store *Store) *venueCollection {
	return newCollection[Venue, *Venue](store, collectionSpec[Venue, model.Venue, model.VenueInput, model.VenuePatch, port.VenueFilter]{
		Name:     "venue",
		Preloads: []string{"Address"},
		ToEntity: (*Venue).toEntity,
		ToInput:  (*model.Venue).Input,
		Write:    (*Venue).write,
		Filter: func(filter port.VenueFilter) scope {
			return func(db *gorm.DB) *gorm.DB {
				if filter.Type != nil {
					db = db.Where("venues.type = ?", string(*filter.Type))
				}
				return db
			}
		},
		Options: func(filter port.VenueFilter) port.QueryOptions {
			return filter.QueryOptions
		},
		Referrers: []referrer{
			{Table: "trainings", Column: "venue_id"},
			{Table: "competitions", Column: "venue_id"},
		},
	})
}

var _ port.VenueRepository = &venueCollection{}
