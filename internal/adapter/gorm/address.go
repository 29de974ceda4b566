package gorm

import (
	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/bornholm/clubhouse/internal/core/port"
	"github.com/bornholm/clubhouse/internal/fixture"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Address struct {
	Envelope

	Line1      string `gorm:"not null"`
	Line2      string
	PostalCode string
	City       string `gorm:"not null;index"`
	Region     string
	Country    string `gorm:"not null;index"`
}

func (a *Address) toEntity() *model.Address {
	return &model.Address{
		Identity:   a.identity(),
		Audit:      a.audit(),
		Line1:      a.Line1,
		Line2:      a.Line2,
		PostalCode: a.PostalCode,
		City:       a.City,
		Region:     a.Region,
		Country:    a.Country,
	}
}

func (a *Address) write(_ resolver, in model.AddressInput) error {
	a.Line1 = in.Line1
	a.Line2 = in.Line2
	a.PostalCode = in.PostalCode
	a.City = in.City
	a.Region = in.Region
	a.Country = in.Country
	return nil
}

func (a *Address) exportFields() fixture.Fields {
	fields := fixture.Fields{
		"line1":       a.Line1,
		"line2":       a.Line2,
		"postal_code": a.PostalCode,
		"city":        a.City,
		"region":      a.Region,
		"country":     a.Country,
	}
	a.Envelope.exportFields(fields)
	return fields
}

func (a *Address) importFields(key uint, fields fixture.Fields) error {
	if err := a.Envelope.importFields(key, fields); err != nil {
		return errors.WithStack(err)
	}

	return importStrings(fields, map[string]*string{
		"line1":       &a.Line1,
		"line2":       &a.Line2,
		"postal_code": &a.PostalCode,
		"city":        &a.City,
		"region":      &a.Region,
		"country":     &a.Country,
	})
}

type addressCollection = collection[Address, *Address, model.Address, model.AddressInput, model.AddressPatch, port.AddressFilter]

func newAddressCollection(store *Store) *addressCollection {
	return newCollection[Address, *Address](store, collectionSpec[Address, model.Address, model.AddressInput, model.AddressPatch, port.AddressFilter]{
		Name:     "address",
		ToEntity: (*Address).toEntity,
		ToInput:  (*model.Address).Input,
		Write:    (*Address).write,
		Filter: func(filter port.AddressFilter) scope {
			return func(db *gorm.DB) *gorm.DB {
				if filter.City != "" {
					db = db.Where("addresses.city = ?", filter.City)
				}
				if filter.Country != "" {
					db = db.Where("addresses.country = ?", filter.Country)
				}
				return db
			}
		},
		Options: func(filter port.AddressFilter) port.QueryOptions {
			return filter.QueryOptions
		},
		Referrers: []referrer{
			{Table: "athletes", Column: "address_id"},
			{Table: "coaches", Column: "address_id"},
			{Table: "venues", Column: "address_id"},
		},
	})
}

var _ port.AddressRepository = &addressCollection{}

func importStrings(fields fixture.Fields, targets map[string]*string) error {
	for name, target := range targets {
		value, err := fields.String(name)
		if err != nil {
			return errors.WithStack(err)
		}
		*target = value
	}
	return nil
}
