package gorm

import (
	"time"

	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/bornholm/clubhouse/internal/core/port"
	"github.com/bornholm/clubhouse/internal/fixture"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PersonColumns are the columns shared by athletes and coaches.
type PersonColumns struct {
	FirstName string `gorm:"not null"`
	LastName  string `gorm:"not null;index"`
	Email     string
	Phone     string
	BirthDate *time.Time
}

func (p *PersonColumns) toPerson(address *Address) model.Person {
	person := model.Person{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
		BirthDate: p.BirthDate,
	}

	if address != nil {
		id := model.PublicID(address.PublicID)
		person.Address = &id
	}

	return person
}

func (p *PersonColumns) write(res resolver, addressID **uint, in model.PersonInput) error {
	p.FirstName = in.FirstName
	p.LastName = in.LastName
	p.Email = in.Email
	p.Phone = in.Phone
	p.BirthDate = in.BirthDate

	key, err := reference[Address](res, "address", *addressID, in.Address)
	if err != nil {
		return errors.WithStack(err)
	}

	*addressID = key

	return nil
}

func (p *PersonColumns) exportFields(fields fixture.Fields, addressID *uint) {
	fields["first_name"] = p.FirstName
	fields["last_name"] = p.LastName
	fields["email"] = p.Email
	fields["phone"] = p.Phone
	fields["birth_date"] = fixture.FormatOptionalTime(p.BirthDate)
	fields["address"] = fixture.OptionalValue(addressID)
}

func (p *PersonColumns) importFields(fields fixture.Fields, addressID **uint) error {
	err := importStrings(fields, map[string]*string{
		"first_name": &p.FirstName,
		"last_name":  &p.LastName,
		"email":      &p.Email,
		"phone":      &p.Phone,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	if p.BirthDate, err = fields.OptionalTime("birth_date"); err != nil {
		return errors.WithStack(err)
	}

	if *addressID, err = fields.OptionalKey("address"); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func personFilter(table string) func(filter port.PersonFilter) scope {
	return func(filter port.PersonFilter) scope {
		return func(db *gorm.DB) *gorm.DB {
			if filter.LastName != "" {
				db = db.Where(table+".last_name = ?", filter.LastName)
			}
			return db
		}
	}
}

func personOptions(filter port.PersonFilter) port.QueryOptions {
	return filter.QueryOptions
}
