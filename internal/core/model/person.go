package model

import "time"

// Person is the shape shared by athletes and coaches. It is never stored
// on its own.
type Person struct {
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	BirthDate *time.Time `json:"birthDate,omitempty"`
	Address   *PublicID  `json:"address,omitempty"`
}

func (p *Person) Input() PersonInput {
	return PersonInput{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
		BirthDate: p.BirthDate,
		Address:   p.Address,
	}
}

type PersonInput struct {
	FirstName string     `json:"firstName" validate:"notblank"`
	LastName  string     `json:"lastName" validate:"notblank"`
	Email     string     `json:"email" validate:"omitempty,email"`
	Phone     string     `json:"phone"`
	BirthDate *time.Time `json:"birthDate"`
	Address   *PublicID  `json:"address" validate:"omitnil,notblank"`
}

type PersonPatch struct {
	FirstName Optional[string]     `json:"firstName"`
	LastName  Optional[string]     `json:"lastName"`
	Email     Optional[string]     `json:"email"`
	Phone     Optional[string]     `json:"phone"`
	BirthDate Optional[*time.Time] `json:"birthDate"`
	Address   Optional[*PublicID]  `json:"address"`
}

func (p PersonPatch) Apply(in *PersonInput) {
	p.FirstName.ApplyTo(&in.FirstName)
	p.LastName.ApplyTo(&in.LastName)
	p.Email.ApplyTo(&in.Email)
	p.Phone.ApplyTo(&in.Phone)
	p.BirthDate.ApplyTo(&in.BirthDate)
	p.Address.ApplyTo(&in.Address)
}
