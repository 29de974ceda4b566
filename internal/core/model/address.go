package model

type Address struct {
	Identity
	Audit

	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region,omitempty"`
	Country    string `json:"country"`
}

func (a *Address) Input() AddressInput {
	return AddressInput{
		Line1:      a.Line1,
		Line2:      a.Line2,
		PostalCode: a.PostalCode,
		City:       a.City,
		Region:     a.Region,
		Country:    a.Country,
	}
}

// AddressInput holds every editable field of an Address.
type AddressInput struct {
	Line1      string `json:"line1" validate:"notblank"`
	Line2      string `json:"line2"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city" validate:"notblank"`
	Region     string `json:"region"`
	Country    string `json:"country" validate:"notblank"`
}

func (in AddressInput) Validate() error {
	return validateStruct(in)
}

type AddressPatch struct {
	Line1      Optional[string] `json:"line1"`
	Line2      Optional[string] `json:"line2"`
	PostalCode Optional[string] `json:"postalCode"`
	City       Optional[string] `json:"city"`
	Region     Optional[string] `json:"region"`
	Country    Optional[string] `json:"country"`
}

func (p AddressPatch) Apply(in *AddressInput) {
	p.Line1.ApplyTo(&in.Line1)
	p.Line2.ApplyTo(&in.Line2)
	p.PostalCode.ApplyTo(&in.PostalCode)
	p.City.ApplyTo(&in.City)
	p.Region.ApplyTo(&in.Region)
	p.Country.ApplyTo(&in.Country)
}
