package model

import "time"

type Coach struct {
	Identity
	Audit
	Person

	Certification string     `json:"certification,omitempty"`
	LicenseNumber string     `json:"licenseNumber,omitempty"`
	CertifiedOn   *time.Time `json:"certifiedOn,omitempty"`
}

func (c *Coach) Input() CoachInput {
	return CoachInput{
		PersonInput:   c.Person.Input(),
		Certification: c.Certification,
		LicenseNumber: c.LicenseNumber,
		CertifiedOn:   c.CertifiedOn,
	}
}

type CoachInput struct {
	PersonInput

	Certification string     `json:"certification" validate:"required_with=CertifiedOn"`
	LicenseNumber string     `json:"licenseNumber"`
	CertifiedOn   *time.Time `json:"certifiedOn"`
}

func (in CoachInput) Validate() error {
	return validateStruct(in)
}

type CoachPatch struct {
	PersonPatch

	Certification Optional[string]     `json:"certification"`
	LicenseNumber Optional[string]     `json:"licenseNumber"`
	CertifiedOn   Optional[*time.Time] `json:"certifiedOn"`
}

func (p CoachPatch) Apply(in *CoachInput) {
	p.PersonPatch.Apply(&in.PersonInput)
	p.Certification.ApplyTo(&in.Certification)
	p.LicenseNumber.ApplyTo(&in.LicenseNumber)
	p.CertifiedOn.ApplyTo(&in.CertifiedOn)
}
