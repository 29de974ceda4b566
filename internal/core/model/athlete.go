package model

type Athlete struct {
	Identity
	Audit
	Person

	HeightCm     *int     `json:"heightCm,omitempty"`
	WeightKg     *float64 `json:"weightKg,omitempty"`
	JerseyNumber *int     `json:"jerseyNumber,omitempty"`
	Position     string   `json:"position,omitempty"`
}

func (a *Athlete) Input() AthleteInput {
	return AthleteInput{
		PersonInput:  a.Person.Input(),
		HeightCm:     a.HeightCm,
		WeightKg:     a.WeightKg,
		JerseyNumber: a.JerseyNumber,
		Position:     a.Position,
	}
}

type AthleteInput struct {
	PersonInput

	HeightCm     *int     `json:"heightCm" validate:"omitnil,gt=0"`
	WeightKg     *float64 `json:"weightKg" validate:"omitnil,gt=0"`
	JerseyNumber *int     `json:"jerseyNumber" validate:"omitnil,gte=0"`
	Position     string   `json:"position"`
}

func (in AthleteInput) Validate() error {
	return validateStruct(in)
}

type AthletePatch struct {
	PersonPatch

	HeightCm     Optional[*int]     `json:"heightCm"`
	WeightKg     Optional[*float64] `json:"weightKg"`
	JerseyNumber Optional[*int]     `json:"jerseyNumber"`
	Position     Optional[string]   `json:"position"`
}

func (p AthletePatch) Apply(in *AthleteInput) {
	p.PersonPatch.Apply(&in.PersonInput)
	p.HeightCm.ApplyTo(&in.HeightCm)
	p.WeightKg.ApplyTo(&in.WeightKg)
	p.JerseyNumber.ApplyTo(&in.JerseyNumber)
	p.Position.ApplyTo(&in.Position)
}
