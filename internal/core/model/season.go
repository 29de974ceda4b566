package model

import "time"

// Season groups activities over a bounded period of time.
type Season struct {
	Identity
	Audit

	Name     string    `json:"name"`
	StartsOn time.Time `json:"startsOn"`
	EndsOn   time.Time `json:"endsOn"`
}

// Contains reports whether t falls within the season bounds, both included.
func (s *Season) Contains(t time.Time) bool {
	return !t.Before(s.StartsOn) && !t.After(s.EndsOn)
}

func (s *Season) Input() SeasonInput {
	return SeasonInput{
		Name:     s.Name,
		StartsOn: s.StartsOn,
		EndsOn:   s.EndsOn,
	}
}

type SeasonInput struct {
	Name     string    `json:"name" validate:"notblank"`
	StartsOn time.Time `json:"startsOn" validate:"required"`
	EndsOn   time.Time `json:"endsOn" validate:"required,gtefield=StartsOn"`
}

func (in SeasonInput) Validate() error {
	return validateStruct(in)
}

type SeasonPatch struct {
	Name     Optional[string]    `json:"name"`
	StartsOn Optional[time.Time] `json:"startsOn"`
	EndsOn   Optional[time.Time] `json:"endsOn"`
}

func (p SeasonPatch) Apply(in *SeasonInput) {
	p.Name.ApplyTo(&in.Name)
	p.StartsOn.ApplyTo(&in.StartsOn)
	p.EndsOn.ApplyTo(&in.EndsOn)
}
