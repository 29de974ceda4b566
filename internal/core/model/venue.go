package model

type VenueType string

const (
	VenueTypeStadium   VenueType = "stadium"
	VenueTypeGymnasium VenueType = "gymnasium"
	VenueTypeTrack     VenueType = "track"
	VenueTypeField     VenueType = "field"
)

var VenueTypes = []VenueType{
	VenueTypeStadium,
	VenueTypeGymnasium,
	VenueTypeTrack,
	VenueTypeField,
}

func (t VenueType) Valid() bool {
	for _, v := range VenueTypes {
		if v == t {
			return true
		}
	}
	return false
}

type Venue struct {
	Identity
	Audit

	Name     string    `json:"name"`
	Type     VenueType `json:"type"`
	Capacity *int      `json:"capacity,omitempty"`
	Address  *PublicID `json:"address,omitempty"`
}

func (v *Venue) Input() VenueInput {
	return VenueInput{
		Name:     v.Name,
		Type:     v.Type,
		Capacity: v.Capacity,
		Address:  v.Address,
	}
}

type VenueInput struct {
	Name     string    `json:"name" validate:"notblank"`
	Type     VenueType `json:"type" validate:"oneof=stadium gymnasium track field"`
	Capacity *int      `json:"capacity" validate:"omitnil,gte=0"`
	Address  *PublicID `json:"address" validate:"omitnil,notblank"`
}

func (in VenueInput) Validate() error {
	return validateStruct(in)
}

type VenuePatch struct {
	Name     Optional[string]    `json:"name"`
	Type     Optional[VenueType] `json:"type"`
	Capacity Optional[*int]      `json:"capacity"`
	Address  Optional[*PublicID] `json:"address"`
}

func (p VenuePatch) Apply(in *VenueInput) {
	p.Name.ApplyTo(&in.Name)
	p.Type.ApplyTo(&in.Type)
	p.Capacity.ApplyTo(&in.Capacity)
	p.Address.ApplyTo(&in.Address)
}
