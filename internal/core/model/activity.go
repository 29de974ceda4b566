package model

import "time"

type ActivityKind string

const (
	ActivityKindTraining    ActivityKind = "training"
	ActivityKindCompetition ActivityKind = "competition"
)

// Activity is the shape shared by trainings and competitions. Each
// variant is stored in its own collection.
type Activity struct {
	Name     string     `json:"name"`
	Date     time.Time  `json:"date"`
	Venue    *PublicID  `json:"venue"`
	Season   PublicID   `json:"season"`
	Coaches  []PublicID `json:"coaches"`
	Athletes []PublicID `json:"athletes"`
}

// Common returns the shared part of an activity variant.
func (a *Activity) Common() *Activity {
	return a
}

func (a *Activity) Input() ActivityInput {
	return ActivityInput{
		Name:     a.Name,
		Date:     a.Date,
		Venue:    a.Venue,
		Season:   a.Season,
		Coaches:  append([]PublicID(nil), a.Coaches...),
		Athletes: append([]PublicID(nil), a.Athletes...),
	}
}

// ActivityView is the merged view over activity variants: either a
// *Training or a *Competition.
type ActivityView interface {
	Record
	Kind() ActivityKind
	Common() *Activity
}

type ActivityInput struct {
	Name     string     `json:"name" validate:"notblank"`
	Date     time.Time  `json:"date" validate:"required"`
	Venue    *PublicID  `json:"venue" validate:"omitnil,notblank"`
	Season   PublicID   `json:"season" validate:"required"`
	Coaches  []PublicID `json:"coaches" validate:"unique,dive,notblank"`
	Athletes []PublicID `json:"athletes" validate:"unique,dive,notblank"`
}

type ActivityPatch struct {
	Name     Optional[string]     `json:"name"`
	Date     Optional[time.Time]  `json:"date"`
	Venue    Optional[*PublicID]  `json:"venue"`
	Season   Optional[PublicID]   `json:"season"`
	Coaches  Optional[[]PublicID] `json:"coaches"`
	Athletes Optional[[]PublicID] `json:"athletes"`
}

func (p ActivityPatch) Apply(in *ActivityInput) {
	p.Name.ApplyTo(&in.Name)
	p.Date.ApplyTo(&in.Date)
	p.Venue.ApplyTo(&in.Venue)
	p.Season.ApplyTo(&in.Season)
	p.Coaches.ApplyTo(&in.Coaches)
	p.Athletes.ApplyTo(&in.Athletes)
}
