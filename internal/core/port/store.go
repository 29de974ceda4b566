package port

import (
	"context"
	"time"

	"github.com/bornholm/clubhouse/internal/core/model"
)

// Repository is the contract exposed by every entity collection. E is the
// entity, I its full input, P its partial input and F its list filter.
//
// Every read goes through the default scope: soft-deleted records behave
// as if they did not exist. Unrestricted returns the explicit accessor
// reading every record regardless of its deletion state.
type Repository[E any, I any, P any, F any] interface {
	// List returns the active records matching the filter, ordered by
	// insertion.
	List(ctx context.Context, filter F) ([]*E, error)
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, id model.PublicID) (bool, error)

	// Get returns the active record with the given public id, or ErrNotFound.
	Get(ctx context.Context, id model.PublicID) (*E, error)

	// Create assigns the identity and audit envelope of a new record.
	Create(ctx context.Context, input I) (*E, error)

	// Replace overwrites every editable field, optional fields omitted from
	// the input being reset to their default.
	Replace(ctx context.Context, id model.PublicID, input I) (*E, error)

	// Patch only changes the fields set in the given partial input.
	Patch(ctx context.Context, id model.PublicID, patch P) (*E, error)

	// SoftDelete marks the record as deleted. It is idempotent.
	SoftDelete(ctx context.Context, id model.PublicID) error

	// SoftDeleteActive marks an active record as deleted, failing with
	// ErrNotFound when the record is already deleted.
	SoftDeleteActive(ctx context.Context, id model.PublicID) error

	// Restore clears the deletion mark of a record. It is idempotent.
	Restore(ctx context.Context, id model.PublicID) (*E, error)

	// HardDelete permanently removes the record. It fails with ErrConflict
	// while any other record still references it.
	HardDelete(ctx context.Context, id model.PublicID) error

	Unrestricted() UnrestrictedReader[E, F]
}

// UnrestrictedReader reads records regardless of their deletion state.
type UnrestrictedReader[E any, F any] interface {
	List(ctx context.Context, filter F) ([]*E, error)
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, id model.PublicID) (bool, error)
	Get(ctx context.Context, id model.PublicID) (*E, error)
}

type QueryOptions struct {
	Page  *int
	Limit *int
}

type AddressFilter struct {
	QueryOptions
	City    string
	Country string
}

type PersonFilter struct {
	QueryOptions
	LastName string
}

type VenueFilter struct {
	QueryOptions
	Type *model.VenueType
}

type SeasonFilter struct {
	QueryOptions
	// Containing restricts to the seasons including this date.
	Containing *time.Time
}

type (
	AddressRepository     = Repository[model.Address, model.AddressInput, model.AddressPatch, AddressFilter]
	AthleteRepository     = Repository[model.Athlete, model.AthleteInput, model.AthletePatch, PersonFilter]
	CoachRepository       = Repository[model.Coach, model.CoachInput, model.CoachPatch, PersonFilter]
	VenueRepository       = Repository[model.Venue, model.VenueInput, model.VenuePatch, VenueFilter]
	SeasonRepository      = Repository[model.Season, model.SeasonInput, model.SeasonPatch, SeasonFilter]
	TrainingRepository    = Repository[model.Training, model.TrainingInput, model.TrainingPatch, ActivityFilter]
	CompetitionRepository = Repository[model.Competition, model.CompetitionInput, model.CompetitionPatch, ActivityFilter]
)

// Store gives access to every collection of the club.
type Store interface {
	Addresses() AddressRepository
	Athletes() AthleteRepository
	Coaches() CoachRepository
	Venues() VenueRepository
	Seasons() SeasonRepository
	Trainings() TrainingActivityRepository
	Competitions() CompetitionActivityRepository
}

// TrainingActivityRepository is a TrainingRepository also usable as a
// source of the merged activity timeline.
type TrainingActivityRepository interface {
	TrainingRepository
	ActivitySource
}

type CompetitionActivityRepository interface {
	CompetitionRepository
	ActivitySource
}
