package gorm

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bornholm/clubhouse/internal/core/port"
	"github.com/bornholm/clubhouse/internal/identifier"
	"github.com/jonboulle/clockwork"
	"github.com/ncruces/go-sqlite3"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Store struct {
	getDatabase func(ctx context.Context) (*gorm.DB, error)

	clock       clockwork.Clock
	identifiers identifier.Generator

	maxIdentifierAttempts int
	maxRetries            int
	baseBackoff           time.Duration

	addresses    *addressCollection
	athletes     *athleteCollection
	coaches      *coachCollection
	venues       *venueCollection
	seasons      *seasonCollection
	trainings    *trainingCollection
	competitions *competitionCollection
}

// Addresses implements port.Store.
func (s *Store) Addresses() port.AddressRepository {
	return s.addresses
}

// Athletes implements port.Store.
func (s *Store) Athletes() port.AthleteRepository {
	return s.athletes
}

// Coaches implements port.Store.
func (s *Store) Coaches() port.CoachRepository {
	return s.coaches
}

// Venues implements port.Store.
func (s *Store) Venues() port.VenueRepository {
	return s.venues
}

// Seasons implements port.Store.
func (s *Store) Seasons() port.SeasonRepository {
	return s.seasons
}

// Trainings implements port.Store.
func (s *Store) Trainings() port.TrainingActivityRepository {
	return s.trainings
}

// Competitions implements port.Store.
func (s *Store) Competitions() port.CompetitionActivityRepository {
	return s.competitions
}

func NewStore(db *gorm.DB, funcs ...OptionFunc) (*Store, error) {
	opts, err := NewOptions(funcs...)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	store := &Store{
		getDatabase:           createGetDatabase(db),
		clock:                 opts.Clock,
		identifiers:           opts.Identifiers,
		maxIdentifierAttempts: opts.MaxIdentifierAttempts,
		maxRetries:            opts.MaxRetries,
		baseBackoff:           opts.BaseBackoff,
	}

	store.addresses = newAddressCollection(store)
	store.athletes = newAthleteCollection(store)
	store.coaches = newCoachCollection(store)
	store.venues = newVenueCollection(store)
	store.seasons = newSeasonCollection(store)
	store.trainings = newTrainingCollection(store)
	store.competitions = newCompetitionCollection(store)

	return store, nil
}

var _ port.Store = &Store{}

// withRetry executes fn, retrying it with an exponential backoff while it
// fails with one of the given sqlite error codes. Errors that are not
// business outcomes are returned as port.StoreError.
func (s *Store) withRetry(ctx context.Context, fn func(ctx context.Context, db *gorm.DB) error, codes ...sqlite3.ErrorCode) error {
	db, err := s.getDatabase(ctx)
	if err != nil {
		return port.NewStoreError(err)
	}

	backoff := s.baseBackoff

	for attempt := 0; ; attempt++ {
		err = fn(ctx, db.WithContext(ctx))
		if err == nil {
			return nil
		}

		if port.IsBusinessError(err) {
			return err
		}

		if attempt >= s.maxRetries || !isRetryable(err, codes) {
			return port.NewStoreError(err)
		}

		slog.DebugContext(ctx, "database busy, retrying", slog.Int("attempt", attempt+1), slog.Duration("backoff", backoff))

		select {
		case <-ctx.Done():
			return port.NewStoreError(errors.WithStack(ctx.Err()))
		case <-s.clock.After(backoff):
		}

		backoff *= 2
	}
}

// withTransaction is withRetry with fn running inside a single transaction.
func (s *Store) withTransaction(ctx context.Context, fn func(ctx context.Context, tx *gorm.DB) error) error {
	return s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			return fn(ctx, tx)
		})
	}, sqlite3.BUSY, sqlite3.LOCKED)
}

func isRetryable(err error, codes []sqlite3.ErrorCode) bool {
	for _, c := range codes {
		if errors.Is(err, c) {
			return true
		}
	}
	return false
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, sqlite3.CONSTRAINT_UNIQUE) || errors.Is(err, sqlite3.CONSTRAINT_PRIMARYKEY) || errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKeyViolation(err error) bool {
	return errors.Is(err, sqlite3.CONSTRAINT_FOREIGNKEY) || errors.Is(err, gorm.ErrForeignKeyViolated)
}

func createGetDatabase(db *gorm.DB) func(ctx context.Context) (*gorm.DB, error) {
	var (
		migrateOnce sync.Once
		migrateErr  error
	)

	return func(ctx context.Context) (*gorm.DB, error) {
		migrateOnce.Do(func() {
			models := []any{
				&Address{},
				&Athlete{},
				&Coach{},
				&Venue{},
				&Season{},
				&Training{},
				&TrainingCoach{},
				&TrainingAthlete{},
				&Competition{},
				&CompetitionCoach{},
				&CompetitionAthlete{},
			}

			if err := db.AutoMigrate(models...); err != nil {
				migrateErr = errors.WithStack(err)
				return
			}
		})
		if migrateErr != nil {
			return nil, errors.WithStack(migrateErr)
		}

		return db, nil
	}
}
