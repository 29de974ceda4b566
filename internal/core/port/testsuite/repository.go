package testsuite

import (
	"bytes"
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/bornholm/clubhouse/internal/core/port"
	"github.com/bornholm/clubhouse/internal/core/service"
	"github.com/bornholm/clubhouse/internal/fixture"
	"github.com/bornholm/clubhouse/internal/identifier"
	"github.com/davecgh/go-spew/spew"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
)

// Store is the subject of the suite: every collection of the club plus
// fixture export and import.
type Store interface {
	port.Store
	port.FixtureStore
}

// StoreFactory creates an empty store reading time from the given clock.
// When generator is nil, the store uses its default identifier generator.
type StoreFactory func(t *testing.T, clock clockwork.Clock, generator identifier.Generator) (Store, error)

type testContext struct {
	clock     *clockwork.FakeClock
	generator identifier.Generator
	factory   StoreFactory
}

func (c *testContext) newStore(t *testing.T) Store {
	store, err := c.factory(t, c.clock, c.generator)
	if err != nil {
		t.Fatalf("could not create store: %+v", errors.WithStack(err))
	}
	return store
}

var epoch = time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

func TestRepositories(t *testing.T, factory StoreFactory) {
	type testCase struct {
		Name      string
		Generator func() identifier.Generator
		Run       func(t *testing.T, ctx context.Context, tc *testContext, store Store) error
	}

	testCases := []testCase{
		{
			Name: "AddressLifecycle",
			Run:  testAddressLifecycle,
		},
		{
			Name: "RestoreActiveRecord",
			Run:  testRestoreActiveRecord,
		},
		{
			Name: "SoftDeleteActive",
			Run:  testSoftDeleteActive,
		},
		{
			Name: "MalformedIdentifiers",
			Generator: func() identifier.Generator {
				return identifier.UUIDGenerator{}
			},
			Run: testMalformedIdentifiers,
		},
		{
			Name: "PatchVersusReplace",
			Run:  testPatchVersusReplace,
		},
		{
			Name: "ReferenceValidation",
			Run:  testReferenceValidation,
		},
		{
			Name: "HardDeleteRestrict",
			Run:  testHardDeleteRestrict,
		},
		{
			Name: "ListFilters",
			Run:  testListFilters,
		},
		{
			Name: "ActivityTimeline",
			Run:  testActivityTimeline,
		},
		{
			Name: "ActivityFilters",
			Run:  testActivityFilters,
		},
		{
			Name: "IdentifierCollision",
			Generator: func() identifier.Generator {
				return &ScriptedGenerator{IDs: []model.PublicID{"AAAAAAAAAAAAAAAA", "AAAAAAAAAAAAAAAA", "BBBBBBBBBBBBBBBB"}}
			},
			Run: testIdentifierCollision,
		},
		{
			Name: "IdentifierExhaustion",
			Generator: func() identifier.Generator {
				return &ScriptedGenerator{IDs: []model.PublicID{"AAAAAAAAAAAAAAAA"}, Repeat: true}
			},
			Run: testIdentifierExhaustion,
		},
		{
			Name: "FixtureRoundTrip",
			Run:  testFixtureRoundTrip,
		},
		{
			Name: "FixtureImportErrors",
			Run:  testFixtureImportErrors,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			ctx := context.Background()

			testCtx := &testContext{
				clock:   clockwork.NewFakeClockAt(epoch),
				factory: factory,
			}

			if tc.Generator != nil {
				testCtx.generator = tc.Generator()
			}

			store := testCtx.newStore(t)

			if err := tc.Run(t, ctx, testCtx, store); err != nil {
				t.Fatalf("could not run test: %+v", errors.WithStack(err))
			}
		})
	}
}

// ScriptedGenerator returns predefined identifiers in order. Once the
// script is consumed, it repeats the last identifier when Repeat is set and
// fails otherwise.
type ScriptedGenerator struct {
	IDs    []model.PublicID
	Repeat bool

	mutex sync.Mutex
	next  int
}

// Generate implements identifier.Generator.
func (g *ScriptedGenerator) Generate() (model.PublicID, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if g.next >= len(g.IDs) {
		if g.Repeat && len(g.IDs) > 0 {
			return g.IDs[len(g.IDs)-1], nil
		}
		return "", errors.New("identifier script exhausted")
	}

	id := g.IDs[g.next]
	g.next++

	return id, nil
}

// Validate implements identifier.Generator.
func (g *ScriptedGenerator) Validate(id model.PublicID) error {
	return nil
}

var _ identifier.Generator = &ScriptedGenerator{}

func palma() model.AddressInput {
	return model.AddressInput{
		Line1:   "Av. de Jaume III, 15",
		City:    "Palma",
		Country: "Spain",
	}
}

func expectError(t *testing.T, name string, err error, target error) {
	t.Helper()

	if !errors.Is(err, target) {
		t.Errorf("%s: expected %v, got %+v", name, target, err)
	}
}

func expectFieldError(t *testing.T, name string, err error, field string) {
	t.Helper()

	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("%s: expected validation error, got %+v", name, err)
		return
	}

	if e, g := field, verr.Fields[0].Field; e != g {
		t.Errorf("%s: expected error on field %s, got %s", name, e, g)
	}
}

func expectFieldMessage(t *testing.T, name string, err error, field string, message string) {
	t.Helper()

	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("%s: expected validation error, got %+v", name, err)
		return
	}

	if e, g := (model.FieldError{Field: field, Message: message}), verr.Fields[0]; e != g {
		t.Errorf("%s: expected %+v, got %+v", name, e, g)
	}
}

func testSoftDeleteActive(t *testing.T, ctx context.Context, tc *testContext, store Store) error {
	addresses := store.Addresses()

	created, err := addresses.Create(ctx, palma())
	if err != nil {
		return errors.WithStack(err)
	}

	tc.clock.Advance(time.Hour)

	if err := addresses.SoftDeleteActive(ctx, created.PublicID); err != nil {
		return errors.WithStack(err)
	}

	tc.clock.Advance(time.Hour)

	expectError(t, "addresses.SoftDeleteActive", addresses.SoftDeleteActive(ctx, created.PublicID), port.ErrNotFound)

	deleted, err := addresses.Unrestricted().Get(ctx, created.PublicID)
	if err != nil {
		return errors.WithStack(err)
	}

	if deleted.DeletedAt == nil {
		t.Fatalf("deleted.DeletedAt: expected non nil")
	}

	if e, g := epoch.Add(time.Hour), *deleted.DeletedAt; !e.Equal(g) {
		t.Errorf("deleted.DeletedAt: expected %v, got %v", e, g)
	}

	if e, g := epoch.Add(time.Hour), deleted.UpdatedAt; !e.Equal(g) {
		t.Errorf("deleted.UpdatedAt: expected %v, got %v", e, g)
	}

	// SoftDelete stamps a deleted record again
	if err := addresses.SoftDelete(ctx, created.PublicID); err != nil {
		return errors.WithStack(err)
	}

	deleted, err = addresses.Unrestricted().Get(ctx, created.PublicID)
	if err != nil {
		return errors.WithStack(err)
	}

	if deleted.DeletedAt == nil {
		t.Fatalf("deleted.DeletedAt: expected non nil")
	}

	if e, g := epoch.Add(2*time.Hour), *deleted.DeletedAt; !e.Equal(g) {
		t.Errorf("deleted.DeletedAt: expected %v, got %v", e, g)
	}

	missing, err := identifier.UUIDGenerator{}.Generate()
	if err != nil {
		return errors.WithStack(err)
	}

	expectError(t, "addresses.SoftDeleteActive", addresses.SoftDeleteActive(ctx, missing), port.ErrNotFound)

	return nil
}

func testMalformedIdentifiers(t *testing.T, ctx context.Context, tc *testContext, store Store) error {
	addresses := store.Addresses()

	created, err := addresses.Create(ctx, palma())
	if err != nil {
		return errors.WithStack(err)
	}

	malformed := model.PublicID("not-an-id!")

	_, err = addresses.Get(ctx, malformed)
	expectError(t, "addresses.Get", err, port.ErrNotFound)

	_, err = addresses.Unrestricted().Get(ctx, malformed)
	expectError(t, "addresses.Unrestricted().Get", err, port.ErrNotFound)

	_, err = addresses.Replace(ctx, malformed, palma())
	expectError(t, "addresses.Replace", err, port.ErrNotFound)

	_, err = addresses.Patch(ctx, malformed, model.AddressPatch{City: model.Set("Sóller")})
	expectError(t, "addresses.Patch", err, port.ErrNotFound)

	expectError(t, "addresses.SoftDelete", addresses.SoftDelete(ctx, malformed), port.ErrNotFound)
	expectError(t, "addresses.SoftDeleteActive", addresses.SoftDeleteActive(ctx, malformed), port.ErrNotFound)

	_, err = addresses.Restore(ctx, malformed)
	expectError(t, "addresses.Restore", err, port.ErrNotFound)

	expectError(t, "addresses.HardDelete", addresses.HardDelete(ctx, malformed), port.ErrNotFound)

	exists, err := addresses.Exists(ctx, malformed)
	if err != nil {
		return errors.WithStack(err)
	}

	if exists {
		t.Errorf("addresses.Exists: expected false, got true")
	}

	_, err = store.Coaches().Create(ctx, model.CoachInput{
		PersonInput: model.PersonInput{FirstName: "Toni", LastName: "Nadal", Address: &malformed},
	})
	expectFieldMessage(t, "coaches.Create", err, "address", "malformed identifier 'not-an-id!'")

	missing, err := identifier.UUIDGenerator{}.Generate()
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = store.Coaches().Create(ctx, model.CoachInput{
		PersonInput: model.PersonInput{FirstName: "Toni", LastName: "Nadal", Address: &missing},
	})
	expectFieldMessage(t, "coaches.Create", err, "address", "references an unknown record '"+missing.String()+"'")

	season, err := store.Seasons().Create(ctx, model.SeasonInput{Name: "2025", StartsOn: epoch, EndsOn: epoch.AddDate(1, 0, 0)})
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = store.Trainings().Create(ctx, model.TrainingInput{
		ActivityInput: model.ActivityInput{
			Name:    "Morning drills",
			Date:    epoch,
			Season:  season.PublicID,
			Coaches: []model.PublicID{malformed},
		},
	})
	expectFieldMessage(t, "trainings.Create", err, "coaches", "malformed identifier 'not-an-id!'")

	// Well-formed identifiers keep working
	got, err := addresses.Get(ctx, created.PublicID)
	if err != nil {
		return errors.WithStack(err)
	}

	if e, g := created.PublicID, got.PublicID; e != g {
		t.Errorf("got.PublicID: expected %v, got %v", e, g)
	}

	return nil
}

func testAddressLifecycle(t *testing.T, ctx context.Context, tc *testContext, store Store) error {
	addresses := store.Addresses()

	created, err := addresses.Create(ctx, palma())
	if err != nil {
		return errors.WithStack(err)
	}

	t.Logf("created: %s", spew.Sdump(created))

	if created.PublicID == "" {
		t.Fatalf("created.PublicID: expected non empty identifier")
	}

	if e, g := created.CreatedAt, created.UpdatedAt; !e.Equal(g) {
		t.Errorf("created.UpdatedAt: expected %v, got %v", e, g)
	}

	if e, g := epoch, created.CreatedAt; !e.Equal(g) {
		t.Errorf("created.CreatedAt: expected %v, got %v", e, g)
	}

	if created.DeletedAt != nil {
		t.Errorf("created.DeletedAt: expected nil, got %v", *created.DeletedAt)
	}

	tc.clock.Advance(time.Hour)

	if err := addresses.SoftDelete(ctx, created.PublicID); err != nil {
		return errors.WithStack(err)
	}

	active, err := addresses.List(ctx, port.AddressFilter{})
	if err != nil {
		return errors.WithStack(err)
	}

	if e, g := 0, len(active); e != g {
		t.Errorf("len(active): expected %d, got %d", e, g)
	}

	total, err := addresses.Unrestricted().Count(ctx, port.AddressFilter{})
	if err != nil {
		return errors.WithStack(err)
	}

	if e, g := int64(1), total; e != g {
		t.Errorf("unrestricted count: expected %d, got %d", e, g)
	}

	_, err = addresses.Get(ctx, created.PublicID)
	expectError(t, "addresses.Get", err, port.ErrNotFound)

	exists, err := addresses.Exists(ctx, created.PublicID)
	if err != nil {
		return errors.WithStack(err)
	}

	if exists {
		t.Errorf("addresses.Exists: expected false, got true")
	}

	deleted, err := addresses.Unrestricted().Get(ctx, created.PublicID)
	if err != nil {
		return errors.WithStack(err)
	}

	if deleted.DeletedAt == nil {
		t.Fatalf("deleted.DeletedAt: expected non nil")
	}

	if e, g := epoch.Add(time.Hour), *deleted.DeletedAt; !e.Equal(g) {
		t.Errorf("deleted.DeletedAt: expected %v, got %v", e, g)
	}

	if _, err := addresses.Patch(ctx, created.PublicID, model.AddressPatch{City: model.Set("Sóller")}); !errors.Is(err, port.ErrNotFound) {
		t.Errorf("addresses.Patch: expected %v, got %+v", port.ErrNotFound, err)
	}

	// Soft deleting twice is not an error
	if err := addresses.SoftDelete(ctx, created.PublicID); err != nil {
		return errors.WithStack(err)
	}

	tc.clock.Advance(time.Hour)

	restored, err := addresses.Restore(ctx, created.PublicID)
	if err != nil {
		return errors.WithStack(err)
	}

	if restored.DeletedAt != nil {
		t.Errorf("restored.DeletedAt: expected nil, got %v", *restored.DeletedAt)
	}

	if e, g := created.PublicID, restored.PublicID; e != g {
		t.Errorf("restored.PublicID: expected %v, got %v", e, g)
	}

	if e, g := epoch.Add(2*time.Hour), restored.UpdatedAt; !e.Equal(g) {
		t.Errorf("restored.UpdatedAt: expected %v, got %v", e, g)
	}

	active, err = addresses.List(ctx, port.AddressFilter{})
	if err != nil {
		return errors.WithStack(err)
	}

	if e, g := 1, len(active); e != g {
		t.Fatalf("len(active): expected %d, got %d", e, g)
	}

	if e, g := created.PublicID, active[0].PublicID; e != g {
		t.Errorf("active[0].PublicID: expected %v, got %v", e, g)
	}

	if e, g := "Palma", active[0].City; e != g {
		t.Errorf("active[0].City: expected %v, got %v", e, g)
	}

	expectError(t, "addresses.SoftDelete", addresses.SoftDelete(ctx, "unknown"), port.ErrNotFound)

	return nil
}

func testRestoreActiveRecord(t *testing.T, ctx context.Context, tc *testContext, store Store) error {
	seasons := store.Seasons()

	season, err := seasons.Create(ctx, model.SeasonInput{
		Name:     "2025",
		StartsOn: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndsOn:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	tc.clock.Advance(time.Minute)

	restored, err := seasons.Restore(ctx, season.PublicID)
	if err != nil {
		return errors.WithStack(err)
	}

	if restored.DeletedAt != nil {
		t.Errorf("restored.DeletedAt: expected nil, got %v", *restored.DeletedAt)
	}

	if e, g := epoch.Add(time.Minute), restored.UpdatedAt; !e.Equal(g) {
		t.Errorf("restored.UpdatedAt: expected %v, got %v", e, g)
	}

	if e, g := season.CreatedAt, restored.CreatedAt; !e.Equal(g) {
		t.Errorf("restored.CreatedAt: expected %v, got %v", e, g)
	}

	_, err = seasons.Restore(ctx, "unknown")
	expectError(t, "seasons.Restore", err, port.ErrNotFound)

	return nil
}

func testPatchVersusReplace(t *testing.T, ctx context.Context, tc *testContext, store Store) error {
	athletes := store.Athletes()

	height := 182
	weight := 77.5
	birthDate := time.Date(2001, 4, 12, 0, 0, 0, 0, time.UTC)

	created, err := athletes.Create(ctx, model.AthleteInput{
		PersonInput: model.PersonInput{
			FirstName: "Rafael",
			LastName:  "Nadal",
			Email:     "rafa@example.com",
			Phone:     "+34 600 000 000",
			BirthDate: &birthDate,
		},
		HeightCm: &height,
		WeightKg: &weight,
		Position: "baseline",
	})
	if err != nil {
		return errors.WithStack(err)
	}

	tc.clock.Advance(time.Minute)

	patched, err := athletes.Patch(ctx, created.PublicID, model.AthletePatch{
		PersonPatch: model.PersonPatch{
			Phone: model.Set("+34 611 111 111"),
		},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	t.Logf("patched: %s", spew.Sdump(patched))

	expected := *created
	expected.Phone = "+34 611 111 111"
	expected.UpdatedAt = epoch.Add(time.Minute)

	if !sameAthlete(&expected, patched) {
		t.Errorf("patched: expected %s, got %s", spew.Sdump(expected), spew.Sdump(patched))
	}

	tc.clock.Advance(time.Minute)

	replaced, err := athletes.Replace(ctx, created.PublicID, model.AthleteInput{
		PersonInput: model.PersonInput{
			FirstName: "Rafael",
			LastName:  "Nadal Parera",
		},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	t.Logf("replaced: %s", spew.Sdump(replaced))

	if e, g := created.PublicID, replaced.PublicID; e != g {
		t.Errorf("replaced.PublicID: expected %v, got %v", e, g)
	}

	if e, g := "", replaced.Email; e != g {
		t.Errorf("replaced.Email: expected %q, got %q", e, g)
	}

	if replaced.BirthDate != nil || replaced.HeightCm != nil || replaced.WeightKg != nil {
		t.Errorf("replaced: expected optional fields to be reset, got %s", spew.Sdump(replaced))
	}

	if e, g := "", replaced.Position; e != g {
		t.Errorf("replaced.Position: expected %q, got %q", e, g)
	}

	if e, g := created.CreatedAt, replaced.CreatedAt; !e.Equal(g) {
		t.Errorf("replaced.CreatedAt: expected %v, got %v", e, g)
	}

	_, err = athletes.Patch(ctx, created.PublicID, model.AthletePatch{
		PersonPatch: model.PersonPatch{
			LastName: model.Set(""),
		},
	})
	expectFieldError(t, "athletes.Patch", err, "lastName")

	_, err = athletes.Replace(ctx, "unknown", model.AthleteInput{
		PersonInput: model.PersonInput{FirstName: "A", LastName: "B"},
	})
	expectError(t, "athletes.Replace", err, port.ErrNotFound)

	return nil
}

func sameAthlete(a, b *model.Athlete) bool {
	if a.PublicID != b.PublicID || !a.CreatedAt.Equal(b.CreatedAt) || !a.UpdatedAt.Equal(b.UpdatedAt) {
		return false
	}

	if a.FirstName != b.FirstName || a.LastName != b.LastName || a.Email != b.Email || a.Phone != b.Phone || a.Position != b.Position {
		return false
	}

	if (a.BirthDate == nil) != (b.BirthDate == nil) || (a.BirthDate != nil && !a.BirthDate.Equal(*b.BirthDate)) {
		return false
	}

	return reflect.DeepEqual(a.HeightCm, b.HeightCm) &&
		reflect.DeepEqual(a.WeightKg, b.WeightKg) &&
		reflect.DeepEqual(a.JerseyNumber, b.JerseyNumber) &&
		reflect.DeepEqual(a.Address, b.Address)
}

func testReferenceValidation(t *testing.T, ctx context.Context, tc *testContext, store Store) error {
	unknown := model.PublicID("unknown")

	_, err := store.Coaches().Create(ctx, model.CoachInput{
		PersonInput: model.PersonInput{FirstName: "Toni", LastName: "Nadal", Address: &unknown},
	})
	expectFieldError(t, "coaches.Create", err, "address")

	address, err := store.Addresses().Create(ctx, palma())
	if err != nil {
		return errors.WithStack(err)
	}

	coach, err := store.Coaches().Create(ctx, model.CoachInput{
		PersonInput: model.PersonInput{FirstName: "Toni", LastName: "Nadal", Address: &address.PublicID},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	if coach.Address == nil || *coach.Address != address.PublicID {
		t.Errorf("coach.Address: expected %v, got %v", address.PublicID, coach.Address)
	}

	if err := store.Addresses().SoftDelete(ctx, address.PublicID); err != nil {
		return errors.WithStack(err)
	}

	// A reference left unchanged survives the soft deletion of its target
	patched, err := store.Coaches().Patch(ctx, coach.PublicID, model.CoachPatch{
		PersonPatch: model.PersonPatch{Phone: model.Set("+34 622 222 222")},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	if patched.Address == nil || *patched.Address != address.PublicID {
		t.Errorf("patched.Address: expected %v, got %v", address.PublicID, patched.Address)
	}

	_, err = store.Venues().Create(ctx, model.VenueInput{
		Name:    "Manacor",
		Type:    model.VenueTypeStadium,
		Address: &address.PublicID,
	})
	expectFieldError(t, "venues.Create", err, "address")

	_, err = store.Trainings().Create(ctx, model.TrainingInput{
		ActivityInput: model.ActivityInput{
			Name:   "Morning drills",
			Date:   epoch,
			Season: unknown,
		},
	})
	expectFieldError(t, "trainings.Create", err, "season")

	season, err := store.Seasons().Create(ctx, model.SeasonInput{Name: "2025", StartsOn: epoch, EndsOn: epoch.AddDate(1, 0, 0)})
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = store.Trainings().Create(ctx, model.TrainingInput{
		ActivityInput: model.ActivityInput{
			Name:    "Morning drills",
			Date:    epoch,
			Season:  season.PublicID,
			Coaches: []model.PublicID{coach.PublicID, unknown},
		},
	})
	expectFieldError(t, "trainings.Create", err, "coaches")

	_, err = store.Trainings().Create(ctx, model.TrainingInput{
		ActivityInput: model.ActivityInput{
			Name:   "Pre-season drills",
			Date:   epoch.AddDate(0, 0, -1),
			Season: season.PublicID,
		},
	})
	expectFieldMessage(t, "trainings.Create", err, "date", "must fall within season '"+season.PublicID.String()+"'")

	training, err := store.Trainings().Create(ctx, model.TrainingInput{
		ActivityInput: model.ActivityInput{
			Name:   "Morning drills",
			Date:   epoch,
			Season: season.PublicID,
		},
		Focus: "serve",
	})
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = store.Trainings().Patch(ctx, training.PublicID, model.TrainingPatch{
		ActivityPatch: model.ActivityPatch{Date: model.Set(epoch.AddDate(2, 0, 0))},
	})
	expectFieldError(t, "trainings.Patch", err, "date")

	_, err = store.Addresses().Create(ctx, model.AddressInput{Line1: "", City: "Palma", Country: "Spain"})
	expectFieldError(t, "addresses.Create", err, "line1")

	return nil
}

func testHardDeleteRestrict(t *testing.T, ctx context.Context, tc *testContext, store Store) error {
	address, err := store.Addresses().Create(ctx, palma())
	if err != nil {
		return errors.WithStack(err)
	}

	venue, err := store.Venues().Create(ctx, model.VenueInput{
		Name:    "Rafa Nadal Academy",
		Type:    model.VenueTypeField,
		Address: &address.PublicID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	if err := store.Venues().SoftDelete(ctx, venue.PublicID); err != nil {
		return errors.WithStack(err)
	}

	// Soft-deleted referrers still restrict the hard deletion
	expectError(t, "addresses.HardDelete", store.Addresses().HardDelete(ctx, address.PublicID), port.ErrConflict)

	if err := store.Venues().HardDelete(ctx, venue.PublicID); err != nil {
		return errors.WithStack(err)
	}

	if err := store.Addresses().HardDelete(ctx, address.PublicID); err != nil {
		return errors.WithStack(err)
	}

	_, err = store.Addresses().Unrestricted().Get(ctx, address.PublicID)
	expectError(t, "addresses.Unrestricted().Get", err, port.ErrNotFound)

	expectError(t, "addresses.HardDelete", store.Addresses().HardDelete(ctx, address.PublicID), port.ErrNotFound)

	season, err := store.Seasons().Create(ctx, model.SeasonInput{Name: "2025", StartsOn: epoch, EndsOn: epoch.AddDate(1, 0, 0)})
	if err != nil {
		return errors.WithStack(err)
	}

	athlete, err := store.Athletes().Create(ctx, model.AthleteInput{
		PersonInput: model.PersonInput{FirstName: "Carlos", LastName: "Moyá"},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	competition, err := store.Competitions().Create(ctx, model.CompetitionInput{
		ActivityInput: model.ActivityInput{
			Name:     "Mallorca Open",
			Date:     epoch.AddDate(0, 2, 0),
			Season:   season.PublicID,
			Athletes: []model.PublicID{athlete.PublicID},
		},
		Opponent: "Manacor TC",
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// Linked through the competition athletes
	expectError(t, "athletes.HardDelete", store.Athletes().HardDelete(ctx, athlete.PublicID), port.ErrConflict)
	expectError(t, "seasons.HardDelete", store.Seasons().HardDelete(ctx, season.PublicID), port.ErrConflict)

	if err := store.Competitions().HardDelete(ctx, competition.PublicID); err != nil {
		return errors.WithStack(err)
	}

	if err := store.Athletes().HardDelete(ctx, athlete.PublicID); err != nil {
		return errors.WithStack(err)
	}

	if err := store.Seasons().HardDelete(ctx, season.PublicID); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func testListFilters(t *testing.T, ctx context.Context, tc *testContext, store Store) error {
	for _, in := range []model.AddressInput{
		palma(),
		{Line1: "Carrer Major, 1", City: "Manacor", Country: "Spain"},
		{Line1: "Rue de Rivoli, 2", City: "Paris", Country: "France"},
	} {
		if _, err := store.Addresses().Create(ctx, in); err != nil {
			return errors.WithStack(err)
		}
	}

	spanish, err := store.Addresses().List(ctx, port.AddressFilter{Country: "Spain"})
	if err != nil {
		return errors.WithStack(err)
	}

	if e, g := 2, len(spanish); e != g {
		t.Fatalf("len(spanish): expected %d, got %d", e, g)
	}

	if e, g := "Palma", spanish[0].City; e != g {
		t.Errorf("spanish[0].City: expected %s, got %s", e, g)
	}

	page, limit := 1, 2

	paginated, err := store.Addresses().List(ctx, port.AddressFilter{QueryOptions: port.QueryOptions{Page: &page, Limit: &limit}})
	if err != nil {
		return errors.WithStack(err)
	}

	if e, g := 1, len(paginated); e != g {
		t.Fatalf("len(paginated): expected %d, got %d", e, g)
	}

	if e, g := "Paris", paginated[0].City; e != g {
		t.Errorf("paginated[0].City: expected %s, got %s", e, g)
	}

	total, err := store.Addresses().Count(ctx, port.AddressFilter{QueryOptions: port.QueryOptions{Page: &page, Limit: &limit}})
	if err != nil {
		return errors.WithStack(err)
	}

	if e, g := int64(3), total; e != g {
		t.Errorf("total: expected %d, got %d", e, g)
	}

	capacity := 15000

	for _, in := range []model.VenueInput{
		{Name: "Son Moix", Type: model.VenueTypeStadium, Capacity: &capacity},
		{Name: "Palau d'Esports", Type: model.VenueTypeGymnasium},
	} {
		if _, err := store.Venues().Create(ctx, in); err != nil {
			return errors.WithStack(err)
		}
	}

	gymnasium := model.VenueTypeGymnasium

	venues, err := store.Venues().List(ctx, port.VenueFilter{Type: &gymnasium})
	if err != nil {
		return errors.WithStack(err)
	}

	if e, g := 1, len(venues); e != g {
		t.Fatalf("len(venues): expected %d, got %d", e, g)
	}

	if e, g := "Palau d'Esports", venues[0].Name; e != g {
		t.Errorf("venues[0].Name: expected %s, got %s", e, g)
	}

	for _, in := range []model.SeasonInput{
		{Name: "2024", StartsOn: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), EndsOn: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)},
		{Name: "2025", StartsOn: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), EndsOn: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)},
	} {
		if _, err := store.Seasons().Create(ctx, in); err != nil {
			return errors.WithStack(err)
		}
	}

	day := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	seasons, err := store.Seasons().List(ctx, port.SeasonFilter{Containing: &day})
	if err != nil {
		return errors.WithStack(err)
	}

	if e, g := 1, len(seasons); e != g {
		t.Fatalf("len(seasons): expected %d, got %d", e, g)
	}

	if e, g := "2025", seasons[0].Name; e != g {
		t.Errorf("seasons[0].Name: expected %s, got %s", e, g)
	}

	for _, name := range []string{"Nadal", "Moyá", "Nadal"} {
		if _, err := store.Athletes().Create(ctx, model.AthleteInput{PersonInput: model.PersonInput{FirstName: "X", LastName: name}}); err != nil {
			return errors.WithStack(err)
		}
	}

	nadals, err := store.Athletes().Count(ctx, port.PersonFilter{LastName: "Nadal"})
	if err != nil {
		return errors.WithStack(err)
	}

	if e, g := int64(2), nadals; e != g {
		t.Errorf("nadals: expected %d, got %d", e, g)
	}

	return nil
}

type activityFixture struct {
	season  *model.Season
	venue   *model.Venue
	coach   *model.Coach
	athlete *model.Athlete
}

func createActivityFixture(ctx context.Context, store Store) (*activityFixture, error) {
	season, err := store.Seasons().Create(ctx, model.SeasonInput{
		Name:     "2025",
		StartsOn: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndsOn:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	venue, err := store.Venues().Create(ctx, model.VenueInput{Name: "Son Moix", Type: model.VenueTypeStadium})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	coach, err := store.Coaches().Create(ctx, model.CoachInput{PersonInput: model.PersonInput{FirstName: "Toni", LastName: "Nadal"}})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	athlete, err := store.Athletes().Create(ctx, model.AthleteInput{PersonInput: model.PersonInput{FirstName: "Rafael", LastName: "Nadal"}})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &activityFixture{
		season:  season,
		venue:   venue,
		coach:   coach,
		athlete: athlete,
	}, nil
}

func testActivityTimeline(t *testing.T, ctx context.Context, tc *testContext, store Store) error {
	fx, err := createActivityFixture(ctx, store)
	if err != nil {
		return errors.WithStack(err)
	}

	march := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	february, err := store.Trainings().Create(ctx, model.TrainingInput{
		ActivityInput: model.ActivityInput{Name: "Winter drills", Date: march.AddDate(0, -1, 0), Season: fx.season.PublicID},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	competition, err := store.Competitions().Create(ctx, model.CompetitionInput{
		ActivityInput: model.ActivityInput{Name: "Spring cup", Date: march, Season: fx.season.PublicID, Venue: &fx.venue.PublicID},
		Opponent:      "Manacor TC",
		Score:         &model.Score{Home: 3, Away: 1},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// Same date as the competition, with a greater storage key
	training, err := store.Trainings().Create(ctx, model.TrainingInput{
		ActivityInput: model.ActivityInput{Name: "Recovery", Date: march, Season: fx.season.PublicID},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	deleted, err := store.Trainings().Create(ctx, model.TrainingInput{
		ActivityInput: model.ActivityInput{Name: "Cancelled", Date: march.AddDate(0, 1, 0), Season: fx.season.PublicID},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	if err := store.Trainings().SoftDelete(ctx, deleted.PublicID); err != nil {
		return errors.WithStack(err)
	}

	later, err := store.Competitions().Create(ctx, model.CompetitionInput{
		ActivityInput: model.ActivityInput{Name: "Summer cup", Date: march.AddDate(0, 3, 0), Season: fx.season.PublicID},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	expected := []model.PublicID{later.PublicID, competition.PublicID, training.PublicID, february.PublicID}

	for _, pageSize := range []int{1, 2, 50} {
		timeline := service.NewTimeline(service.ActivitySources(store), service.WithTimelinePageSize(pageSize))

		// Repeated calls yield the same order
		for range 2 {
			views, err := timeline.List(ctx, port.ActivityFilter{})
			if err != nil {
				return errors.WithStack(err)
			}

			got := make([]model.PublicID, 0, len(views))
			for _, v := range views {
				got = append(got, v.Identifier().PublicID)
			}

			if !reflect.DeepEqual(expected, got) {
				t.Errorf("timeline (page size %d): expected %v, got %v", pageSize, expected, got)
			}
		}
	}

	views, err := service.NewTimeline(service.ActivitySources(store)).List(ctx, port.ActivityFilter{})
	if err != nil {
		return errors.WithStack(err)
	}

	if e, g := model.ActivityKindCompetition, views[1].Kind(); e != g {
		t.Errorf("views[1].Kind(): expected %v, got %v", e, g)
	}

	c, ok := views[1].(*model.Competition)
	if !ok {
		t.Fatalf("views[1]: expected *model.Competition, got %T", views[1])
	}

	if c.Score == nil || c.Score.Home != 3 || c.Score.Away != 1 {
		t.Errorf("c.Score: expected {3 1}, got %v", c.Score)
	}

	if c.Venue == nil || *c.Venue != fx.venue.PublicID {
		t.Errorf("c.Venue: expected %v, got %v", fx.venue.PublicID, c.Venue)
	}

	if e, g := model.ActivityKindTraining, views[2].Kind(); e != g {
		t.Errorf("views[2].Kind(): expected %v, got %v", e, g)
	}

	return nil
}

func testActivityFilters(t *testing.T, ctx context.Context, tc *testContext, store Store) error {
	fx, err := createActivityFixture(ctx, store)
	if err != nil {
		return errors.WithStack(err)
	}

	day := time.Date(2025, 5, 10, 18, 30, 0, 0, time.FixedZone("CEST", 2*60*60))

	withAthlete, err := store.Trainings().Create(ctx, model.TrainingInput{
		ActivityInput: model.ActivityInput{
			Name:     "Footwork",
			Date:     day,
			Season:   fx.season.PublicID,
			Venue:    &fx.venue.PublicID,
			Coaches:  []model.PublicID{fx.coach.PublicID},
			Athletes: []model.PublicID{fx.athlete.PublicID},
		},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	if e, g := day.UTC(), withAthlete.Date; !e.Equal(g) {
		t.Errorf("withAthlete.Date: expected %v, got %v", e, g)
	}

	if !reflect.DeepEqual([]model.PublicID{fx.athlete.PublicID}, withAthlete.Athletes) {
		t.Errorf("withAthlete.Athletes: expected %v, got %v", []model.PublicID{fx.athlete.PublicID}, withAthlete.Athletes)
	}

	if _, err := store.Competitions().Create(ctx, model.CompetitionInput{
		ActivityInput: model.ActivityInput{Name: "Friendly", Date: day.AddDate(0, 0, 7), Season: fx.season.PublicID},
	}); err != nil {
		return errors.WithStack(err)
	}

	timeline := service.NewTimeline(service.ActivitySources(store))

	type filterCase struct {
		Name     string
		Filter   port.ActivityFilter
		Expected int
	}

	from := day.AddDate(0, 0, 1)
	to := day

	filterCases := []filterCase{
		{Name: "All", Filter: port.ActivityFilter{}, Expected: 2},
		{Name: "Athlete", Filter: port.ActivityFilter{Athlete: &fx.athlete.PublicID}, Expected: 1},
		{Name: "Coach", Filter: port.ActivityFilter{Coach: &fx.coach.PublicID}, Expected: 1},
		{Name: "Venue", Filter: port.ActivityFilter{Venue: &fx.venue.PublicID}, Expected: 1},
		{Name: "Season", Filter: port.ActivityFilter{Season: &fx.season.PublicID}, Expected: 2},
		{Name: "From", Filter: port.ActivityFilter{From: &from}, Expected: 1},
		{Name: "To", Filter: port.ActivityFilter{To: &to}, Expected: 1},
	}

	for _, fc := range filterCases {
		views, err := timeline.List(ctx, fc.Filter)
		if err != nil {
			return errors.WithStack(err)
		}

		if e, g := fc.Expected, len(views); e != g {
			t.Errorf("%s: expected %d activities, got %d", fc.Name, e, g)
		}
	}

	// Removing the links
	updated, err := store.Trainings().Patch(ctx, withAthlete.PublicID, model.TrainingPatch{
		ActivityPatch: model.ActivityPatch{
			Athletes: model.Set[[]model.PublicID](nil),
			Venue:    model.Set[*model.PublicID](nil),
		},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	if e, g := 0, len(updated.Athletes); e != g {
		t.Errorf("len(updated.Athletes): expected %d, got %d", e, g)
	}

	if updated.Venue != nil {
		t.Errorf("updated.Venue: expected nil, got %v", *updated.Venue)
	}

	if !reflect.DeepEqual([]model.PublicID{fx.coach.PublicID}, updated.Coaches) {
		t.Errorf("updated.Coaches: expected %v, got %v", []model.PublicID{fx.coach.PublicID}, updated.Coaches)
	}

	total, err := store.Trainings().Count(ctx, port.ActivityFilter{Athlete: &fx.athlete.PublicID})
	if err != nil {
		return errors.WithStack(err)
	}

	if e, g := int64(0), total; e != g {
		t.Errorf("total: expected %d, got %d", e, g)
	}

	return nil
}

func testIdentifierCollision(t *testing.T, ctx context.Context, tc *testContext, store Store) error {
	first, err := store.Addresses().Create(ctx, palma())
	if err != nil {
		return errors.WithStack(err)
	}

	second, err := store.Addresses().Create(ctx, palma())
	if err != nil {
		return errors.WithStack(err)
	}

	if e, g := model.PublicID("AAAAAAAAAAAAAAAA"), first.PublicID; e != g {
		t.Errorf("first.PublicID: expected %v, got %v", e, g)
	}

	if e, g := model.PublicID("BBBBBBBBBBBBBBBB"), second.PublicID; e != g {
		t.Errorf("second.PublicID: expected %v, got %v", e, g)
	}

	total, err := store.Addresses().Count(ctx, port.AddressFilter{})
	if err != nil {
		return errors.WithStack(err)
	}

	if e, g := int64(2), total; e != g {
		t.Errorf("total: expected %d, got %d", e, g)
	}

	return nil
}

func testIdentifierExhaustion(t *testing.T, ctx context.Context, tc *testContext, store Store) error {
	if _, err := store.Addresses().Create(ctx, palma()); err != nil {
		return errors.WithStack(err)
	}

	_, err := store.Addresses().Create(ctx, palma())
	expectError(t, "addresses.Create", err, port.ErrConflict)

	total, err := store.Addresses().Unrestricted().Count(ctx, port.AddressFilter{})
	if err != nil {
		return errors.WithStack(err)
	}

	if e, g := int64(1), total; e != g {
		t.Errorf("total: expected %d, got %d", e, g)
	}

	return nil
}

func testFixtureRoundTrip(t *testing.T, ctx context.Context, tc *testContext, store Store) error {
	fx, err := createActivityFixture(ctx, store)
	if err != nil {
		return errors.WithStack(err)
	}

	address, err := store.Addresses().Create(ctx, palma())
	if err != nil {
		return errors.WithStack(err)
	}

	jersey := 10

	if _, err := store.Athletes().Create(ctx, model.AthleteInput{
		PersonInput:  model.PersonInput{FirstName: "Carlos", LastName: "Moyá", Address: &address.PublicID},
		JerseyNumber: &jersey,
	}); err != nil {
		return errors.WithStack(err)
	}

	tc.clock.Advance(time.Hour)

	if _, err := store.Trainings().Create(ctx, model.TrainingInput{
		ActivityInput: model.ActivityInput{
			Name:     "Footwork",
			Date:     epoch.AddDate(0, 1, 0),
			Season:   fx.season.PublicID,
			Venue:    &fx.venue.PublicID,
			Coaches:  []model.PublicID{fx.coach.PublicID},
			Athletes: []model.PublicID{fx.athlete.PublicID},
		},
		Focus: "serve",
	}); err != nil {
		return errors.WithStack(err)
	}

	if _, err := store.Competitions().Create(ctx, model.CompetitionInput{
		ActivityInput: model.ActivityInput{Name: "Spring cup", Date: epoch.AddDate(0, 2, 0), Season: fx.season.PublicID},
		Score:         &model.Score{Home: 0, Away: 2},
	}); err != nil {
		return errors.WithStack(err)
	}

	removed, err := store.Addresses().Create(ctx, model.AddressInput{Line1: "Carrer Major, 1", City: "Manacor", Country: "Spain"})
	if err != nil {
		return errors.WithStack(err)
	}

	if err := store.Addresses().SoftDelete(ctx, removed.PublicID); err != nil {
		return errors.WithStack(err)
	}

	exported, err := store.ExportFixtures(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	if e, g := 9, len(exported); e != g {
		t.Fatalf("len(exported): expected %d, got %d", e, g)
	}

	var buf bytes.Buffer
	if err := fixture.Encode(&buf, fixture.FormatYAML, exported); err != nil {
		return errors.WithStack(err)
	}

	t.Logf("fixtures:\n%s", buf.String())

	decoded, err := fixture.Decode(&buf, fixture.FormatYAML)
	if err != nil {
		return errors.WithStack(err)
	}

	target := tc.newStore(t)

	if err := target.ImportFixtures(ctx, decoded); err != nil {
		return errors.WithStack(err)
	}

	reexported, err := target.ExportFixtures(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	if !reflect.DeepEqual(exported, reexported) {
		t.Errorf("reexported: expected %s, got %s", spew.Sdump(exported), spew.Sdump(reexported))
	}

	restored, err := target.Addresses().Unrestricted().Get(ctx, removed.PublicID)
	if err != nil {
		return errors.WithStack(err)
	}

	if restored.DeletedAt == nil {
		t.Errorf("restored.DeletedAt: expected non nil")
	}

	imported, err := target.Addresses().Get(ctx, address.PublicID)
	if err != nil {
		return errors.WithStack(err)
	}

	if imported.DeletedAt != nil {
		t.Errorf("imported.DeletedAt: expected nil, got %v", *imported.DeletedAt)
	}

	if e, g := address.CreatedAt, imported.CreatedAt; !e.Equal(g) {
		t.Errorf("imported.CreatedAt: expected %v, got %v", e, g)
	}

	// New records do not collide with imported keys
	if _, err := target.Addresses().Create(ctx, palma()); err != nil {
		return errors.WithStack(err)
	}

	// Importing the same records twice conflicts
	err = target.ImportFixtures(ctx, decoded)
	expectError(t, "target.ImportFixtures", err, port.ErrConflict)

	return nil
}

func testFixtureImportErrors(t *testing.T, ctx context.Context, tc *testContext, store Store) error {
	now := fixture.FormatTime(epoch)

	type importCase struct {
		Name    string
		Records []fixture.Record
		Field   string
	}

	importCases := []importCase{
		{
			Name:    "UnknownModel",
			Records: []fixture.Record{{Model: "referee", Key: 1, Fields: fixture.Fields{}}},
			Field:   "model",
		},
		{
			Name:    "MissingKey",
			Records: []fixture.Record{{Model: "address", Fields: fixture.Fields{}}},
			Field:   "pk",
		},
		{
			Name: "MissingField",
			Records: []fixture.Record{{Model: "address", Key: 1, Fields: fixture.Fields{
				"public_id": "a1",
				"city":      "Palma",
			}}},
			Field: "fields",
		},
		{
			Name: "DanglingReference",
			Records: []fixture.Record{{Model: "venue", Key: 1, Fields: fixture.Fields{
				"public_id":  "v1",
				"created_at": now,
				"updated_at": now,
				"deleted_at": nil,
				"name":       "Son Moix",
				"type":       "stadium",
				"capacity":   nil,
				"address":    42,
			}}},
			Field: "fields",
		},
	}

	for _, ic := range importCases {
		err := store.ImportFixtures(ctx, ic.Records)
		expectFieldError(t, ic.Name, err, ic.Field)
	}

	total, err := store.Venues().Unrestricted().Count(ctx, port.VenueFilter{})
	if err != nil {
		return errors.WithStack(err)
	}

	if e, g := int64(0), total; e != g {
		t.Errorf("total: expected %d, got %d", e, g)
	}

	return nil
}
