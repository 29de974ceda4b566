package model

import (
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestValidation(t *testing.T) {
	type testCase struct {
		Name         string
		Input        interface{ Validate() error }
		ExpectFields []string
	}

	day := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	empty := PublicID("")
	negative := -1
	zero := 0

	testCases := []testCase{
		{
			Name:         "ValidAddress",
			Input:        AddressInput{Line1: "1 rue du Stade", City: "Lyon", Country: "FR"},
			ExpectFields: nil,
		},
		{
			Name:         "BlankAddress",
			Input:        AddressInput{Line1: "  "},
			ExpectFields: []string{"line1", "city", "country"},
		},
		{
			Name: "InvalidEmail",
			Input: AthleteInput{
				PersonInput: PersonInput{FirstName: "Jane", LastName: "Doe", Email: "not an email"},
			},
			ExpectFields: []string{"email"},
		},
		{
			Name: "EmptyAddressReference",
			Input: CoachInput{
				PersonInput: PersonInput{FirstName: "John", LastName: "Doe", Address: &empty},
			},
			ExpectFields: []string{"address"},
		},
		{
			Name:         "UnknownVenueType",
			Input:        VenueInput{Name: "Arena", Type: "moon", Capacity: &negative},
			ExpectFields: []string{"type", "capacity"},
		},
		{
			Name:         "InvertedSeason",
			Input:        SeasonInput{Name: "2024", StartsOn: day, EndsOn: day.AddDate(0, 0, -1)},
			ExpectFields: []string{"endsOn"},
		},
		{
			Name: "DuplicateAthletes",
			Input: TrainingInput{
				ActivityInput: ActivityInput{
					Name:     "Morning",
					Date:     day,
					Season:   "s1",
					Athletes: []PublicID{"a", "a"},
				},
			},
			ExpectFields: []string{"athletes"},
		},
		{
			Name: "NegativeScore",
			Input: CompetitionInput{
				ActivityInput: ActivityInput{Name: "Cup", Date: day, Season: "s1"},
				Score:         &Score{Home: -1},
			},
			ExpectFields: []string{"score.home"},
		},
		{
			Name: "ZeroHeight",
			Input: AthleteInput{
				PersonInput:  PersonInput{FirstName: "Jane", LastName: "Doe"},
				HeightCm:     &zero,
				JerseyNumber: &zero,
			},
			ExpectFields: []string{"heightCm"},
		},
		{
			Name: "CertificationWithoutName",
			Input: CoachInput{
				PersonInput: PersonInput{FirstName: "John", LastName: "Doe"},
				CertifiedOn: &day,
			},
			ExpectFields: []string{"certification"},
		},
		{
			Name:         "SingleDaySeason",
			Input:        SeasonInput{Name: "Camp", StartsOn: day, EndsOn: day},
			ExpectFields: nil,
		},
		{
			Name:         "MissingActivityFields",
			Input:        TrainingInput{},
			ExpectFields: []string{"name", "date", "season"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			err := tc.Input.Validate()

			if tc.ExpectFields == nil {
				if err != nil {
					t.Fatalf("expected no error, got %+v", err)
				}
				return
			}

			if !errors.Is(err, ErrValidation) {
				t.Fatalf("errors.Is(err, ErrValidation): expected true, got false (%v)", err)
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}

			if e, g := len(tc.ExpectFields), len(verr.Fields); e != g {
				t.Fatalf("len(verr.Fields): expected %d, got %d (%v)", e, g, verr.Fields)
			}

			for i, field := range tc.ExpectFields {
				if e, g := field, verr.Fields[i].Field; e != g {
					t.Errorf("verr.Fields[%d].Field: expected %s, got %s", i, e, g)
				}
			}
		})
	}
}

func TestValidationMessages(t *testing.T) {
	err := SeasonInput{Name: "2024", StartsOn: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)}.Validate()

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	if e, g := 1, len(verr.Fields); e != g {
		t.Fatalf("len(verr.Fields): expected %d, got %d (%v)", e, g, verr.Fields)
	}

	if e, g := (FieldError{Field: "endsOn", Message: "is required"}), verr.Fields[0]; e != g {
		t.Errorf("verr.Fields[0]: expected %v, got %v", e, g)
	}

	err = VenueInput{Name: "Arena", Type: VenueTypeTrack}.Validate()
	if err != nil {
		t.Fatalf("expected no error, got %+v", err)
	}

	err = AddressInput{Line1: "1 rue du Stade", City: "Lyon", Country: "FR"}.Validate()
	if err != nil {
		t.Fatalf("expected no error, got %+v", err)
	}

	err = SeasonInput{
		Name:     "2024",
		StartsOn: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		EndsOn:   time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
	}.Validate()

	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	if e, g := "must not be before startsOn", verr.Fields[0].Message; e != g {
		t.Errorf("verr.Fields[0].Message: expected %s, got %s", e, g)
	}
}
