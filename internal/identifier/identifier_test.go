package identifier

import (
	"testing"

	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/pkg/errors"
)

func TestAlphabetGenerator(t *testing.T) {
	generator, err := NewAlphabetGenerator(DefaultAlphabet, DefaultLength)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	seen := map[model.PublicID]struct{}{}

	for range 1000 {
		id, err := generator.Generate()
		if err != nil {
			t.Fatalf("%+v", errors.WithStack(err))
		}

		if err := generator.Validate(id); err != nil {
			t.Fatalf("generator.Validate(%s): expected no error, got %+v", id, err)
		}

		if _, exists := seen[id]; exists {
			t.Fatalf("duplicate identifier '%s'", id)
		}

		seen[id] = struct{}{}
	}
}

func TestAlphabetGeneratorValidate(t *testing.T) {
	generator, err := NewAlphabetGenerator("0123456789abcdef", 16)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	for _, id := range []model.PublicID{"", "0123456789abcde", "0123456789abcdeZ", "1"} {
		if err := generator.Validate(id); !errors.Is(err, ErrMalformed) {
			t.Errorf("generator.Validate(%q): expected ErrMalformed, got %v", id, err)
		}
	}

	if err := generator.Validate("0123456789abcdef"); err != nil {
		t.Errorf("generator.Validate: expected no error, got %v", err)
	}
}

func TestNewAlphabetGeneratorRejectsWeakSpaces(t *testing.T) {
	type testCase struct {
		Alphabet string
		Length   int
		Expected error
	}

	testCases := []testCase{
		{Alphabet: "a", Length: 64, Expected: ErrInvalidAlphabet},
		{Alphabet: "aab", Length: 64, Expected: ErrInvalidAlphabet},
		{Alphabet: DefaultAlphabet, Length: 4, Expected: ErrInvalidLength},
		{Alphabet: "01", Length: 32, Expected: ErrInvalidLength},
	}

	for _, tc := range testCases {
		if _, err := NewAlphabetGenerator(tc.Alphabet, tc.Length); !errors.Is(err, tc.Expected) {
			t.Errorf("NewAlphabetGenerator(%q, %d): expected %v, got %v", tc.Alphabet, tc.Length, tc.Expected, err)
		}
	}
}

func TestUUIDGenerator(t *testing.T) {
	generator, err := New(SchemeUUID, "", 0)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	id, err := generator.Generate()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if err := generator.Validate(id); err != nil {
		t.Errorf("generator.Validate(%s): expected no error, got %+v", id, err)
	}

	if err := generator.Validate("6BA7B810-9DAD-11D1-80B4-00C04FD430C8"); !errors.Is(err, ErrMalformed) {
		t.Errorf("generator.Validate: expected ErrMalformed, got %v", err)
	}

	if _, err := New("nope", "", 0); !errors.Is(err, ErrUnknownScheme) {
		t.Errorf("New: expected ErrUnknownScheme, got %v", err)
	}
}

func TestCollisionProbability(t *testing.T) {
	p := CollisionProbability(len(DefaultAlphabet), DefaultLength, 1e6)
	if p > 1e-9 {
		t.Errorf("CollisionProbability: expected at most 1e-9, got %g", p)
	}

	if e, g := 64.0, EntropyBits(2, 64); e != g {
		t.Errorf("EntropyBits: expected %v, got %v", e, g)
	}
}
