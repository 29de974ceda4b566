package fixture

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

func TestEncodeDecode(t *testing.T) {
	deletedAt := time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)

	records := []Record{
		{
			Model: "address",
			Key:   3,
			Fields: Fields{
				"public_id":  "abc",
				"city":       "Lyon",
				"deleted_at": FormatTime(deletedAt),
				"region":     nil,
			},
		},
		{
			Model: "training",
			Key:   7,
			Fields: Fields{
				"season":   uint(2),
				"venue":    nil,
				"athletes": []uint{4, 5},
			},
		},
	}

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer

			if err := Encode(&buf, format, records); err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			decoded, err := Decode(&buf, format)
			if err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			t.Logf("decoded: %s", spew.Sdump(decoded))

			if e, g := len(records), len(decoded); e != g {
				t.Fatalf("len(decoded): expected %d, got %d", e, g)
			}

			address := decoded[0]

			if e, g := uint(3), address.Key; e != g {
				t.Errorf("address.Key: expected %d, got %d", e, g)
			}

			city, err := address.Fields.String("city")
			if err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			if e, g := "Lyon", city; e != g {
				t.Errorf("city: expected %s, got %s", e, g)
			}

			deleted, err := address.Fields.OptionalTime("deleted_at")
			if err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			if deleted == nil || !deleted.Equal(deletedAt) {
				t.Errorf("deleted_at: expected %v, got %v", deletedAt, deleted)
			}

			training := decoded[1]

			season, err := training.Fields.Key("season")
			if err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			if e, g := uint(2), season; e != g {
				t.Errorf("season: expected %d, got %d", e, g)
			}

			venue, err := training.Fields.OptionalKey("venue")
			if err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			if venue != nil {
				t.Errorf("venue: expected nil, got %d", *venue)
			}

			athletes, err := training.Fields.Keys("athletes")
			if err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			if e, g := 2, len(athletes); e != g {
				t.Fatalf("len(athletes): expected %d, got %d", e, g)
			}

			if e, g := uint(5), athletes[1]; e != g {
				t.Errorf("athletes[1]: expected %d, got %d", e, g)
			}
		})
	}
}

func TestDecodeEmptyYAML(t *testing.T) {
	records, err := Decode(strings.NewReader(""), FormatYAML)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 0, len(records); e != g {
		t.Errorf("len(records): expected %d, got %d", e, g)
	}
}

func TestFieldErrors(t *testing.T) {
	fields := Fields{
		"name":  42,
		"date":  "yesterday",
		"count": 1.5,
	}

	if _, err := fields.String("name"); !errors.Is(err, ErrInvalidField) {
		t.Errorf("fields.String: expected ErrInvalidField, got %v", err)
	}

	if _, err := fields.Time("date"); !errors.Is(err, ErrInvalidField) {
		t.Errorf("fields.Time: expected ErrInvalidField, got %v", err)
	}

	if _, err := fields.Time("missing"); !errors.Is(err, ErrMissingField) {
		t.Errorf("fields.Time: expected ErrMissingField, got %v", err)
	}

	if _, err := fields.OptionalInt("count"); !errors.Is(err, ErrInvalidField) {
		t.Errorf("fields.OptionalInt: expected ErrInvalidField, got %v", err)
	}
}

func TestFormat(t *testing.T) {
	if e, g := FormatJSON, FormatFromPath("club.JSON"); e != g {
		t.Errorf("FormatFromPath: expected %s, got %s", e, g)
	}

	if e, g := FormatYAML, FormatFromPath("-"); e != g {
		t.Errorf("FormatFromPath: expected %s, got %s", e, g)
	}

	if _, err := ParseFormat("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseFormat: expected ErrUnknownFormat, got %v", err)
	}
}
