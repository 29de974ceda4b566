package model

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
)

func TestOptionalUnmarshalJSON(t *testing.T) {
	type testCase struct {
		Name          string
		Data          string
		ExpectSet     bool
		ExpectCleared bool
	}

	testCases := []testCase{
		{
			Name:      "Absent",
			Data:      `{}`,
			ExpectSet: false,
		},
		{
			Name:          "ExplicitNull",
			Data:          `{"address": null}`,
			ExpectSet:     true,
			ExpectCleared: true,
		},
		{
			Name:      "Value",
			Data:      `{"address": "abc"}`,
			ExpectSet: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			var patch PersonPatch

			if err := json.Unmarshal([]byte(tc.Data), &patch); err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			if e, g := tc.ExpectSet, patch.Address.IsSet(); e != g {
				t.Fatalf("patch.Address.IsSet(): expected %v, got %v", e, g)
			}

			current := PublicID("current")
			in := PersonInput{Address: &current}

			patch.Apply(&in)

			switch {
			case !tc.ExpectSet:
				if in.Address == nil || *in.Address != current {
					t.Errorf("in.Address: expected %v, got %v", current, in.Address)
				}
			case tc.ExpectCleared:
				if in.Address != nil {
					t.Errorf("in.Address: expected nil, got %v", *in.Address)
				}
			default:
				if in.Address == nil || *in.Address != "abc" {
					t.Errorf("in.Address: expected abc, got %v", in.Address)
				}
			}
		})
	}
}

func TestEmbeddedPatchUnmarshalJSON(t *testing.T) {
	var patch CompetitionPatch

	data := `{"name": "Final", "score": {"home": 2, "away": 1}}`
	if err := json.Unmarshal([]byte(data), &patch); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	in := CompetitionInput{
		ActivityInput: ActivityInput{Name: "Semi final", Season: "s1"},
		Opponent:      "Rivals",
	}

	patch.Apply(&in)

	if e, g := "Final", in.Name; e != g {
		t.Errorf("in.Name: expected %v, got %v", e, g)
	}

	if e, g := "Rivals", in.Opponent; e != g {
		t.Errorf("in.Opponent: expected %v, got %v", e, g)
	}

	if in.Score == nil || in.Score.Home != 2 || in.Score.Away != 1 {
		t.Errorf("in.Score: expected {2 1}, got %v", in.Score)
	}

	if e, g := PublicID("s1"), in.Season; e != g {
		t.Errorf("in.Season: expected %v, got %v", e, g)
	}
}
