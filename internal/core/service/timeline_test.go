package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/bornholm/clubhouse/internal/core/port"
	"github.com/pkg/errors"
)

type memorySource struct {
	views []model.ActivityView
	pages int
}

func (s *memorySource) ActivityPage(ctx context.Context, filter port.ActivityFilter, after *port.ActivityCursor, limit int) ([]model.ActivityView, error) {
	s.pages++

	sorted := append([]model.ActivityView(nil), s.views...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return port.CursorOf(sorted[i]).Before(port.CursorOf(sorted[j]))
	})

	page := make([]model.ActivityView, 0, limit)
	for _, v := range sorted {
		if after != nil && !after.Before(port.CursorOf(v)) {
			continue
		}
		if filter.From != nil && v.Common().Date.Before(*filter.From) {
			continue
		}
		page = append(page, v)
		if len(page) == limit {
			break
		}
	}

	return page, nil
}

type failingSource struct{}

func (failingSource) ActivityPage(ctx context.Context, filter port.ActivityFilter, after *port.ActivityCursor, limit int) ([]model.ActivityView, error) {
	return nil, errors.New("boom")
}

var day = time.Date(2024, 10, 1, 18, 0, 0, 0, time.UTC)

func training(key uint, date time.Time) *model.Training {
	return &model.Training{
		Identity: model.Identity{Key: key, PublicID: model.PublicID(fmt.Sprintf("t%d", key))},
		Activity: model.Activity{Name: "training", Date: date},
	}
}

func competition(key uint, date time.Time) *model.Competition {
	return &model.Competition{
		Identity: model.Identity{Key: key, PublicID: model.PublicID(fmt.Sprintf("c%d", key))},
		Activity: model.Activity{Name: "competition", Date: date},
	}
}

func ids(views []model.ActivityView) []string {
	result := make([]string, 0, len(views))
	for _, v := range views {
		result = append(result, v.Identifier().PublicID.String())
	}
	return result
}

func TestTimelineList(t *testing.T) {
	type testCase struct {
		Name     string
		Sources  func() []port.ActivitySource
		Filter   port.ActivityFilter
		PageSize int
		Expected []string
	}

	page := func(p int) *int { return &p }

	sources := func() []port.ActivitySource {
		return []port.ActivitySource{
			&memorySource{views: []model.ActivityView{
				training(1, day),
				training(2, day.AddDate(0, 0, -2)),
				training(3, day.AddDate(0, 0, 1)),
				training(5, day),
			}},
			&memorySource{views: []model.ActivityView{
				competition(1, day.AddDate(0, 0, -1)),
				competition(2, day),
				competition(4, day.AddDate(0, 0, 3)),
			}},
		}
	}

	testCases := []testCase{
		{
			Name:     "MergedOrder",
			Sources:  sources,
			PageSize: 50,
			Expected: []string{"c4", "t3", "t1", "c2", "t5", "c1", "t2"},
		},
		{
			Name:     "SmallPages",
			Sources:  sources,
			PageSize: 1,
			Expected: []string{"c4", "t3", "t1", "c2", "t5", "c1", "t2"},
		},
		{
			Name:     "Paginated",
			Sources:  sources,
			PageSize: 2,
			Filter:   port.ActivityFilter{QueryOptions: port.QueryOptions{Page: page(1), Limit: page(3)}},
			Expected: []string{"c2", "t5", "c1"},
		},
		{
			Name:     "LastPage",
			Sources:  sources,
			PageSize: 2,
			Filter:   port.ActivityFilter{QueryOptions: port.QueryOptions{Page: page(2), Limit: page(3)}},
			Expected: []string{"t2"},
		},
		{
			Name:     "ZeroLimit",
			Sources:  sources,
			PageSize: 2,
			Filter:   port.ActivityFilter{QueryOptions: port.QueryOptions{Limit: page(0)}},
			Expected: []string{},
		},
		{
			Name: "SameKeyTie",
			Sources: func() []port.ActivitySource {
				return []port.ActivitySource{
					&memorySource{views: []model.ActivityView{training(1, day)}},
					&memorySource{views: []model.ActivityView{competition(1, day)}},
				}
			},
			PageSize: 10,
			Expected: []string{"t1", "c1"},
		},
		{
			Name: "EmptySources",
			Sources: func() []port.ActivitySource {
				return []port.ActivitySource{&memorySource{}, &memorySource{}}
			},
			PageSize: 10,
			Expected: []string{},
		},
		{
			Name:     "FilterForwarded",
			Sources:  sources,
			PageSize: 3,
			Filter:   port.ActivityFilter{From: &day},
			Expected: []string{"c4", "t3", "t1", "c2", "t5"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			timeline := NewTimeline(tc.Sources(), WithTimelinePageSize(tc.PageSize))

			views, err := timeline.List(context.Background(), tc.Filter)
			if err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			got := ids(views)

			if e, g := len(tc.Expected), len(got); e != g {
				t.Fatalf("len(views): expected %d, got %d (%v)", e, g, got)
			}

			for i := range tc.Expected {
				if e, g := tc.Expected[i], got[i]; e != g {
					t.Errorf("views[%d]: expected %s, got %s (%v)", i, e, g, got)
				}
			}
		})
	}
}

func TestTimelineWalkStopsEarly(t *testing.T) {
	source := &memorySource{views: []model.ActivityView{
		training(1, day),
		training(2, day.AddDate(0, 0, -1)),
		training(3, day.AddDate(0, 0, -2)),
		training(4, day.AddDate(0, 0, -3)),
	}}

	timeline := NewTimeline([]port.ActivitySource{source}, WithTimelinePageSize(2))

	count := 0
	err := timeline.Walk(context.Background(), port.ActivityFilter{}, func(v model.ActivityView) error {
		count++
		if count == 2 {
			return ErrStopWalk
		}
		return nil
	})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 2, count; e != g {
		t.Errorf("count: expected %d, got %d", e, g)
	}

	if e, g := 1, source.pages; e != g {
		t.Errorf("source.pages: expected %d, got %d", e, g)
	}
}

func TestTimelineSourceError(t *testing.T) {
	timeline := NewTimeline([]port.ActivitySource{&memorySource{}, failingSource{}})

	if _, err := timeline.List(context.Background(), port.ActivityFilter{}); err == nil {
		t.Fatalf("expected an error, got nil")
	}
}
