package service

import (
	"container/heap"
	"context"

	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/bornholm/clubhouse/internal/core/port"
	"github.com/bornholm/clubhouse/internal/metrics"
	"github.com/pkg/errors"
)

// ErrStopWalk can be returned by a walk function to end the walk early
// without error.
var ErrStopWalk = errors.New("stop walk")

type TimelineOptions struct {
	// PageSize is the number of activities fetched at once from a source.
	PageSize int
	// DefaultLimit applies to List when the filter sets a page but no limit.
	DefaultLimit int
}

type TimelineOptionFunc func(opts *TimelineOptions)

func NewTimelineOptions(funcs ...TimelineOptionFunc) *TimelineOptions {
	opts := &TimelineOptions{
		PageSize:     50,
		DefaultLimit: 10,
	}
	for _, fn := range funcs {
		fn(opts)
	}
	if opts.PageSize < 1 {
		opts.PageSize = 1
	}
	return opts
}

func WithTimelinePageSize(size int) TimelineOptionFunc {
	return func(opts *TimelineOptions) {
		opts.PageSize = size
	}
}

func WithTimelineDefaultLimit(limit int) TimelineOptionFunc {
	return func(opts *TimelineOptions) {
		opts.DefaultLimit = limit
	}
}

// Timeline merges activity sources into a single sequence ordered by date
// descending, ties broken by storage key ascending then by source order.
// Sources are read page by page, one at a time.
type Timeline struct {
	sources      []port.ActivitySource
	pageSize     int
	defaultLimit int
}

func NewTimeline(sources []port.ActivitySource, funcs ...TimelineOptionFunc) *Timeline {
	opts := NewTimelineOptions(funcs...)
	return &Timeline{
		sources:      sources,
		pageSize:     opts.PageSize,
		defaultLimit: opts.DefaultLimit,
	}
}

// Walk calls fn for every activity matching the filter, in timeline order.
// The pagination fields of the filter are ignored.
func (t *Timeline) Walk(ctx context.Context, filter port.ActivityFilter, fn func(v model.ActivityView) error) error {
	filter.QueryOptions = port.QueryOptions{}

	queue := make(timelineQueue, 0, len(t.sources))

	for i, source := range t.sources {
		s := &timelineSource{
			index:    i,
			source:   source,
			filter:   filter,
			pageSize: t.pageSize,
		}

		ok, err := s.fill(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		if ok {
			queue = append(queue, s)
		}
	}

	heap.Init(&queue)

	for queue.Len() > 0 {
		s := queue[0]
		head := s.pop()

		metrics.TimelineActivities.WithLabelValues(string(head.Kind())).Inc()

		if err := fn(head); err != nil {
			if errors.Is(err, ErrStopWalk) {
				return nil
			}
			return errors.WithStack(err)
		}

		ok, err := s.fill(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		if ok {
			heap.Fix(&queue, 0)
		} else {
			heap.Pop(&queue)
		}
	}

	return nil
}

// List returns the merged activities, paginated with the filter options.
func (t *Timeline) List(ctx context.Context, filter port.ActivityFilter) ([]model.ActivityView, error) {
	limit := -1
	if filter.Limit != nil {
		limit = *filter.Limit
	}

	skip := 0
	if filter.Page != nil {
		if limit < 0 {
			limit = t.defaultLimit
		}
		skip = *filter.Page * limit
	}

	views := make([]model.ActivityView, 0)

	if limit == 0 {
		return views, nil
	}

	err := t.Walk(ctx, filter, func(v model.ActivityView) error {
		if skip > 0 {
			skip--
			return nil
		}

		views = append(views, v)

		if limit > 0 && len(views) >= limit {
			return ErrStopWalk
		}

		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return views, nil
}

type timelineSource struct {
	index    int
	source   port.ActivitySource
	filter   port.ActivityFilter
	pageSize int

	buffer    []model.ActivityView
	after     *port.ActivityCursor
	exhausted bool
}

// fill ensures the buffer holds the next activity of the source, if any.
func (s *timelineSource) fill(ctx context.Context) (bool, error) {
	if len(s.buffer) > 0 {
		return true, nil
	}

	if s.exhausted {
		return false, nil
	}

	page, err := s.source.ActivityPage(ctx, s.filter, s.after, s.pageSize)
	if err != nil {
		return false, errors.WithStack(err)
	}

	metrics.TimelinePages.Inc()

	if len(page) < s.pageSize {
		s.exhausted = true
	}

	s.buffer = page

	return len(s.buffer) > 0, nil
}

func (s *timelineSource) head() model.ActivityView {
	return s.buffer[0]
}

func (s *timelineSource) pop() model.ActivityView {
	head := s.buffer[0]
	s.buffer = s.buffer[1:]

	cursor := port.CursorOf(head)
	s.after = &cursor

	return head
}

type timelineQueue []*timelineSource

func (q timelineQueue) Len() int { return len(q) }

func (q timelineQueue) Less(i, j int) bool {
	a, b := port.CursorOf(q[i].head()), port.CursorOf(q[j].head())
	if a.Before(b) {
		return true
	}
	if b.Before(a) {
		return false
	}
	return q[i].index < q[j].index
}

func (q timelineQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *timelineQueue) Push(x any) {
	*q = append(*q, x.(*timelineSource))
}

func (q *timelineQueue) Pop() any {
	old := *q
	n := len(old)
	s := old[n-1]
	*q = old[:n-1]
	return s
}
