package port

import (
	"context"
	"time"

	"github.com/bornholm/clubhouse/internal/core/model"
)

type ActivityFilter struct {
	QueryOptions

	Season  *model.PublicID
	Venue   *model.PublicID
	Coach   *model.PublicID
	Athlete *model.PublicID

	// From and To bound the activity date, both included.
	From *time.Time
	To   *time.Time
}

// ActivityCursor designates the position of an activity in the timeline
// order: date descending, then storage key ascending.
type ActivityCursor struct {
	Date time.Time
	Key  uint
}

// Before reports whether the position c comes strictly before o in the
// timeline order.
func (c ActivityCursor) Before(o ActivityCursor) bool {
	if !c.Date.Equal(o.Date) {
		return c.Date.After(o.Date)
	}
	return c.Key < o.Key
}

func CursorOf(v model.ActivityView) ActivityCursor {
	return ActivityCursor{
		Date: v.Common().Date,
		Key:  v.Identifier().Key,
	}
}

// ActivitySource provides one activity variant to the merged timeline.
type ActivitySource interface {
	// ActivityPage returns at most limit active activities matching the
	// filter, in timeline order, strictly after the given cursor when not nil.
	// The pagination fields of the filter are ignored.
	ActivityPage(ctx context.Context, filter ActivityFilter, after *ActivityCursor, limit int) ([]model.ActivityView, error)
}
