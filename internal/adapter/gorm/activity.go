package gorm

import (
	"context"
	"fmt"
	"time"

	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/bornholm/clubhouse/internal/core/port"
	"github.com/bornholm/clubhouse/internal/fixture"
	"github.com/ncruces/go-sqlite3"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ActivityColumns are the columns shared by trainings and competitions.
type ActivityColumns struct {
	Name string    `gorm:"not null"`
	Date time.Time `gorm:"not null;index"`

	coaches  []linked
	athletes []linked
}

type activityRow[R any] interface {
	row[R]
	columns() *ActivityColumns
	venue() (**uint, *Venue)
	season() (*uint, *Season)
}

func (a *ActivityColumns) columns() *ActivityColumns {
	return a
}

func toActivity[R any, PR activityRow[R]](r PR) model.Activity {
	cols := r.columns()
	_, venue := r.venue()
	_, season := r.season()

	activity := model.Activity{
		Name:     cols.Name,
		Date:     cols.Date,
		Coaches:  linkedIDs(cols.coaches),
		Athletes: linkedIDs(cols.athletes),
	}

	if venue != nil {
		id := model.PublicID(venue.PublicID)
		activity.Venue = &id
	}

	if season != nil {
		activity.Season = model.PublicID(season.PublicID)
	}

	return activity
}

// writeActivity copies the shared input onto the row and resolves every
// reference, links included.
func writeActivity[R any, PR activityRow[R]](res resolver, r PR, in model.ActivityInput) error {
	cols := r.columns()
	venueID, _ := r.venue()
	seasonID, _ := r.season()

	venueKey, err := reference[Venue](res, "venue", *venueID, in.Venue)
	if err != nil {
		return errors.WithStack(err)
	}

	var currentSeason *uint
	if *seasonID != 0 {
		currentSeason = seasonID
	}

	season := in.Season
	seasonKey, err := reference[Season](res, "season", currentSeason, &season)
	if err != nil {
		return errors.WithStack(err)
	}

	var seasons scopedTable[Season, *Season]

	seasonRow, err := seasons.find(res.tx, seasons.Unrestricted, nil, season)
	if err != nil {
		return errors.WithStack(err)
	}

	if !seasonRow.toEntity().Contains(normalizeDate(in.Date)) {
		return model.NewValidationError("date", "must fall within season '"+season.String()+"'")
	}

	coaches, err := references[Coach](res, "coaches", cols.coaches, in.Coaches)
	if err != nil {
		return errors.WithStack(err)
	}

	athletes, err := references[Athlete](res, "athletes", cols.athletes, in.Athletes)
	if err != nil {
		return errors.WithStack(err)
	}

	cols.Name = in.Name
	cols.Date = normalizeDate(in.Date)
	cols.coaches = coaches
	cols.athletes = athletes

	*venueID = venueKey
	*seasonID = *seasonKey

	return nil
}

func exportActivity[R any, PR activityRow[R]](r PR, fields fixture.Fields) {
	cols := r.columns()
	venueID, _ := r.venue()
	seasonID, _ := r.season()

	fields["name"] = cols.Name
	fields["date"] = fixture.FormatTime(cols.Date)
	fields["venue"] = fixture.OptionalValue(*venueID)
	fields["season"] = *seasonID
	fields["coaches"] = linkedKeys(cols.coaches)
	fields["athletes"] = linkedKeys(cols.athletes)
}

func importActivity[R any, PR activityRow[R]](r PR, fields fixture.Fields) error {
	cols := r.columns()
	venueID, _ := r.venue()
	seasonID, _ := r.season()

	var err error

	if cols.Name, err = fields.String("name"); err != nil {
		return errors.WithStack(err)
	}

	if cols.Date, err = fields.Time("date"); err != nil {
		return errors.WithStack(err)
	}
	cols.Date = normalizeDate(cols.Date)

	if *venueID, err = fields.OptionalKey("venue"); err != nil {
		return errors.WithStack(err)
	}

	if *seasonID, err = fields.Key("season"); err != nil {
		return errors.WithStack(err)
	}

	coaches, err := fields.Keys("coaches")
	if err != nil {
		return errors.WithStack(err)
	}

	athletes, err := fields.Keys("athletes")
	if err != nil {
		return errors.WithStack(err)
	}

	cols.coaches = keysToLinked(coaches)
	cols.athletes = keysToLinked(athletes)

	return nil
}

func linkedKeys(links []linked) []uint {
	keys := make([]uint, 0, len(links))
	for _, l := range links {
		keys = append(keys, l.Key)
	}
	return keys
}

func keysToLinked(keys []uint) []linked {
	links := make([]linked, 0, len(keys))
	for _, k := range keys {
		links = append(links, linked{Key: k})
	}
	return links
}

// activityFilter restricts the activities of the given table. References
// are matched regardless of the deletion state of their target.
func activityFilter(table string, coachLinks linkTable, athleteLinks linkTable) func(filter port.ActivityFilter) scope {
	return func(filter port.ActivityFilter) scope {
		return func(db *gorm.DB) *gorm.DB {
			sub := func() *gorm.DB {
				return db.Session(&gorm.Session{NewDB: true})
			}

			if filter.Season != nil {
				db = db.Where(
					fmt.Sprintf("%s.season_id IN (?)", table),
					sub().Table("seasons").Select("id").Where("public_id = ?", string(*filter.Season)),
				)
			}

			if filter.Venue != nil {
				db = db.Where(
					fmt.Sprintf("%s.venue_id IN (?)", table),
					sub().Table("venues").Select("id").Where("public_id = ?", string(*filter.Venue)),
				)
			}

			if filter.Coach != nil {
				db = db.Where(fmt.Sprintf("%s.id IN (?)", table), coachLinks.owners(sub(), *filter.Coach))
			}

			if filter.Athlete != nil {
				db = db.Where(fmt.Sprintf("%s.id IN (?)", table), athleteLinks.owners(sub(), *filter.Athlete))
			}

			if filter.From != nil {
				db = db.Where(fmt.Sprintf("%s.date >= ?", table), normalizeDate(*filter.From))
			}

			if filter.To != nil {
				db = db.Where(fmt.Sprintf("%s.date <= ?", table), normalizeDate(*filter.To))
			}

			return db
		}
	}
}

func activityOptions(filter port.ActivityFilter) port.QueryOptions {
	return filter.QueryOptions
}

var activityOrder = []string{"date DESC", "id ASC"}

// activityPage implements port.ActivitySource on top of a collection,
// using keyset pagination in timeline order.
func activityPage[R any, PR activityRow[R], E any, I validatable, P patcher[I]](ctx context.Context, c *collection[R, PR, E, I, P, port.ActivityFilter], filter port.ActivityFilter, after *port.ActivityCursor, limit int, toView func(r *R) model.ActivityView) ([]model.ActivityView, error) {
	if limit <= 0 {
		return []model.ActivityView{}, nil
	}

	var views []model.ActivityView

	err := c.store.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		query := c.spec.Filter(filter)(c.table.Active(db))

		for _, p := range c.spec.Preloads {
			query = query.Preload(p)
		}

		if after != nil {
			query = query.Where(
				"(date < ? OR (date = ? AND id > ?))",
				normalizeDate(after.Date), normalizeDate(after.Date), after.Key,
			)
		}

		var rows []*R
		if err := query.Order("date DESC").Order("id ASC").Limit(limit).Find(&rows).Error; err != nil {
			return errors.WithStack(err)
		}

		if err := c.loadRelations(db, rows...); err != nil {
			return errors.WithStack(err)
		}

		views = make([]model.ActivityView, 0, len(rows))
		for _, r := range rows {
			views = append(views, toView(r))
		}

		return nil
	}, sqlite3.BUSY, sqlite3.LOCKED)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return views, nil
}
