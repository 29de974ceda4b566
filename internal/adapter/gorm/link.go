package gorm

import (
	"fmt"

	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// linkTable describes an ordered many-to-many link table. Rows are owned by
// the activity side and cascade with it; the target side restricts.
type linkTable struct {
	Table       string
	Owner       string
	Target      string
	TargetTable string
}

type linkEntry struct {
	OwnerID  uint
	TargetID uint
	PublicID string
}

// owners selects the keys of the owners linked to the given target.
func (l linkTable) owners(db *gorm.DB, target model.PublicID) *gorm.DB {
	targets := db.Session(&gorm.Session{NewDB: true}).Table(l.TargetTable).Select("id").Where("public_id = ?", string(target))
	return db.Table(l.Table).Select(l.Owner).Where(fmt.Sprintf("%s IN (?)", l.Target), targets)
}

func (l linkTable) load(tx *gorm.DB, owners []uint) (map[uint][]linked, error) {
	var entries []linkEntry

	err := tx.Table(l.Table).
		Select(fmt.Sprintf("%[1]s.%[2]s AS owner_id, %[1]s.%[3]s AS target_id, %[4]s.public_id AS public_id", l.Table, l.Owner, l.Target, l.TargetTable)).
		Joins(fmt.Sprintf("JOIN %[1]s ON %[1]s.id = %[2]s.%[3]s", l.TargetTable, l.Table, l.Target)).
		Where(fmt.Sprintf("%s.%s IN ?", l.Table, l.Owner), owners).
		Order(fmt.Sprintf("%s.%s ASC, %s.position ASC", l.Table, l.Owner, l.Table)).
		Scan(&entries).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	links := make(map[uint][]linked, len(owners))
	for _, e := range entries {
		links[e.OwnerID] = append(links[e.OwnerID], linked{Key: e.TargetID, PublicID: model.PublicID(e.PublicID)})
	}

	return links, nil
}

func (l linkTable) save(tx *gorm.DB, owner uint, links []linked) error {
	if err := l.delete(tx, owner); err != nil {
		return errors.WithStack(err)
	}

	if len(links) == 0 {
		return nil
	}

	rows := make([]map[string]any, 0, len(links))
	for position, link := range links {
		rows = append(rows, map[string]any{
			l.Owner:    owner,
			l.Target:   link.Key,
			"position": position,
		})
	}

	if err := tx.Table(l.Table).Create(rows).Error; err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (l linkTable) delete(tx *gorm.DB, owner uint) error {
	if err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", l.Table, l.Owner), owner).Error; err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// activityLinks persists the coaches and athletes of an activity variant.
type activityLinks[R any, PR activityRow[R]] struct {
	coaches  linkTable
	athletes linkTable
}

func (a activityLinks[R, PR]) Load(tx *gorm.DB, rows []*R) error {
	owners := make([]uint, 0, len(rows))
	for _, r := range rows {
		owners = append(owners, PR(r).envelope().ID)
	}

	coaches, err := a.coaches.load(tx, owners)
	if err != nil {
		return errors.WithStack(err)
	}

	athletes, err := a.athletes.load(tx, owners)
	if err != nil {
		return errors.WithStack(err)
	}

	for _, r := range rows {
		key := PR(r).envelope().ID
		cols := PR(r).columns()
		cols.coaches = append([]linked{}, coaches[key]...)
		cols.athletes = append([]linked{}, athletes[key]...)
	}

	return nil
}

func (a activityLinks[R, PR]) Save(tx *gorm.DB, r *R) error {
	key := PR(r).envelope().ID
	cols := PR(r).columns()

	if err := a.coaches.save(tx, key, cols.coaches); err != nil {
		return errors.WithStack(err)
	}

	if err := a.athletes.save(tx, key, cols.athletes); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (a activityLinks[R, PR]) Delete(tx *gorm.DB, r *R) error {
	key := PR(r).envelope().ID

	if err := a.coaches.delete(tx, key); err != nil {
		return errors.WithStack(err)
	}

	if err := a.athletes.delete(tx, key); err != nil {
		return errors.WithStack(err)
	}

	return nil
}
