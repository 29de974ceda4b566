package gorm

import (
	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/bornholm/clubhouse/internal/core/port"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type row[R any] interface {
	*R
	envelope() *Envelope
}

// scope selects the records visible to a query.
type scope func(db *gorm.DB) *gorm.DB

// scopedTable is the entry point of every query on a table. Active adds
// the "deleted_at IS NULL" predicate; only code explicitly asking for
// Unrestricted can observe soft-deleted records.
type scopedTable[R any, PR row[R]] struct{}

func (scopedTable[R, PR]) Active(db *gorm.DB) *gorm.DB {
	return db.Model(PR(new(R))).Where(clause.Eq{
		Column: clause.Column{Table: clause.CurrentTable, Name: "deleted_at"},
		Value:  nil,
	})
}

func (scopedTable[R, PR]) Unrestricted(db *gorm.DB) *gorm.DB {
	return db.Model(PR(new(R)))
}

func (t scopedTable[R, PR]) find(db *gorm.DB, s scope, preloads []string, id model.PublicID) (*R, error) {
	query := s(db)
	for _, p := range preloads {
		query = query.Preload(p)
	}

	r := new(R)
	if err := query.Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: "public_id"}, Value: string(id)}).First(r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(port.ErrNotFound, "no record with id '%s'", id)
		}
		return nil, errors.WithStack(err)
	}

	return r, nil
}

// key resolves a public id into the storage key of the record.
func (t scopedTable[R, PR]) key(db *gorm.DB, s scope, id model.PublicID) (uint, error) {
	var keys []uint
	if err := s(db).Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: "public_id"}, Value: string(id)}).Limit(1).Pluck("id", &keys).Error; err != nil {
		return 0, errors.WithStack(err)
	}

	if len(keys) == 0 {
		return 0, errors.Wrapf(port.ErrNotFound, "no record with id '%s'", id)
	}

	return keys[0], nil
}

func (t scopedTable[R, PR]) exists(db *gorm.DB, s scope, id model.PublicID) (bool, error) {
	var total int64
	if err := s(db).Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: "public_id"}, Value: string(id)}).Count(&total).Error; err != nil {
		return false, errors.WithStack(err)
	}
	return total > 0, nil
}

func (t scopedTable[R, PR]) count(db *gorm.DB, s scope, filter scope) (int64, error) {
	var total int64
	if err := filter(s(db)).Count(&total).Error; err != nil {
		return 0, errors.WithStack(err)
	}
	return total, nil
}

func (t scopedTable[R, PR]) list(db *gorm.DB, s scope, preloads []string, filter scope, opts port.QueryOptions, order ...string) ([]*R, error) {
	query := filter(s(db))
	for _, p := range preloads {
		query = query.Preload(p)
	}

	if len(order) == 0 {
		order = []string{"id ASC"}
	}
	for _, o := range order {
		query = query.Order(o)
	}

	query = paginate(query, opts)

	var rows []*R
	if err := query.Find(&rows).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	return rows, nil
}

func paginate(query *gorm.DB, opts port.QueryOptions) *gorm.DB {
	if opts.Page != nil {
		limit := 10
		if opts.Limit != nil {
			limit = *opts.Limit
		}
		query = query.Offset(*opts.Page * limit)
	}

	if opts.Limit != nil {
		query = query.Limit(*opts.Limit)
	}

	return query
}
