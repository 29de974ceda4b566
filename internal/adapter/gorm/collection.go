package gorm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/bornholm/clubhouse/internal/core/port"
	"github.com/bornholm/clubhouse/internal/metrics"
	"github.com/ncruces/go-sqlite3"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type validatable interface {
	Validate() error
}

type patcher[I any] interface {
	Apply(in *I)
}

// referrer designates a column of another table holding keys of the
// collection records.
type referrer struct {
	Table  string
	Column string
}

// collectionSpec describes how a collection maps its entity onto its table.
type collectionSpec[R any, E any, I validatable, P patcher[I], F any] struct {
	Name     string
	Preloads []string
	Order    []string

	ToEntity func(r *R) *E
	ToInput  func(e *E) I

	// Write copies the input onto the row and resolves its references. It
	// does not save the row.
	Write func(r *R, res resolver, in I) error

	Filter  func(filter F) scope
	Options func(filter F) port.QueryOptions

	// Referrers restrict the hard deletion of a record.
	Referrers []referrer

	// Relations are stored in link tables owned by the record.
	Relations relations[R]
}

// relations persists the links resolved by Write.
type relations[R any] interface {
	Load(tx *gorm.DB, rows []*R) error
	Save(tx *gorm.DB, r *R) error
	Delete(tx *gorm.DB, r *R) error
}

type collection[R any, PR row[R], E any, I validatable, P patcher[I], F any] struct {
	store *Store
	table scopedTable[R, PR]
	spec  collectionSpec[R, E, I, P, F]
}

func newCollection[R any, PR row[R], E any, I validatable, P patcher[I], F any](store *Store, spec collectionSpec[R, E, I, P, F]) *collection[R, PR, E, I, P, F] {
	return &collection[R, PR, E, I, P, F]{
		store: store,
		spec:  spec,
	}
}

// List implements port.Repository.
func (c *collection[R, PR, E, I, P, F]) List(ctx context.Context, filter F) ([]*E, error) {
	return c.list(ctx, c.table.Active, filter)
}

// Count implements port.Repository.
func (c *collection[R, PR, E, I, P, F]) Count(ctx context.Context, filter F) (int64, error) {
	return c.count(ctx, c.table.Active, filter)
}

// Exists implements port.Repository.
func (c *collection[R, PR, E, I, P, F]) Exists(ctx context.Context, id model.PublicID) (bool, error) {
	return c.exists(ctx, c.table.Active, id)
}

// Get implements port.Repository.
func (c *collection[R, PR, E, I, P, F]) Get(ctx context.Context, id model.PublicID) (*E, error) {
	return c.get(ctx, c.table.Active, id)
}

// Unrestricted implements port.Repository.
func (c *collection[R, PR, E, I, P, F]) Unrestricted() port.UnrestrictedReader[E, F] {
	return &unrestrictedReader[R, PR, E, I, P, F]{c}
}

// Create implements port.Repository.
func (c *collection[R, PR, E, I, P, F]) Create(ctx context.Context, in I) (*E, error) {
	if err := in.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}

	for attempt := 1; attempt <= c.store.maxIdentifierAttempts; attempt++ {
		id, err := c.store.identifiers.Generate()
		if err != nil {
			return nil, port.NewStoreError(errors.Wrap(err, "could not generate public id"))
		}

		var created *E

		err = c.store.withTransaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
			r := new(R)

			env := PR(r).envelope()
			env.PublicID = string(id)
			env.setAudit(model.NewAudit(c.store.now()))

			if err := c.spec.Write(r, c.resolver(tx), in); err != nil {
				return errors.WithStack(err)
			}

			if err := tx.Omit(clause.Associations).Create(r).Error; err != nil {
				return errors.WithStack(err)
			}

			if c.spec.Relations != nil {
				if err := c.spec.Relations.Save(tx, r); err != nil {
					return errors.WithStack(err)
				}
			}

			created, err = c.reload(tx, id)
			if err != nil {
				return errors.WithStack(err)
			}

			return nil
		})
		if err == nil {
			metrics.Mutations.WithLabelValues(c.spec.Name, metrics.OperationCreate).Inc()
			return created, nil
		}

		if isUniqueViolation(err) {
			metrics.IdentifierCollisions.WithLabelValues(c.spec.Name).Inc()
			slog.WarnContext(ctx, "public id collision, retrying with a fresh one", slog.String("collection", c.spec.Name), slog.Int("attempt", attempt))
			continue
		}

		return nil, errors.WithStack(err)
	}

	return nil, errors.Wrapf(port.ErrConflict, "could not assign a unique public id to %s after %d attempts", c.spec.Name, c.store.maxIdentifierAttempts)
}

// Replace implements port.Repository.
func (c *collection[R, PR, E, I, P, F]) Replace(ctx context.Context, id model.PublicID, in I) (*E, error) {
	if err := in.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}

	updated, err := c.update(ctx, id, func(current *E) (I, error) {
		return in, nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	metrics.Mutations.WithLabelValues(c.spec.Name, metrics.OperationReplace).Inc()

	return updated, nil
}

// Patch implements port.Repository.
func (c *collection[R, PR, E, I, P, F]) Patch(ctx context.Context, id model.PublicID, patch P) (*E, error) {
	updated, err := c.update(ctx, id, func(current *E) (I, error) {
		in := c.spec.ToInput(current)
		patch.Apply(&in)

		if err := in.Validate(); err != nil {
			return in, errors.WithStack(err)
		}

		return in, nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	metrics.Mutations.WithLabelValues(c.spec.Name, metrics.OperationPatch).Inc()

	return updated, nil
}

func (c *collection[R, PR, E, I, P, F]) update(ctx context.Context, id model.PublicID, fn func(current *E) (I, error)) (*E, error) {
	if !c.wellFormed(id) {
		return nil, c.notFound(id)
	}

	var updated *E

	err := c.store.withTransaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		r, err := c.table.find(tx, c.table.Active, c.spec.Preloads, id)
		if err != nil {
			return errors.WithStack(err)
		}

		if err := c.loadRelations(tx, r); err != nil {
			return errors.WithStack(err)
		}

		in, err := fn(c.spec.ToEntity(r))
		if err != nil {
			return errors.WithStack(err)
		}

		if err := c.spec.Write(r, c.resolver(tx), in); err != nil {
			return errors.WithStack(err)
		}

		env := PR(r).envelope()
		audit := env.audit()
		audit.Touch(c.store.now())
		env.setAudit(audit)

		if err := tx.Omit(clause.Associations).Save(r).Error; err != nil {
			return errors.WithStack(err)
		}

		if c.spec.Relations != nil {
			if err := c.spec.Relations.Save(tx, r); err != nil {
				return errors.WithStack(err)
			}
		}

		updated, err = c.reload(tx, id)
		if err != nil {
			return errors.WithStack(err)
		}

		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return updated, nil
}

// SoftDelete implements port.Repository.
func (c *collection[R, PR, E, I, P, F]) SoftDelete(ctx context.Context, id model.PublicID) error {
	return c.softDelete(ctx, c.table.Unrestricted, id)
}

// SoftDeleteActive implements port.Repository.
func (c *collection[R, PR, E, I, P, F]) SoftDeleteActive(ctx context.Context, id model.PublicID) error {
	return c.softDelete(ctx, c.table.Active, id)
}

func (c *collection[R, PR, E, I, P, F]) softDelete(ctx context.Context, s scope, id model.PublicID) error {
	_, err := c.transition(ctx, s, id, func(audit *model.Audit) {
		audit.SoftDelete(c.store.now())
	})
	if err != nil {
		return errors.WithStack(err)
	}

	metrics.Mutations.WithLabelValues(c.spec.Name, metrics.OperationSoftDelete).Inc()

	return nil
}

// Restore implements port.Repository.
func (c *collection[R, PR, E, I, P, F]) Restore(ctx context.Context, id model.PublicID) (*E, error) {
	restored, err := c.transition(ctx, c.table.Unrestricted, id, func(audit *model.Audit) {
		audit.Restore(c.store.now())
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	metrics.Mutations.WithLabelValues(c.spec.Name, metrics.OperationRestore).Inc()

	return restored, nil
}

// transition applies an audit envelope transition to a record visible in
// the given scope. Timestamps are written in a single statement.
func (c *collection[R, PR, E, I, P, F]) transition(ctx context.Context, s scope, id model.PublicID, fn func(audit *model.Audit)) (*E, error) {
	if !c.wellFormed(id) {
		return nil, c.notFound(id)
	}

	var entity *E

	err := c.store.withTransaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		r, err := c.table.find(tx, s, nil, id)
		if err != nil {
			return errors.WithStack(err)
		}

		env := PR(r).envelope()
		audit := env.audit()
		fn(&audit)

		err = tx.Model(PR(r)).UpdateColumns(map[string]any{
			"updated_at": audit.UpdatedAt,
			"deleted_at": audit.DeletedAt,
		}).Error
		if err != nil {
			return errors.WithStack(err)
		}

		entity, err = c.reload(tx, id)
		if err != nil {
			return errors.WithStack(err)
		}

		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return entity, nil
}

// HardDelete implements port.Repository.
func (c *collection[R, PR, E, I, P, F]) HardDelete(ctx context.Context, id model.PublicID) error {
	if !c.wellFormed(id) {
		return c.notFound(id)
	}

	err := c.store.withTransaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		r, err := c.table.find(tx, c.table.Unrestricted, nil, id)
		if err != nil {
			return errors.WithStack(err)
		}

		key := PR(r).envelope().ID

		for _, ref := range c.spec.Referrers {
			var total int64
			if err := tx.Table(ref.Table).Where(fmt.Sprintf("%s = ?", ref.Column), key).Count(&total).Error; err != nil {
				return errors.WithStack(err)
			}

			if total > 0 {
				return errors.Wrapf(port.ErrConflict, "%s '%s' is still referenced by %d record(s) of %s", c.spec.Name, id, total, ref.Table)
			}
		}

		if c.spec.Relations != nil {
			if err := c.spec.Relations.Delete(tx, r); err != nil {
				return errors.WithStack(err)
			}
		}

		if err := tx.Delete(PR(r)).Error; err != nil {
			if isForeignKeyViolation(err) {
				return errors.Wrapf(port.ErrConflict, "%s '%s' is still referenced: %s", c.spec.Name, id, err.Error())
			}
			return errors.WithStack(err)
		}

		return nil
	})
	if err != nil {
		return errors.WithStack(err)
	}

	metrics.Mutations.WithLabelValues(c.spec.Name, metrics.OperationHardDelete).Inc()

	return nil
}

func (c *collection[R, PR, E, I, P, F]) resolver(tx *gorm.DB) resolver {
	return resolver{tx: tx, ids: c.store.identifiers}
}

// wellFormed reports whether id can name a record of the store. Malformed
// ids are answered as not found without reaching the database.
func (c *collection[R, PR, E, I, P, F]) wellFormed(id model.PublicID) bool {
	return c.store.identifiers.Validate(id) == nil
}

func (c *collection[R, PR, E, I, P, F]) notFound(id model.PublicID) error {
	return errors.Wrapf(port.ErrNotFound, "no %s with id '%s'", c.spec.Name, id)
}

func (c *collection[R, PR, E, I, P, F]) reload(tx *gorm.DB, id model.PublicID) (*E, error) {
	r, err := c.table.find(tx, c.table.Unrestricted, c.spec.Preloads, id)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := c.loadRelations(tx, r); err != nil {
		return nil, errors.WithStack(err)
	}

	return c.spec.ToEntity(r), nil
}

func (c *collection[R, PR, E, I, P, F]) loadRelations(tx *gorm.DB, rows ...*R) error {
	if c.spec.Relations == nil || len(rows) == 0 {
		return nil
	}

	return c.spec.Relations.Load(tx, rows)
}

func (c *collection[R, PR, E, I, P, F]) list(ctx context.Context, s scope, filter F) ([]*E, error) {
	var entities []*E

	err := c.store.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		rows, err := c.table.list(db, s, c.spec.Preloads, c.spec.Filter(filter), c.spec.Options(filter), c.spec.Order...)
		if err != nil {
			return errors.WithStack(err)
		}

		if err := c.loadRelations(db, rows...); err != nil {
			return errors.WithStack(err)
		}

		entities = make([]*E, 0, len(rows))
		for _, r := range rows {
			entities = append(entities, c.spec.ToEntity(r))
		}

		return nil
	}, sqlite3.BUSY, sqlite3.LOCKED)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return entities, nil
}

func (c *collection[R, PR, E, I, P, F]) count(ctx context.Context, s scope, filter F) (int64, error) {
	var total int64

	err := c.store.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		var err error
		total, err = c.table.count(db, s, c.spec.Filter(filter))
		return errors.WithStack(err)
	}, sqlite3.BUSY, sqlite3.LOCKED)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return total, nil
}

func (c *collection[R, PR, E, I, P, F]) exists(ctx context.Context, s scope, id model.PublicID) (bool, error) {
	if !c.wellFormed(id) {
		return false, nil
	}

	var exists bool

	err := c.store.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		var err error
		exists, err = c.table.exists(db, s, id)
		return errors.WithStack(err)
	}, sqlite3.BUSY, sqlite3.LOCKED)
	if err != nil {
		return false, errors.WithStack(err)
	}

	return exists, nil
}

func (c *collection[R, PR, E, I, P, F]) get(ctx context.Context, s scope, id model.PublicID) (*E, error) {
	if !c.wellFormed(id) {
		return nil, c.notFound(id)
	}

	var entity *E

	err := c.store.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		r, err := c.table.find(db, s, c.spec.Preloads, id)
		if err != nil {
			return errors.WithStack(err)
		}

		if err := c.loadRelations(db, r); err != nil {
			return errors.WithStack(err)
		}

		entity = c.spec.ToEntity(r)

		return nil
	}, sqlite3.BUSY, sqlite3.LOCKED)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return entity, nil
}

// unrestrictedReader reads a collection without the default scope.
type unrestrictedReader[R any, PR row[R], E any, I validatable, P patcher[I], F any] struct {
	c *collection[R, PR, E, I, P, F]
}

// Count implements port.UnrestrictedReader.
func (u *unrestrictedReader[R, PR, E, I, P, F]) Count(ctx context.Context, filter F) (int64, error) {
	return u.c.count(ctx, u.c.table.Unrestricted, filter)
}

// Exists implements port.UnrestrictedReader.
func (u *unrestrictedReader[R, PR, E, I, P, F]) Exists(ctx context.Context, id model.PublicID) (bool, error) {
	return u.c.exists(ctx, u.c.table.Unrestricted, id)
}

// Get implements port.UnrestrictedReader.
func (u *unrestrictedReader[R, PR, E, I, P, F]) Get(ctx context.Context, id model.PublicID) (*E, error) {
	return u.c.get(ctx, u.c.table.Unrestricted, id)
}

// List implements port.UnrestrictedReader.
func (u *unrestrictedReader[R, PR, E, I, P, F]) List(ctx context.Context, filter F) ([]*E, error) {
	return u.c.list(ctx, u.c.table.Unrestricted, filter)
}
