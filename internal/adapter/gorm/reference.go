package gorm

import (
	"time"

	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/bornholm/clubhouse/internal/core/port"
	"github.com/bornholm/clubhouse/internal/identifier"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func (s *Store) now() time.Time {
	return s.clock.Now().UTC().Round(0)
}

// normalizeDate brings a date compared in queries to a canonical form: UTC,
// truncated to the second.
func normalizeDate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func normalizeOptionalDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	normalized := normalizeDate(*t)
	return &normalized
}

// resolver turns the public ids referenced by an input into storage keys.
type resolver struct {
	tx  *gorm.DB
	ids identifier.Generator
}

func (r resolver) check(field string, id model.PublicID) error {
	if err := r.ids.Validate(id); err != nil {
		return model.NewValidationError(field, "malformed identifier '"+id.String()+"'")
	}
	return nil
}

// reference resolves the public id of a referenced record into its storage
// key. A new reference must target an active record. A reference left
// unchanged is kept even if its target has since been soft-deleted.
func reference[R any, PR row[R]](res resolver, field string, current *uint, id *model.PublicID) (*uint, error) {
	if id == nil {
		return nil, nil
	}

	if err := res.check(field, *id); err != nil {
		return nil, errors.WithStack(err)
	}

	tx := res.tx

	var table scopedTable[R, PR]

	key, err := table.key(tx, table.Unrestricted, *id)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return nil, model.NewValidationError(field, "references an unknown record '"+id.String()+"'")
		}
		return nil, errors.WithStack(err)
	}

	if current != nil && *current == key {
		return &key, nil
	}

	active, err := table.exists(tx, table.Active, *id)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if !active {
		return nil, model.NewValidationError(field, "references a deleted record '"+id.String()+"'")
	}

	return &key, nil
}

// references resolves a list of references, keeping the given order. The
// keys in current are the targets already linked to the owner.
func references[R any, PR row[R]](res resolver, field string, current []linked, ids []model.PublicID) ([]linked, error) {
	kept := make(map[uint]struct{}, len(current))
	for _, l := range current {
		kept[l.Key] = struct{}{}
	}

	for _, id := range ids {
		if err := res.check(field, id); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	tx := res.tx

	var table scopedTable[R, PR]

	resolved := make([]linked, 0, len(ids))

	for _, id := range ids {
		key, err := table.key(tx, table.Unrestricted, id)
		if err != nil {
			if errors.Is(err, port.ErrNotFound) {
				return nil, model.NewValidationError(field, "references an unknown record '"+id.String()+"'")
			}
			return nil, errors.WithStack(err)
		}

		if _, exists := kept[key]; !exists {
			active, err := table.exists(tx, table.Active, id)
			if err != nil {
				return nil, errors.WithStack(err)
			}

			if !active {
				return nil, model.NewValidationError(field, "references a deleted record '"+id.String()+"'")
			}
		}

		resolved = append(resolved, linked{Key: key, PublicID: id})
	}

	return resolved, nil
}

// linked is a record referenced through a link table.
type linked struct {
	Key      uint
	PublicID model.PublicID
}

func linkedIDs(links []linked) []model.PublicID {
	ids := make([]model.PublicID, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.PublicID)
	}
	return ids
}
