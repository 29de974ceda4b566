package gorm

import (
	"time"

	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/bornholm/clubhouse/internal/fixture"
	"github.com/pkg/errors"
)

// Envelope holds the identity and audit columns shared by every table.
// Timestamps are always assigned by the store, never by GORM.
type Envelope struct {
	ID       uint   `gorm:"primaryKey"`
	PublicID string `gorm:"uniqueIndex;not null"`

	CreatedAt time.Time  `gorm:"autoCreateTime:false;not null"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime:false;not null"`
	DeletedAt *time.Time `gorm:"index"`
}

func (e *Envelope) envelope() *Envelope {
	return e
}

func (e *Envelope) identity() model.Identity {
	return model.Identity{
		Key:      e.ID,
		PublicID: model.PublicID(e.PublicID),
	}
}

func (e *Envelope) audit() model.Audit {
	return model.Audit{
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
		DeletedAt: e.DeletedAt,
	}
}

func (e *Envelope) setAudit(a model.Audit) {
	e.CreatedAt = a.CreatedAt
	e.UpdatedAt = a.UpdatedAt
	e.DeletedAt = a.DeletedAt
}

func (e *Envelope) exportFields(fields fixture.Fields) {
	fields["public_id"] = e.PublicID
	fields["created_at"] = fixture.FormatTime(e.CreatedAt)
	fields["updated_at"] = fixture.FormatTime(e.UpdatedAt)
	fields["deleted_at"] = fixture.FormatOptionalTime(e.DeletedAt)
}

func (e *Envelope) importFields(key uint, fields fixture.Fields) error {
	var err error

	e.ID = key

	if e.PublicID, err = fields.String("public_id"); err != nil {
		return errors.WithStack(err)
	}
	if e.PublicID == "" {
		return errors.Wrap(fixture.ErrMissingField, "'public_id'")
	}

	if e.CreatedAt, err = fields.Time("created_at"); err != nil {
		return errors.WithStack(err)
	}

	if e.UpdatedAt, err = fields.Time("updated_at"); err != nil {
		return errors.WithStack(err)
	}

	if e.DeletedAt, err = fields.OptionalTime("deleted_at"); err != nil {
		return errors.WithStack(err)
	}

	return nil
}
