package model

import "time"

// Audit is the envelope of timestamps shared by every persisted entity.
// A record is active iff DeletedAt is nil.
type Audit struct {
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// NewAudit returns the envelope of a record created at now.
func NewAudit(now time.Time) Audit {
	return Audit{
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Envelope implements Auditable.
func (a *Audit) Envelope() *Audit {
	return a
}

func (a *Audit) Active() bool {
	return a.DeletedAt == nil
}

// Touch refreshes UpdatedAt. UpdatedAt never goes below CreatedAt.
func (a *Audit) Touch(now time.Time) {
	if now.Before(a.CreatedAt) {
		now = a.CreatedAt
	}
	a.UpdatedAt = now
}

// SoftDelete marks the record as deleted. Deleting an already deleted
// record stamps it again.
func (a *Audit) SoftDelete(now time.Time) {
	a.Touch(now)
	deletedAt := a.UpdatedAt
	a.DeletedAt = &deletedAt
}

// Restore clears the deletion mark. It still refreshes UpdatedAt when the
// record is already active.
func (a *Audit) Restore(now time.Time) {
	a.Touch(now)
	a.DeletedAt = nil
}
