package model

// PubliclyIdentifiable is implemented by every record carrying an Identity.
type PubliclyIdentifiable interface {
	Identifier() *Identity
}

// Auditable is implemented by every record carrying an audit envelope.
type Auditable interface {
	Envelope() *Audit
}

// Record is the capability set shared by every persisted entity.
type Record interface {
	PubliclyIdentifiable
	Auditable
}

// Identity pairs the storage key of a record with its public identifier.
// The key never leaves the process boundary.
type Identity struct {
	Key      uint     `json:"-"`
	PublicID PublicID `json:"id"`
}

// Identifier implements PubliclyIdentifiable.
func (i *Identity) Identifier() *Identity {
	return i
}

// PublicID is the opaque, immutable identifier used in all external references.
type PublicID string

func (id PublicID) String() string {
	return string(id)
}

// PublicIDs extracts the public identifiers of the given records.
func PublicIDs[R PubliclyIdentifiable](records []R) []PublicID {
	ids := make([]PublicID, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.Identifier().PublicID)
	}
	return ids
}
