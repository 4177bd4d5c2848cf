// Package repository implements the generic document-store data-access layer:
// a common document envelope, a declarative query descriptor, and a
// type-parameterized collection repository with cursor pagination.
package repository

import "time"

// Envelope is the metadata shape shared by every persisted entity: identity,
// lifecycle timestamps and an optional creator reference. Entities embed it
// inline; its fields are managed exclusively by Collection and must never be
// set by entity code.
type Envelope struct {
	ID        string    `bson:"_id,omitempty" json:"id,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
	CreatedBy string    `bson:"createdByUid,omitempty" json:"createdByUid,omitempty"`
}

func (e *Envelope) envelope() *Envelope { return e }

// Document is satisfied by any entity type embedding Envelope. The accessor
// is unexported so the constraint cannot be met without the embedding, which
// keeps envelope management inside this package.
type Document interface {
	envelope() *Envelope
}

// Envelope field names as stored. Patches are stripped of these keys before a
// merge so an update can never touch identity or creation metadata.
const (
	fieldID        = "_id"
	fieldCreatedAt = "createdAt"
	fieldUpdatedAt = "updatedAt"
	fieldCreatedBy = "createdByUid"
)
