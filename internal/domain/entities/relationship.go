package entities

import (
	"errors"
	"time"
)

// Status is the lifecycle state of a relationship.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Sentinel errors returned by the store and query engine. Callers are
// expected to switch on these with errors.Is; driver-level detail is
// logged, not returned.
var (
	ErrInvalidStatus = errors.New("invalid relationship status")
	ErrInvalidType   = errors.New("invalid relationship type")
	ErrNotFound      = errors.New("relationship not found")
	ErrInsertFailed  = errors.New("relationship insert failed")
	ErrUpdateFailed  = errors.New("relationship update failed")
	ErrDeleteFailed  = errors.New("relationship delete failed")
)

// Relationship is a typed, directed edge between two object references.
// The endpoints (FromID, ToID) are opaque integer ids; which object
// family they belong to is carried by the registered Type, and
// resolving them to concrete objects is the caller's job.
type Relationship struct {
	ID       int64     `json:"id"`
	Author   int64     `json:"author"`
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	Content  string    `json:"content"`
	Type     string    `json:"type"`
	Status   Status    `json:"status"`
	Parent   int64     `json:"parent"`
	Order    int64     `json:"order"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
	Updated  time.Time `json:"updated"`
	FromID   int64     `json:"from_id"`
	ToID     int64     `json:"to_id"`
}

// NewRelationship returns a relationship populated with the defaults a
// freshly created row receives before sanitization.
func NewRelationship(now time.Time) Relationship {
	return Relationship{
		Status:   StatusActive,
		Created:  now,
		Modified: now,
		Updated:  now,
	}
}

// Equal reports whether two relationships carry the same field values,
// ignoring the write timestamps. Used to detect no-op updates.
func (r Relationship) Equal(other Relationship) bool {
	r.Modified, other.Modified = time.Time{}, time.Time{}
	r.Updated, other.Updated = time.Time{}, time.Time{}
	return r == other
}
