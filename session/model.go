package session

import (
	"time"

	"github.com/google/uuid"
)

// Developer is the authenticated end-user entity held by a session. A
// Developer is present iff the session is authenticated.
//
// Developer instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Developer struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	PortalID       uuid.UUID `json:"portalId"`
	ExpirationDate time.Time `json:"expirationDate"`
}

// Record is the authoritative in-memory session state. A Record with a nil
// Developer represents an anonymous or expired session. Records are replaced
// wholesale, never partially merged.
//
// Record instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Record struct {
	Developer      *Developer `json:"developer,omitempty"`
	RedirectTarget string     `json:"redirectTarget,omitempty"`
}

// Authenticated reports whether the record carries a developer with a
// non-zero ID.
func (r *Record) Authenticated() bool {
	return r != nil && r.Developer != nil && r.Developer.ID != uuid.Nil
}

// Clone returns a deep copy of the record. Clone of nil yields an empty record.
func (r *Record) Clone() *Record {
	if r == nil {
		return &Record{}
	}
	out := &Record{RedirectTarget: r.RedirectTarget}
	if r.Developer != nil {
		dev := *r.Developer
		out.Developer = &dev
	}
	return out
}
