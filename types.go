package portalsession

import (
	"github.com/google/uuid"

	"github.com/portalkit/portalsession/internal/flows"
)

// UserInfo defines a public type used by portalsession APIs.
//
// UserInfo is the projection of the authenticated developer handed to the UI
// layer. A zero UserInfo means no authenticated user.
type UserInfo struct {
	ID    uuid.UUID
	Email string
}

// SaveResult reports a save's encode outcome and side-effect decisions.
type SaveResult = flows.SaveResult

// EncodeOutcome is the explicit tri-state result of the save/encode path.
type EncodeOutcome = flows.EncodeOutcome

const (
	// EncodeOK is an exported constant or variable used by the session manager.
	EncodeOK = flows.EncodeOK
	// EncodeAlreadyInvalid is an exported constant or variable used by the session manager.
	EncodeAlreadyInvalid = flows.EncodeAlreadyInvalid
	// EncodeFailed is an exported constant or variable used by the session manager.
	EncodeFailed = flows.EncodeFailed
)

// RefreshOutcome is the explicit result of a refresh attempt.
type RefreshOutcome = flows.RefreshOutcome

const (
	// RefreshActive is an exported constant or variable used by the session manager.
	RefreshActive = flows.RefreshActive
	// RefreshExpired is an exported constant or variable used by the session manager.
	RefreshExpired = flows.RefreshExpired
	// RefreshIndeterminate is an exported constant or variable used by the session manager.
	RefreshIndeterminate = flows.RefreshIndeterminate
)
