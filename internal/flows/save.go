package flows

import (
	"context"

	"github.com/portalkit/portalsession/session"
)

// EncodeOutcome classifies the serialization leg of a save. Callers get an
// explicit tri-state instead of inferring intent from error shapes: a record
// with no developer that fails to serialize was already invalidated and is
// ignored silently; any other failure is reported but never raised.
type EncodeOutcome int

const (
	EncodeOK EncodeOutcome = iota
	EncodeAlreadyInvalid
	EncodeFailed
)

// SaveResult carries the save outcome and its side-effect decisions.
type SaveResult struct {
	Encode      EncodeOutcome
	Persisted   bool
	SyncSpawned bool
	Err         error
}

type SaveStore interface {
	Set(key, value string)
}

// SaveDeps captures save flow dependencies.
type SaveDeps struct {
	SlotKey      string
	Store        SaveStore
	Encode       func(*session.Record) (string, error)
	Replace      func(*session.Record)
	Exists       func(context.Context) bool
	SyncEligible func() bool
	EnqueueSync  func(context.Context) bool
	Warnf        func(string, ...any)
}

// RunSave replaces the in-memory record, applies the persistence policy, and
// spawns the detached permission sync. The in-memory mutation and persistence
// decision complete before RunSave returns; the sync is a detached tail.
//
// Persistence policy: write when forced, or when no session existed before
// the call. A non-forced save over an existing session never clobbers the
// persisted slot.
func RunSave(ctx context.Context, rec *session.Record, force bool, deps SaveDeps) SaveResult {
	existedBefore := deps.Exists(ctx)
	deps.Replace(rec)

	result := SaveResult{Encode: EncodeOK}

	encoded, err := deps.Encode(rec)
	if err != nil {
		if rec == nil || rec.Developer == nil {
			// Serialization failure of a developer-less record signals the
			// session was already invalidated; nothing to report.
			result.Encode = EncodeAlreadyInvalid
		} else {
			result.Encode = EncodeFailed
			result.Err = err
			if deps.Warnf != nil {
				deps.Warnf("portalsession: session encode failed: %s", err)
			}
		}
	}

	if result.Encode == EncodeOK && (force || !existedBefore) {
		deps.Store.Set(deps.SlotKey, encoded)
		result.Persisted = true
	}

	if deps.Exists(ctx) && deps.SyncEligible != nil && deps.SyncEligible() {
		result.SyncSpawned = deps.EnqueueSync(ctx)
	}

	return result
}
