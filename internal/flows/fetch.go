package flows

import (
	"context"

	"github.com/portalkit/portalsession/session"
)

type FetchStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// FetchResult carries the rehydrated record and bootstrap metadata.
type FetchResult struct {
	Record     *session.Record
	SelfHealed bool
	DecodeErr  error
}

// FetchDeps captures fetch/bootstrap flow dependencies.
type FetchDeps struct {
	SlotKey      string
	Store        FetchStore
	Encode       func(*session.Record) (string, error)
	Decode       func(string) (*session.Record, error)
	Current      func() *session.Record
	Replace      func(*session.Record)
	PersistEmpty func(context.Context)
	Warnf        func(string, ...any)
}

// RunFetch rehydrates the in-memory record from the persisted slot. An absent
// slot is self-healed from the current in-memory record so a value exists in
// storage after the first read. Decode failures reset state to empty, persist
// the empty record, and are reported in the result rather than raised.
func RunFetch(ctx context.Context, deps FetchDeps) FetchResult {
	raw, ok := deps.Store.Get(deps.SlotKey)
	healed := false

	if !ok || raw == "" {
		encoded, err := deps.Encode(deps.Current())
		if err == nil {
			deps.Store.Set(deps.SlotKey, encoded)
			raw = encoded
			healed = true
		}
		// On encode failure raw stays empty and the decode path below
		// resolves to the reset-to-empty branch.
	}

	rec, err := deps.Decode(raw)
	if err != nil {
		if deps.Warnf != nil {
			deps.Warnf("portalsession: persisted session rejected: %s", err)
		}
		empty := &session.Record{}
		deps.Replace(empty)
		deps.PersistEmpty(ctx)
		return FetchResult{Record: empty, SelfHealed: healed, DecodeErr: err}
	}

	deps.Replace(rec)
	return FetchResult{Record: rec, SelfHealed: healed}
}
