package flows

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/portalkit/portalsession/session"
)

type fakeStore struct {
	values  map[string]string
	sets    int
	removes int
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *fakeStore) Set(key, value string) {
	f.sets++
	f.values[key] = value
}

func (f *fakeStore) Remove(key string) {
	f.removes++
	delete(f.values, key)
}

func developerRecord() *session.Record {
	return &session.Record{
		Developer: &session.Developer{
			ID:       uuid.MustParse("5f2dca65-39bb-4e92-9f93-97b1e1f62fb5"),
			Email:    "dev@example.com",
			PortalID: uuid.MustParse("0a41f1f9-3b65-4dc6-8b76-9d8a4acb22ab"),
		},
	}
}

type saveHarness struct {
	store   *fakeStore
	current *session.Record
	synced  int
}

func (h *saveHarness) deps(exists bool, eligible bool) SaveDeps {
	return SaveDeps{
		SlotKey: "slot",
		Store:   h.store,
		Encode:  session.JSONCodec{}.Encode,
		Replace: func(rec *session.Record) { h.current = rec.Clone() },
		Exists:  func(context.Context) bool { return exists || h.current.Authenticated() },
		SyncEligible: func() bool { return eligible },
		EnqueueSync: func(context.Context) bool {
			h.synced++
			return true
		},
	}
}

func TestSaveForcedAlwaysPersists(t *testing.T) {
	h := &saveHarness{store: newFakeStore(), current: &session.Record{}}

	res := RunSave(context.Background(), developerRecord(), true, h.deps(false, false))
	if res.Encode != EncodeOK {
		t.Fatalf("expected EncodeOK, got %v", res.Encode)
	}
	if !res.Persisted {
		t.Fatal("forced save must persist")
	}
	if h.store.sets != 1 {
		t.Fatalf("expected one write, got %d", h.store.sets)
	}
	if !h.current.Authenticated() {
		t.Fatal("in-memory record not replaced")
	}
}

func TestSaveUnforcedSkipsWriteWhenSessionExists(t *testing.T) {
	h := &saveHarness{store: newFakeStore(), current: developerRecord()}
	h.store.Set("slot", "prior")
	h.store.sets = 0

	res := RunSave(context.Background(), &session.Record{RedirectTarget: "/x"}, false, h.deps(true, false))
	if res.Persisted {
		t.Fatal("unforced save over an existing session must not persist")
	}
	if got, _ := h.store.Get("slot"); got != "prior" {
		t.Fatalf("persisted slot clobbered: %q", got)
	}
	if h.current.RedirectTarget != "/x" {
		t.Fatal("in-memory replacement skipped")
	}
}

func TestSaveUnforcedEstablishesFirstSession(t *testing.T) {
	h := &saveHarness{store: newFakeStore(), current: &session.Record{}}

	res := RunSave(context.Background(), developerRecord(), false, h.deps(false, false))
	if !res.Persisted {
		t.Fatal("first session must be established even unforced")
	}
	if _, ok := h.store.Get("slot"); !ok {
		t.Fatal("slot missing after first save")
	}
}

func TestSaveSpawnsPermissionSyncWhenEligible(t *testing.T) {
	h := &saveHarness{store: newFakeStore(), current: &session.Record{}}

	res := RunSave(context.Background(), developerRecord(), true, h.deps(false, true))
	if !res.SyncSpawned {
		t.Fatal("expected permission sync spawn")
	}
	if h.synced != 1 {
		t.Fatalf("expected one sync enqueue, got %d", h.synced)
	}
}

func TestSaveSkipsPermissionSyncForAnonymousRecord(t *testing.T) {
	h := &saveHarness{store: newFakeStore(), current: &session.Record{}}

	res := RunSave(context.Background(), &session.Record{}, true, h.deps(false, true))
	if res.SyncSpawned {
		t.Fatal("anonymous save must not spawn permission sync")
	}
	if h.synced != 0 {
		t.Fatalf("unexpected sync enqueue: %d", h.synced)
	}
}

func TestSaveEncodeFailureTriState(t *testing.T) {
	encodeErr := errors.New("boom")
	var warned bool

	base := func(rec *session.Record) SaveDeps {
		h := &saveHarness{store: newFakeStore(), current: &session.Record{}}
		deps := h.deps(false, false)
		deps.Encode = func(*session.Record) (string, error) { return "", encodeErr }
		deps.Warnf = func(string, ...any) { warned = true }
		_ = rec
		return deps
	}

	// Developer-less record: already invalidated, silent.
	warned = false
	res := RunSave(context.Background(), &session.Record{}, true, base(&session.Record{}))
	if res.Encode != EncodeAlreadyInvalid {
		t.Fatalf("expected EncodeAlreadyInvalid, got %v", res.Encode)
	}
	if warned {
		t.Fatal("already-invalid encode failure must be silent")
	}
	if res.Persisted {
		t.Fatal("failed encode must not persist")
	}

	// Developer record: reported, still no error raised.
	warned = false
	res = RunSave(context.Background(), developerRecord(), true, base(developerRecord()))
	if res.Encode != EncodeFailed {
		t.Fatalf("expected EncodeFailed, got %v", res.Encode)
	}
	if !warned {
		t.Fatal("encode failure with developer present must be reported")
	}
	if !errors.Is(res.Err, encodeErr) {
		t.Fatalf("expected wrapped encode error, got %v", res.Err)
	}
}
