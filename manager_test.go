package portalsession

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/portalkit/portalsession/identity"
	"github.com/portalkit/portalsession/session"
	"github.com/portalkit/portalsession/store"
)

type fakeIdentity struct {
	mu sync.Mutex

	perms     *identity.Permissions
	permsErr  error
	permsDone chan struct{}

	logoutErr   error
	logoutGate  chan struct{}
	logoutCalls int

	refreshStatus int
	refreshErr    error
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		perms:         &identity.Permissions{Krns: []string{"krn:services:read"}},
		permsDone:     make(chan struct{}, 16),
		refreshStatus: http.StatusOK,
	}
}

func (f *fakeIdentity) GetPermissions(context.Context, uuid.UUID) (*identity.Permissions, error) {
	f.mu.Lock()
	perms, err := f.perms, f.permsErr
	f.mu.Unlock()

	select {
	case f.permsDone <- struct{}{}:
	default:
	}
	return perms, err
}

func (f *fakeIdentity) Logout(context.Context) error {
	f.mu.Lock()
	f.logoutCalls++
	gate, err := f.logoutGate, f.logoutErr
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeIdentity) Refresh(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshStatus, f.refreshErr
}

func (f *fakeIdentity) LogoutCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logoutCalls
}

func (f *fakeIdentity) waitForSync(t *testing.T) {
	t.Helper()
	select {
	case <-f.permsDone:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for permission sync")
	}
}

func testPortalID() uuid.UUID {
	return uuid.MustParse("6f2c1a58-3d0e-4c4a-9d91-b2f5f7f1b9aa")
}

func newTestManager(t *testing.T, id identity.Client, mutate func(*Config)) (*Manager, *store.Memory) {
	t.Helper()

	cfg := defaultConfig()
	cfg.Portal.ID = testPortalID()
	cfg.Portal.FallbackOrigin = "https://portal.example.com"
	if mutate != nil {
		mutate(&cfg)
	}

	mem := store.NewMemory()
	manager, err := New().
		WithConfig(cfg).
		WithStore(mem).
		WithIdentityClient(id).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(manager.Close)

	return manager, mem
}

func authenticatedRecord() *session.Record {
	return &session.Record{
		Developer: &session.Developer{
			ID:             uuid.MustParse("0b0f3f6e-98a1-4dc0-8f0d-2f1a7c9b5e21"),
			Email:          "dev@example.com",
			PortalID:       testPortalID(),
			ExpirationDate: time.Date(2027, 1, 2, 3, 4, 5, 0, time.UTC),
		},
	}
}

func TestSaveForcedPersistsAndFetchRoundTrip(t *testing.T) {
	manager, mem := newTestManager(t, newFakeIdentity(), nil)
	ctx := context.Background()

	res := manager.Save(ctx, authenticatedRecord(), true)
	if res.Encode != EncodeOK {
		t.Fatalf("expected EncodeOK, got %v", res.Encode)
	}
	if !res.Persisted {
		t.Fatal("expected forced save to persist")
	}
	if _, ok := mem.Get(DefaultSessionName); !ok {
		t.Fatal("expected persisted slot under the session name")
	}

	rec := manager.FetchData(ctx)
	if !rec.Authenticated() {
		t.Fatal("expected authenticated record after round trip")
	}
	if rec.Developer.Email != "dev@example.com" {
		t.Fatalf("unexpected email %q", rec.Developer.Email)
	}
}

func TestSaveUnforcedSkipsPersistWhenSessionExists(t *testing.T) {
	manager, mem := newTestManager(t, newFakeIdentity(), nil)
	ctx := context.Background()

	manager.Save(ctx, authenticatedRecord(), true)
	persisted, _ := mem.Get(DefaultSessionName)

	updated := authenticatedRecord()
	updated.Developer.Email = "renamed@example.com"
	res := manager.Save(ctx, updated, false)

	if res.Persisted {
		t.Fatal("expected non-forced save over an existing session to skip persistence")
	}
	if after, _ := mem.Get(DefaultSessionName); after != persisted {
		t.Fatal("expected persisted slot to be untouched")
	}
	// The read-through user still answers from the untouched slot.
	if got := manager.User(ctx); got == nil || got.Email != "dev@example.com" {
		t.Fatalf("expected persisted developer from slot, got %+v", got)
	}
}

func TestSaveUnforcedPersistsFirstSession(t *testing.T) {
	manager, mem := newTestManager(t, newFakeIdentity(), nil)

	res := manager.Save(context.Background(), authenticatedRecord(), false)
	if !res.Persisted {
		t.Fatal("expected first session establishment to persist without force")
	}
	if _, ok := mem.Get(DefaultSessionName); !ok {
		t.Fatal("expected persisted slot after first save")
	}
}

func TestSavePermissionSyncReplacesHeldSet(t *testing.T) {
	id := newFakeIdentity()
	id.perms = &identity.Permissions{Krns: []string{"krn:routes:read", "krn:routes:write"}}

	manager, _ := newTestManager(t, id, func(cfg *Config) {
		cfg.Portal.RBACEnabled = true
	})

	res := manager.Save(context.Background(), authenticatedRecord(), true)
	if !res.SyncSpawned {
		t.Fatal("expected permission sync to be spawned")
	}

	id.waitForSync(t)
	waitFor(t, func() bool { return manager.Permissions().Count() == 2 })

	if !manager.Permissions().Has("krn:routes:write") {
		t.Fatal("expected fetched krn in permission store")
	}
}

func TestSaveSkipsSyncOnPublicPortal(t *testing.T) {
	manager, _ := newTestManager(t, newFakeIdentity(), func(cfg *Config) {
		cfg.Portal.RBACEnabled = true
		cfg.Portal.Public = true
	})

	res := manager.Save(context.Background(), authenticatedRecord(), true)
	if res.SyncSpawned {
		t.Fatal("expected no permission sync on a public portal")
	}
}

func TestSaveSkipsSyncWhenAnonymous(t *testing.T) {
	manager, _ := newTestManager(t, newFakeIdentity(), func(cfg *Config) {
		cfg.Portal.RBACEnabled = true
	})

	res := manager.Save(context.Background(), &session.Record{}, true)
	if res.SyncSpawned {
		t.Fatal("expected no permission sync without a session")
	}
}

func TestSyncDisabledSentinelLeavesHeldSet(t *testing.T) {
	id := newFakeIdentity()
	id.perms = &identity.Permissions{Status: http.StatusOK, Disabled: true}

	manager, _ := newTestManager(t, id, func(cfg *Config) {
		cfg.Portal.RBACEnabled = true
	})
	manager.Permissions().ReplaceAll([]string{"krn:kept"})

	manager.Save(context.Background(), authenticatedRecord(), true)
	id.waitForSync(t)
	waitFor(t, func() bool {
		return manager.MetricsSnapshot().Counters[MetricPermissionSyncDisabled] == 1
	})

	if !manager.Permissions().Has("krn:kept") {
		t.Fatal("expected held permissions untouched by disabled sentinel")
	}
}

func TestFetchSelfHealsAbsentSlot(t *testing.T) {
	manager, mem := newTestManager(t, newFakeIdentity(), nil)

	rec := manager.FetchData(context.Background())
	if rec.Authenticated() {
		t.Fatal("expected anonymous record from empty store")
	}
	if _, ok := mem.Get(DefaultSessionName); !ok {
		t.Fatal("expected absent slot to be bootstrapped")
	}
}

func TestFetchCorruptSlotResetsToEmpty(t *testing.T) {
	manager, mem := newTestManager(t, newFakeIdentity(), nil)
	mem.Set(DefaultSessionName, "not a session payload")

	rec := manager.FetchData(context.Background())
	if rec.Authenticated() {
		t.Fatal("expected reset-to-empty record after corruption")
	}

	// The re-persisted slot must decode cleanly on the next fetch.
	raw, ok := mem.Get(DefaultSessionName)
	if !ok {
		t.Fatal("expected slot re-persisted after reset")
	}
	if _, err := (session.JSONCodec{}).Decode(raw); err != nil {
		t.Fatalf("expected decodable slot after reset, got %v", err)
	}

	snap := manager.MetricsSnapshot()
	if snap.Counters[MetricDecodeFailure] != 1 {
		t.Fatalf("expected one decode failure recorded, got %d", snap.Counters[MetricDecodeFailure])
	}
}

func TestExistsIdPMarkerOnPageURL(t *testing.T) {
	manager, _ := newTestManager(t, newFakeIdentity(), nil)

	ctx := WithPageURL(context.Background(), "https://portal.example.com/?loginSuccess=true")
	if !manager.Exists(ctx) {
		t.Fatal("expected existence from IdP marker")
	}

	ctx = WithPageURL(context.Background(), "https://portal.example.com/?loginSuccess=false")
	if manager.Exists(ctx) {
		t.Fatal("expected no existence without marker")
	}
}

func TestExistsTestBypassCookie(t *testing.T) {
	manager, _ := newTestManager(t, newFakeIdentity(), func(cfg *Config) {
		cfg.Session.CookiePresence = func(name string) bool {
			return name == TestBypassCookieName
		}
	})

	if !manager.Exists(context.Background()) {
		t.Fatal("expected existence from test bypass cookie")
	}
}

func TestUserNilWhenAnonymous(t *testing.T) {
	manager, _ := newTestManager(t, newFakeIdentity(), nil)

	if got := manager.User(context.Background()); got != nil {
		t.Fatalf("expected nil user, got %+v", got)
	}
}

func TestReadyAfterBuild(t *testing.T) {
	manager, _ := newTestManager(t, newFakeIdentity(), nil)

	if err := manager.Ready(); err != nil {
		t.Fatalf("expected ready manager, got %v", err)
	}

	var zero *Manager
	if !errors.Is(zero.Ready(), ErrManagerNotReady) {
		t.Fatal("expected ErrManagerNotReady from zero manager")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
