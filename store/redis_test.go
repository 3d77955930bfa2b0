package store

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStoreTest(t *testing.T, opts ...RedisOption) (*Redis, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	st := NewRedis(rdb, "ps", opts...)
	return st, mr, func() {
		_ = rdb.Close()
		mr.Close()
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	st, _, done := newRedisStoreTest(t)
	defer done()

	if _, ok := st.Get("konnect_portal_session"); ok {
		t.Fatal("expected miss on empty store")
	}

	st.Set("konnect_portal_session", "v1.payload")
	got, ok := st.Get("konnect_portal_session")
	if !ok || got != "v1.payload" {
		t.Fatalf("expected hit with stored value, got %q ok=%v", got, ok)
	}

	st.Set("konnect_portal_session", "v1.other")
	got, _ = st.Get("konnect_portal_session")
	if got != "v1.other" {
		t.Fatalf("expected overwrite, got %q", got)
	}
}

func TestRedisStoreRemoveIdempotent(t *testing.T) {
	st, _, done := newRedisStoreTest(t)
	defer done()

	st.Set("slot", "value")
	st.Remove("slot")
	st.Remove("slot")

	if _, ok := st.Get("slot"); ok {
		t.Fatal("expected miss after remove")
	}
}

func TestRedisStoreKeyPrefix(t *testing.T) {
	st, mr, done := newRedisStoreTest(t)
	defer done()

	st.Set("slot", "value")
	if !mr.Exists("ps:slot") {
		t.Fatalf("expected prefixed key ps:slot, keys: %v", mr.Keys())
	}
}

func TestRedisStoreTTL(t *testing.T) {
	st, mr, done := newRedisStoreTest(t, WithTTL(time.Minute))
	defer done()

	st.Set("slot", "value")
	if ttl := mr.TTL("ps:slot"); ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", ttl)
	}
}

func TestRedisStoreBackendFailureReportsMiss(t *testing.T) {
	st, mr, done := newRedisStoreTest(t)
	defer done()

	st.Set("slot", "value")
	mr.Close()

	if _, ok := st.Get("slot"); ok {
		t.Fatal("expected miss when backend is unavailable")
	}
	// Writes against a dead backend must not panic.
	st.Set("slot", "value2")
	st.Remove("slot")
}
