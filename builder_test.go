package portalsession

import (
	"context"
	"errors"
	"testing"

	"github.com/portalkit/portalsession/session"
	"github.com/portalkit/portalsession/store"
)

func TestBuildRequiresStore(t *testing.T) {
	_, err := New().WithIdentityClient(newFakeIdentity()).Build()
	if !errors.Is(err, ErrStoreRequired) {
		t.Fatalf("expected ErrStoreRequired, got %v", err)
	}
}

func TestBuildRequiresIdentitySource(t *testing.T) {
	// No injected client and no base URL to construct one from.
	_, err := New().WithStore(store.NewMemory()).Build()
	if !errors.Is(err, ErrIdentityClientRequired) {
		t.Fatalf("expected ErrIdentityClientRequired, got %v", err)
	}
}

func TestBuildDefaultIdentityClientFromBaseURL(t *testing.T) {
	cfg := defaultConfig()
	cfg.Identity.BaseURL = "https://identity.example.com"

	manager, err := New().
		WithConfig(cfg).
		WithStore(store.NewMemory()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer manager.Close()

	if err := manager.Ready(); err != nil {
		t.Fatalf("expected ready manager, got %v", err)
	}
}

func TestBuilderSingleUse(t *testing.T) {
	b := New().WithStore(store.NewMemory()).WithIdentityClient(newFakeIdentity())

	manager, err := b.Build()
	if err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	defer manager.Close()

	if _, err := b.Build(); !errors.Is(err, ErrBuilderUsed) {
		t.Fatalf("expected ErrBuilderUsed, got %v", err)
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Session.Encoding = "xml"

	_, err := New().
		WithConfig(cfg).
		WithStore(store.NewMemory()).
		WithIdentityClient(newFakeIdentity()).
		Build()
	if !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding, got %v", err)
	}
}

func TestBuildSignedEncodingRoundTrip(t *testing.T) {
	cfg := defaultConfig()
	cfg.Session.Encoding = SessionEncodingSigned
	cfg.Session.SigningKey = []byte("0123456789abcdef0123456789abcdef")

	mem := store.NewMemory()
	manager, err := New().
		WithConfig(cfg).
		WithStore(mem).
		WithIdentityClient(newFakeIdentity()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer manager.Close()

	ctx := context.Background()
	manager.Save(ctx, authenticatedRecord(), true)

	raw, ok := mem.Get(DefaultSessionName)
	if !ok {
		t.Fatal("expected persisted slot")
	}
	codec, err := session.NewSignedCodec(cfg.Session.SigningKey)
	if err != nil {
		t.Fatalf("NewSignedCodec failed: %v", err)
	}
	rec, err := codec.Decode(raw)
	if err != nil {
		t.Fatalf("expected signed payload in slot, got %v", err)
	}
	if !rec.Authenticated() {
		t.Fatal("expected authenticated record in signed slot")
	}
}

func TestBuildRejectsShortSigningKey(t *testing.T) {
	cfg := defaultConfig()
	cfg.Session.Encoding = SessionEncodingSigned
	cfg.Session.SigningKey = []byte("too-short")

	_, err := New().
		WithConfig(cfg).
		WithStore(store.NewMemory()).
		WithIdentityClient(newFakeIdentity()).
		Build()
	if !errors.Is(err, session.ErrSigningKeyTooShort) {
		t.Fatalf("expected ErrSigningKeyTooShort, got %v", err)
	}
}
