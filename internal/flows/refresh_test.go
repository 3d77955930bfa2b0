package flows

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestRefreshSuccessResaves(t *testing.T) {
	var resaved int
	outcome := RunRefresh(context.Background(), RefreshDeps{
		Refresh: func(context.Context) (int, error) { return http.StatusOK, nil },
		Resave:  func(context.Context) { resaved++ },
	})

	if outcome != RefreshActive {
		t.Fatalf("expected RefreshActive, got %v", outcome)
	}
	if outcome.Expired() {
		t.Fatal("active outcome reported expired")
	}
	if resaved != 1 {
		t.Fatalf("expected one resave, got %d", resaved)
	}
}

func TestRefreshFailureReportsExpired(t *testing.T) {
	var resaved int
	outcome := RunRefresh(context.Background(), RefreshDeps{
		Refresh: func(context.Context) (int, error) { return 0, errors.New("refresh rejected") },
		Resave:  func(context.Context) { resaved++ },
	})

	if outcome != RefreshExpired {
		t.Fatalf("expected RefreshExpired, got %v", outcome)
	}
	if !outcome.Expired() {
		t.Fatal("expired outcome not reported expired")
	}
	if resaved != 0 {
		t.Fatal("failed refresh must not resave")
	}
}

func TestRefreshUnhandledStatusIsIndeterminate(t *testing.T) {
	var warned bool
	outcome := RunRefresh(context.Background(), RefreshDeps{
		Refresh: func(context.Context) (int, error) { return http.StatusAccepted, nil },
		Resave:  func(context.Context) { t.Fatal("indeterminate refresh must not resave") },
		Warnf:   func(string, ...any) { warned = true },
	})

	if outcome != RefreshIndeterminate {
		t.Fatalf("expected RefreshIndeterminate, got %v", outcome)
	}
	if outcome.Expired() {
		t.Fatal("indeterminate outcome must be treated as not expired")
	}
	if !warned {
		t.Fatal("unhandled status should be reported")
	}
}

func TestRefreshOutcomeString(t *testing.T) {
	cases := map[RefreshOutcome]string{
		RefreshActive:        "active",
		RefreshExpired:       "expired",
		RefreshIndeterminate: "indeterminate",
		RefreshOutcome(99):   "unknown",
	}
	for outcome, want := range cases {
		if got := outcome.String(); got != want {
			t.Fatalf("String(%d) = %q, want %q", int(outcome), got, want)
		}
	}
}
