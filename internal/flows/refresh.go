package flows

import (
	"context"
	"net/http"
)

// RefreshOutcome is the explicit result of a refresh attempt. The legacy
// behavior of treating anything that is neither a 200 nor an error as
// unexpired is preserved, but surfaced as its own state instead of an
// ambiguous zero value.
type RefreshOutcome int

const (
	// RefreshActive: the service accepted the refresh; session data was
	// re-persisted.
	RefreshActive RefreshOutcome = iota
	// RefreshExpired: the refresh failed (including transport-suppressed
	// 401); the session is expired.
	RefreshExpired
	// RefreshIndeterminate: the service answered with an unhandled status.
	// Callers treat this as not expired.
	RefreshIndeterminate
)

// String describes the string operation and its observable behavior.
func (o RefreshOutcome) String() string {
	switch o {
	case RefreshActive:
		return "active"
	case RefreshExpired:
		return "expired"
	case RefreshIndeterminate:
		return "indeterminate"
	default:
		return "unknown"
	}
}

// Expired reports whether the outcome means the session expired.
func (o RefreshOutcome) Expired() bool {
	return o == RefreshExpired
}

// RefreshDeps captures refresh flow dependencies.
type RefreshDeps struct {
	Refresh func(context.Context) (int, error)
	Resave  func(context.Context)
	Warnf   func(string, ...any)
}

// RunRefresh drives one refresh round trip against the identity service.
func RunRefresh(ctx context.Context, deps RefreshDeps) RefreshOutcome {
	status, err := deps.Refresh(ctx)
	if err != nil {
		return RefreshExpired
	}

	if status == http.StatusOK {
		deps.Resave(ctx)
		return RefreshActive
	}

	if deps.Warnf != nil {
		deps.Warnf("portalsession: refresh returned unhandled status %d", status)
	}
	return RefreshIndeterminate
}
