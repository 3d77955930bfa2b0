package portalsession

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"github.com/portalkit/portalsession/session"
)

// FetchData describes the fetchdata operation and its observable behavior.
//
// FetchData rehydrates the in-memory session from the persisted slot and
// returns a deep copy of the result. An absent slot is bootstrapped from the
// current in-memory record; an undecodable slot resets state to an empty,
// decodable record. FetchData never fails: corruption is logged, audited,
// and absorbed.
func (m *Manager) FetchData(ctx context.Context) *session.Record {
	res := m.flows.Fetch(ctx)

	switch {
	case res.DecodeErr != nil:
		m.metricInc(MetricDecodeFailure)
		m.auditEmit(ctx, AuditEvent{
			EventType: EventDecodeFailure,
			Error:     res.DecodeErr.Error(),
		})
	case res.SelfHealed:
		m.metricInc(MetricSessionSelfHealed)
	default:
		m.metricInc(MetricSessionRestored)
		m.auditEmit(ctx, AuditEvent{
			EventType:   EventSessionRestored,
			DeveloperID: developerID(res.Record),
			Success:     true,
		})
	}

	return res.Record.Clone()
}

// Save describes the save operation and its observable behavior.
//
// Save replaces the in-memory record and applies the persistence policy: the
// slot is written when force is set or when no session existed before the
// call. When the session exists after the replacement and the portal is a
// private RBAC portal, a detached permission sync is scheduled. Encode
// failures never raise; the returned result reports what happened.
func (m *Manager) Save(ctx context.Context, rec *session.Record, force bool) SaveResult {
	res := m.flows.Save(ctx, rec, force)

	if res.Encode == EncodeFailed {
		m.metricInc(MetricEncodeFailure)
	}
	if res.Persisted {
		m.metricInc(MetricSessionPersisted)
		m.auditEmit(ctx, AuditEvent{
			EventType:   EventSessionSaved,
			DeveloperID: developerID(rec),
			Success:     true,
			Metadata:    map[string]string{"forced": boolLabel(force)},
		})
	}

	return res
}

// User returns identifying fields of the current developer, or nil when the
// session is anonymous. It reads through [Manager.FetchData] so the answer
// reflects the persisted slot.
func (m *Manager) User(ctx context.Context) *UserInfo {
	rec := m.FetchData(ctx)
	if !rec.Authenticated() {
		return nil
	}
	return &UserInfo{
		ID:    rec.Developer.ID,
		Email: rec.Developer.Email,
	}
}

// Exists describes the exists operation and its observable behavior.
//
// A session "exists" when any of three signals is present, checked in order:
// an authenticated developer on the in-memory record, the IdP login-success
// marker on the current page URL, or the end-to-end test bypass cookie.
func (m *Manager) Exists(ctx context.Context) bool {
	if m.snapshot().Authenticated() {
		return true
	}
	if m.AuthenticatedWithIdP(ctx) {
		return true
	}
	if m.config.Session.CookiePresence != nil {
		return m.config.Session.CookiePresence(TestBypassCookieName)
	}
	return false
}

// AuthenticatedWithIdP reports whether the current page URL carries the
// identity provider's login-success marker. When no page URL travels on the
// context, or it cannot be parsed, the answer falls back to the in-memory
// developer presence. Never fails.
func (m *Manager) AuthenticatedWithIdP(ctx context.Context) bool {
	rawURL, ok := pageURLFromContext(ctx)
	if !ok {
		return m.snapshot().Authenticated()
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return m.snapshot().Authenticated()
	}
	return u.Query().Get(loginSuccessParam) == "true"
}

// RedirectTarget returns the post-login resume path captured by a
// redirect-preserving logout, or the empty string.
func (m *Manager) RedirectTarget() string {
	return m.snapshot().RedirectTarget
}

func developerID(rec *session.Record) string {
	if rec == nil || rec.Developer == nil || rec.Developer.ID == uuid.Nil {
		return ""
	}
	return rec.Developer.ID.String()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
