package portalsession

import "context"

// Destroy describes the destroy/logout operation and its observable behavior.
//
// Destroy runs the SSO-aware logout sequence and returns the login URL the
// caller should navigate to, "<origin>/login". When another destroy is
// already in flight the call is suppressed and returns the empty string.
// When redirectTo is non-empty the persisted slot is overwritten with a
// redirect-only record instead of being removed, so the user resumes there
// after re-authenticating. A remote logout failure is compensated by forcing
// the local logged-out state; the same login URL is returned either way.
func (m *Manager) Destroy(ctx context.Context, redirectTo string) string {
	res := m.flows.Destroy(ctx, redirectTo)
	if !res.Performed {
		m.metricInc(MetricLogoutSuppressed)
		return ""
	}

	m.metricInc(MetricLogout)
	if redirectTo != "" {
		m.metricInc(MetricLogoutRedirect)
	}

	event := AuditEvent{
		EventType: EventLogout,
		Success:   res.Err == nil,
	}
	if redirectTo != "" {
		event.EventType = EventLogoutRedirect
		event.Metadata = map[string]string{"redirectTo": redirectTo}
	}
	if res.Err != nil {
		event.Error = res.Err.Error()
	}
	m.auditEmit(ctx, event)

	if res.Compensated {
		m.metricInc(MetricLogoutCompensated)
		m.auditEmit(ctx, AuditEvent{
			EventType: EventLogoutCompensated,
			Error:     res.Err.Error(),
		})
	}

	return res.LoginURL
}
