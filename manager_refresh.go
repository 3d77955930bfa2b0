package portalsession

import "context"

// RefreshToken describes the token refresh operation and its observable
// behavior.
//
// RefreshToken asks the identity service to extend the current credentials.
// A transport failure or a 401 means the session is expired; a 200 means it
// is active and the session data is re-fetched and force-persisted. Any other
// status is indeterminate and treated as not expired.
func (m *Manager) RefreshToken(ctx context.Context) RefreshOutcome {
	outcome := m.flows.Refresh(ctx)

	switch outcome {
	case RefreshActive:
		m.metricInc(MetricRefreshActive)
	case RefreshExpired:
		m.metricInc(MetricRefreshExpired)
		m.auditEmit(ctx, AuditEvent{EventType: EventRefreshExpired})
	default:
		m.metricInc(MetricRefreshIndeterminate)
	}

	return outcome
}
