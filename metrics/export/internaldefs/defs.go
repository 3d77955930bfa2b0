package internaldefs

import (
	portalsession "github.com/portalkit/portalsession"
)

// CounterDef defines a public type used by portalsession APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   portalsession.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by portalsession APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   portalsession.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session manager.
var CounterDefs = []CounterDef{
	{ID: portalsession.MetricSessionPersisted, Name: "portalsession_session_persisted_total", Help: "Session records written to the persistence slot."},
	{ID: portalsession.MetricSessionRestored, Name: "portalsession_session_restored_total", Help: "Session records rehydrated from the persistence slot."},
	{ID: portalsession.MetricSessionSelfHealed, Name: "portalsession_session_self_healed_total", Help: "Absent persistence slots bootstrapped from in-memory state."},
	{ID: portalsession.MetricDecodeFailure, Name: "portalsession_decode_failure_total", Help: "Persisted session payloads rejected by the codec."},
	{ID: portalsession.MetricEncodeFailure, Name: "portalsession_encode_failure_total", Help: "Session records that failed to serialize."},
	{ID: portalsession.MetricLogout, Name: "portalsession_logout_total", Help: "Completed logout sequences."},
	{ID: portalsession.MetricLogoutRedirect, Name: "portalsession_logout_redirect_total", Help: "Logout sequences preserving a post-login redirect target."},
	{ID: portalsession.MetricLogoutSuppressed, Name: "portalsession_logout_suppressed_total", Help: "Logout calls suppressed by an in-flight sequence."},
	{ID: portalsession.MetricLogoutCompensated, Name: "portalsession_logout_compensated_total", Help: "Remote logout failures compensated by a local state reset."},
	{ID: portalsession.MetricRefreshActive, Name: "portalsession_refresh_active_total", Help: "Refresh attempts confirming an active session."},
	{ID: portalsession.MetricRefreshExpired, Name: "portalsession_refresh_expired_total", Help: "Refresh attempts resolving to an expired session."},
	{ID: portalsession.MetricRefreshIndeterminate, Name: "portalsession_refresh_indeterminate_total", Help: "Refresh attempts answered with an unhandled status."},
	{ID: portalsession.MetricPermissionSyncSuccess, Name: "portalsession_permission_sync_success_total", Help: "Permission syncs that replaced the held krn set."},
	{ID: portalsession.MetricPermissionSyncFailure, Name: "portalsession_permission_sync_failure_total", Help: "Permission syncs that failed against the identity service."},
	{ID: portalsession.MetricPermissionSyncDisabled, Name: "portalsession_permission_sync_disabled_total", Help: "Permission syncs answered with the feature-disabled sentinel."},
}

// HistogramDefs is an exported constant or variable used by the session manager.
var HistogramDefs = []HistogramDef{
	{ID: portalsession.MetricIdentityLatency, Name: "portalsession_identity_latency_seconds", Help: "Identity service round-trip latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the session manager.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the session manager.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
