package portalsession

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kydenul/log"

	"github.com/portalkit/portalsession/identity"
	"github.com/portalkit/portalsession/internal/flows"
	"github.com/portalkit/portalsession/internal/tasks"
	"github.com/portalkit/portalsession/permission"
	"github.com/portalkit/portalsession/session"
	"github.com/portalkit/portalsession/store"
)

// Logout guard states. Transitions are atomic compare-and-swap so
// overlapping destroy calls collapse to one sequence.
const (
	logoutIdle int32 = iota
	logoutInFlight
)

// Manager defines a public type used by portalsession APIs.
//
// Manager owns the in-memory session record and its persisted mirror, derives
// authentication state from them, and coordinates logout, refresh, and
// permission sync against the identity service. Managers are safe for
// concurrent use after construction through [Builder.Build]. All public
// operations have a no-throw contract: failures are logged, audited, and
// compensated, never raised to the caller.
type Manager struct {
	config      Config
	codec       session.Codec
	store       store.Store
	identity    identity.Client
	permissions *permission.Store
	flows       flows.Service
	audit       *auditDispatcher
	tasks       *tasks.Runner
	metrics     *Metrics
	logger      log.Logger

	mu          sync.RWMutex
	record      *session.Record
	logoutState atomic.Int32
}

// Ready reports whether the manager was fully constructed through
// [Builder.Build]. A zero Manager returns [ErrManagerNotReady].
func (m *Manager) Ready() error {
	if m == nil || !m.flows.Initialized() {
		return ErrManagerNotReady
	}
	return nil
}

// Close describes the close operation and its observable behavior.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Close() {
	if m == nil {
		return
	}
	if m.tasks != nil {
		m.tasks.Close()
	}
	if m.audit != nil {
		m.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) AuditDropped() uint64 {
	if m == nil || m.audit == nil {
		return 0
	}
	return m.audit.Dropped()
}

// SyncDropped returns the number of permission-sync jobs rejected due to a
// full buffer.
func (m *Manager) SyncDropped() uint64 {
	if m == nil || m.tasks == nil {
		return 0
	}
	return m.tasks.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	if m == nil || m.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return m.metrics.Snapshot()
}

// Permissions exposes the developer's krn permission store.
func (m *Manager) Permissions() *permission.Store {
	if m == nil {
		return nil
	}
	return m.permissions
}

func (m *Manager) metricInc(id MetricID) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.Inc(id)
}

func (m *Manager) metricObserve(id MetricID, d time.Duration) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.Observe(id, d)
}

func (m *Manager) auditEmit(ctx context.Context, event AuditEvent) {
	if m == nil || m.audit == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	m.audit.Emit(ctx, event)
}

// snapshot returns a deep copy of the in-memory record.
func (m *Manager) snapshot() *session.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.record.Clone()
}

// replace swaps the in-memory record wholesale.
func (m *Manager) replace(rec *session.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = rec.Clone()
}

// loginURL builds <origin>/login from the context's origin or page URL,
// falling back to the configured origin.
func (m *Manager) loginURL(ctx context.Context) string {
	origin, ok := originFromContext(ctx)
	if !ok {
		if rawURL, found := pageURLFromContext(ctx); found {
			if u, err := url.Parse(rawURL); err == nil && u.Scheme != "" && u.Host != "" {
				origin = u.Scheme + "://" + u.Host
			}
		}
	}
	if origin == "" {
		origin = m.config.Portal.FallbackOrigin
	}
	return strings.TrimRight(origin, "/") + m.config.Portal.LoginPath
}

// enqueuePermissionSync schedules the detached permission fetch that trails
// a save. The job runs on a background context; its failures are logged and
// dropped, never surfaced to the saver.
func (m *Manager) enqueuePermissionSync(ctx context.Context) bool {
	portalID := m.config.Portal.ID

	accepted := m.tasks.Enqueue(func(jobCtx context.Context) error {
		start := time.Now()
		perms, err := m.identity.GetPermissions(jobCtx, portalID)
		m.metricObserve(MetricIdentityLatency, time.Since(start))
		if err != nil {
			m.metricInc(MetricPermissionSyncFailure)
			m.auditEmit(jobCtx, AuditEvent{
				EventType: EventPermissionSyncFailed,
				PortalID:  portalID.String(),
				Error:     err.Error(),
			})
			return err
		}

		if perms.Disabled {
			// A string body means the permissions feature is off; the
			// held set stays untouched.
			m.metricInc(MetricPermissionSyncDisabled)
			return nil
		}

		m.permissions.ReplaceAll(perms.Krns)
		m.metricInc(MetricPermissionSyncSuccess)
		m.auditEmit(jobCtx, AuditEvent{
			EventType: EventPermissionSync,
			PortalID:  portalID.String(),
			Success:   true,
		})
		return nil
	})

	if !accepted {
		m.logger.Warnf("portalsession: permission sync dropped (buffer full or manager closed)")
		m.auditEmit(ctx, AuditEvent{
			EventType: EventPermissionSyncFailed,
			PortalID:  portalID.String(),
			Error:     "sync queue full",
		})
	}
	return accepted
}
