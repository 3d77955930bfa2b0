package portalsession

import (
	"context"
	"net/http"
	"time"

	"github.com/kydenul/log"

	"github.com/portalkit/portalsession/identity"
	"github.com/portalkit/portalsession/internal/discardlog"
	"github.com/portalkit/portalsession/internal/flows"
	"github.com/portalkit/portalsession/internal/tasks"
	"github.com/portalkit/portalsession/permission"
	"github.com/portalkit/portalsession/session"
	"github.com/portalkit/portalsession/store"
)

// Builder defines a public type used by portalsession APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	store  store.Store

	identityClient identity.Client
	auditSink      AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStore describes the withstore operation and its observable behavior.
//
// WithStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithStore(s store.Store) *Builder {
	b.store = s
	return b
}

// WithIdentityClient describes the withidentityclient operation and its observable behavior.
//
// WithIdentityClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithIdentityClient(c identity.Client) *Builder {
	b.identityClient = c
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger describes the withlogger operation and its observable behavior.
//
// WithLogger does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLogger(logger log.Logger) *Builder {
	b.config.Logger = logger
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)

	if b.store == nil {
		return nil, ErrStoreRequired
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Logger == nil {
		cfg.Logger = discardlog.New()
	}

	// -------- CODEC --------
	var codec session.Codec
	switch cfg.Session.Encoding {
	case SessionEncodingSigned:
		sc, err := session.NewSignedCodec(cfg.Session.SigningKey)
		if err != nil {
			return nil, err
		}
		codec = sc
	default:
		codec = session.JSONCodec{}
	}

	// -------- IDENTITY CLIENT --------
	identityClient := b.identityClient
	if identityClient == nil {
		if cfg.Identity.BaseURL == "" {
			return nil, ErrIdentityClientRequired
		}
		hc, err := identity.NewHTTPClient(
			cfg.Identity.BaseURL,
			identity.WithHTTPClient(&http.Client{Timeout: cfg.Identity.Timeout}),
		)
		if err != nil {
			return nil, err
		}
		identityClient = hc
	}

	m := &Manager{
		config:      cfg,
		codec:       codec,
		store:       b.store,
		identity:    identityClient,
		permissions: permission.NewStore(),
		metrics:     NewMetrics(cfg.Metrics),
		logger:      cfg.Logger,
	}
	m.record = &session.Record{}
	m.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	m.tasks = tasks.NewRunner(tasks.Config{
		BufferSize: cfg.Sync.BufferSize,
		DropIfFull: cfg.Sync.DropIfFull,
	}, func(err error) {
		m.logger.Warnf("portalsession: background permission sync failed: %s", err)
	})

	m.flows = flows.New(buildFlowDeps(m))

	b.built = true

	return m, nil
}

// buildFlowDeps closes the manager's state, codec, store, and identity client
// over the flow dependency structs. The flows stay free of manager types so
// each one is testable with plain fakes.
func buildFlowDeps(m *Manager) flows.Deps {
	slot := m.config.Session.Name

	encode := func(rec *session.Record) (string, error) { return m.codec.Encode(rec) }
	decode := func(raw string) (*session.Record, error) { return m.codec.Decode(raw) }
	replace := func(rec *session.Record) { m.replace(rec) }
	clearState := func() { m.replace(&session.Record{}) }
	warnf := m.logger.Warnf

	saveDeps := flows.SaveDeps{
		SlotKey: slot,
		Store:   m.store,
		Encode:  encode,
		Replace: replace,
		Exists:  m.Exists,
		SyncEligible: func() bool {
			return m.config.Portal.RBACEnabled && !m.config.Portal.Public
		},
		EnqueueSync: m.enqueuePermissionSync,
		Warnf:       warnf,
	}

	fetchDeps := flows.FetchDeps{
		SlotKey: slot,
		Store:   m.store,
		Encode:  encode,
		Decode:  decode,
		Current: m.snapshot,
		Replace: replace,
		PersistEmpty: func(ctx context.Context) {
			flows.RunSave(ctx, &session.Record{}, true, saveDeps)
		},
		Warnf: warnf,
	}

	destroyDeps := flows.DestroyDeps{
		SlotKey: slot,
		Store:   m.store,
		Acquire: func() bool {
			return m.logoutState.CompareAndSwap(logoutIdle, logoutInFlight)
		},
		Release: func() { m.logoutState.Store(logoutIdle) },
		Clear:   clearState,
		SaveRedirect: func(ctx context.Context, target string) {
			flows.RunSave(ctx, &session.Record{RedirectTarget: target}, true, saveDeps)
		},
		Logout: func(ctx context.Context) error {
			start := time.Now()
			err := m.identity.Logout(ctx)
			m.metricObserve(MetricIdentityLatency, time.Since(start))
			return err
		},
		LoginURL: m.loginURL,
		Warnf:    warnf,
	}

	refreshDeps := flows.RefreshDeps{
		Refresh: func(ctx context.Context) (int, error) {
			start := time.Now()
			status, err := m.identity.Refresh(ctx)
			m.metricObserve(MetricIdentityLatency, time.Since(start))
			return status, err
		},
		Resave: func(ctx context.Context) {
			res := flows.RunFetch(ctx, fetchDeps)
			flows.RunSave(ctx, res.Record, true, saveDeps)
		},
		Warnf: warnf,
	}

	return flows.Deps{
		Fetch:   fetchDeps,
		Save:    saveDeps,
		Destroy: destroyDeps,
		Refresh: refreshDeps,
	}
}
