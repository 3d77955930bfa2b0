package portalsession

import (
	"time"

	"github.com/google/uuid"
	"github.com/kydenul/log"
)

const (
	// DefaultSessionName is the default persisted slot key.
	DefaultSessionName = "konnect_portal_session"

	// TestBypassCookieName is the fixed cookie checked by the existence
	// predicate so automated browser tests are not treated as logged out.
	// It is never derived from user data.
	TestBypassCookieName = "konnect_portal_session_e2e"

	// SessionEncodingJSON selects the plain base64url JSON codec.
	SessionEncodingJSON = "json"
	// SessionEncodingSigned selects the HS256-signed codec.
	SessionEncodingSigned = "jwt"
)

const loginSuccessParam = "loginSuccess"

// Config defines a public type used by portalsession APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Session  SessionConfig
	Identity IdentityConfig
	Portal   PortalConfig
	Audit    AuditConfig
	Sync     SyncConfig
	Metrics  MetricsConfig

	// Logger receives reported (never raised) failures. Defaults to a
	// discard logger.
	Logger log.Logger `mapstructure:"-"`
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by portalsession APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	// Name keys the persisted slot. Defaults to [DefaultSessionName].
	Name string
	// Encoding selects the codec: "json" (default) or "jwt".
	Encoding string
	// SigningKey is the HMAC key for the "jwt" encoding. Minimum 32 bytes.
	SigningKey []byte
	// CookiePresence reports whether a named cookie is present in the
	// current environment. Only consulted for the test bypass cookie; nil
	// disables the bypass.
	CookiePresence func(name string) bool `mapstructure:"-"`
}

/*
====================================
IDENTITY CONFIG
====================================
*/

// IdentityConfig defines a public type used by portalsession APIs.
//
// IdentityConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type IdentityConfig struct {
	// BaseURL of the identity service. Used to construct the default HTTP
	// client when none is injected.
	BaseURL string
	// Timeout bounds each identity round trip.
	Timeout time.Duration
}

/*
====================================
PORTAL CONFIG
====================================
*/

// PortalConfig defines a public type used by portalsession APIs.
//
// PortalConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PortalConfig struct {
	// ID scopes permission fetches.
	ID uuid.UUID
	// Public marks deployments without authenticated developers; permission
	// sync is skipped entirely.
	Public bool
	// RBACEnabled gates the permission sync after saves.
	RBACEnabled bool
	// LoginPath is appended to the origin when building the post-logout
	// login URL.
	LoginPath string
	// FallbackOrigin is used when no origin or page URL travels on the
	// context.
	FallbackOrigin string
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by portalsession APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
SYNC CONFIG
====================================
*/

// SyncConfig defines a public type used by portalsession APIs.
//
// SyncConfig controls the detached background runner that executes the
// permission-sync tail of save operations.
type SyncConfig struct {
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by portalsession APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Session: SessionConfig{
			Name:     DefaultSessionName,
			Encoding: SessionEncodingJSON,
		},
		Identity: IdentityConfig{
			Timeout: 10 * time.Second,
		},
		Portal: PortalConfig{
			LoginPath: "/login",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 64,
			DropIfFull: true,
		},
		Sync: SyncConfig{
			BufferSize: 8,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if len(cfg.Session.SigningKey) > 0 {
		out.Session.SigningKey = make([]byte, len(cfg.Session.SigningKey))
		copy(out.Session.SigningKey, cfg.Session.SigningKey)
	}
	return out
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Config) Validate() error {
	if c.Session.Name == "" {
		return ErrSessionNameRequired
	}

	switch c.Session.Encoding {
	case SessionEncodingJSON:
	case SessionEncodingSigned:
		if len(c.Session.SigningKey) == 0 {
			return ErrSigningKeyRequired
		}
	default:
		return ErrInvalidEncoding
	}

	if c.Portal.LoginPath == "" || c.Portal.LoginPath[0] != '/' {
		return ErrInvalidLoginPath
	}

	if c.Portal.RBACEnabled && !c.Portal.Public && c.Portal.ID == uuid.Nil {
		return ErrPortalIDRequired
	}

	return nil
}
