package portalsession

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// ConfigFromViper builds a Config from a viper tree, overlaying the defaults
// with whatever keys are set. Function-valued fields (CookiePresence, Logger)
// cannot travel through configuration files and are left for the builder.
//
// Expected layout:
//
//	session:
//	  name: konnect_portal_session
//	  encoding: jwt
//	  signing_key: <at least 32 bytes>
//	identity:
//	  base_url: https://identity.example.com
//	  timeout: 10s
//	portal:
//	  id: 7d5e0f2c-...
//	  public: false
//	  rbac_enabled: true
//	  login_path: /login
//	  fallback_origin: https://portal.example.com
//	audit:
//	  enabled: true
//	  buffer_size: 64
//	  drop_if_full: true
//	sync:
//	  buffer_size: 8
//	  drop_if_full: true
//	metrics:
//	  enabled: true
//	  latency_histograms: false
func ConfigFromViper(v *viper.Viper) (Config, error) {
	cfg := defaultConfig()
	if v == nil {
		return cfg, nil
	}

	if s := v.Sub("session"); s != nil {
		if s.IsSet("name") {
			cfg.Session.Name = cast.ToString(s.Get("name"))
		}
		if s.IsSet("encoding") {
			cfg.Session.Encoding = cast.ToString(s.Get("encoding"))
		}
		if s.IsSet("signing_key") {
			cfg.Session.SigningKey = []byte(cast.ToString(s.Get("signing_key")))
		}
	}

	if s := v.Sub("identity"); s != nil {
		if s.IsSet("base_url") {
			cfg.Identity.BaseURL = cast.ToString(s.Get("base_url"))
		}
		if s.IsSet("timeout") {
			cfg.Identity.Timeout = cast.ToDuration(s.Get("timeout"))
		}
	}

	if s := v.Sub("portal"); s != nil {
		if s.IsSet("id") {
			id, err := uuid.Parse(cast.ToString(s.Get("id")))
			if err != nil {
				return cfg, fmt.Errorf("portal.id: %w", err)
			}
			cfg.Portal.ID = id
		}
		if s.IsSet("public") {
			cfg.Portal.Public = cast.ToBool(s.Get("public"))
		}
		if s.IsSet("rbac_enabled") {
			cfg.Portal.RBACEnabled = cast.ToBool(s.Get("rbac_enabled"))
		}
		if s.IsSet("login_path") {
			cfg.Portal.LoginPath = cast.ToString(s.Get("login_path"))
		}
		if s.IsSet("fallback_origin") {
			cfg.Portal.FallbackOrigin = cast.ToString(s.Get("fallback_origin"))
		}
	}

	if s := v.Sub("audit"); s != nil {
		if s.IsSet("enabled") {
			cfg.Audit.Enabled = cast.ToBool(s.Get("enabled"))
		}
		if s.IsSet("buffer_size") {
			cfg.Audit.BufferSize = cast.ToInt(s.Get("buffer_size"))
		}
		if s.IsSet("drop_if_full") {
			cfg.Audit.DropIfFull = cast.ToBool(s.Get("drop_if_full"))
		}
	}

	if s := v.Sub("sync"); s != nil {
		if s.IsSet("buffer_size") {
			cfg.Sync.BufferSize = cast.ToInt(s.Get("buffer_size"))
		}
		if s.IsSet("drop_if_full") {
			cfg.Sync.DropIfFull = cast.ToBool(s.Get("drop_if_full"))
		}
	}

	if s := v.Sub("metrics"); s != nil {
		if s.IsSet("enabled") {
			cfg.Metrics.Enabled = cast.ToBool(s.Get("enabled"))
		}
		if s.IsSet("latency_histograms") {
			cfg.Metrics.EnableLatencyHistograms = cast.ToBool(s.Get("latency_histograms"))
		}
	}

	return cfg, nil
}
