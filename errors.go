package portalsession

import "errors"

var (
	// ErrStoreRequired is an exported constant or variable used by the session manager.
	ErrStoreRequired = errors.New("persistence store required")
	// ErrIdentityClientRequired is an exported constant or variable used by the session manager.
	ErrIdentityClientRequired = errors.New("identity client required")
	// ErrManagerNotReady is an exported constant or variable used by the session manager.
	ErrManagerNotReady = errors.New("manager not initialized")
	// ErrBuilderUsed is an exported constant or variable used by the session manager.
	ErrBuilderUsed = errors.New("builder already used")
	// ErrSessionNameRequired is an exported constant or variable used by the session manager.
	ErrSessionNameRequired = errors.New("session name required")
	// ErrInvalidEncoding is an exported constant or variable used by the session manager.
	ErrInvalidEncoding = errors.New("invalid session encoding")
	// ErrSigningKeyRequired is an exported constant or variable used by the session manager.
	ErrSigningKeyRequired = errors.New("signed encoding requires a signing key")
	// ErrInvalidLoginPath is an exported constant or variable used by the session manager.
	ErrInvalidLoginPath = errors.New("login path must start with /")
	// ErrPortalIDRequired is an exported constant or variable used by the session manager.
	ErrPortalIDRequired = errors.New("portal ID required when RBAC is enabled")
)
