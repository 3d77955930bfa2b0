// Package identity is the client for the remote identity service the session
// manager coordinates with: permission fetch, SSO-aware logout, and token
// refresh.
//
// The transport deliberately suppresses noisy 401 handling on refresh: an
// unauthorized refresh surfaces as [ErrRefreshUnauthorized] without logging,
// and the manager maps any refresh error to "session expired".
package identity
