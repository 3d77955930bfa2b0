// Package portalsession manages the client-side authentication session of a
// developer portal: an encoded session record persisted in a synchronous
// key-value store, the authentication state derived from it, and the logout,
// token refresh, and RBAC permission-sync exchanges with the remote identity
// service.
//
// The package is designed for concurrent workloads: Manager methods are safe
// to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// portalsession is the public surface. It exposes [Manager], [Builder],
// [Config], and value types (UserInfo, SaveResult, MetricsSnapshot, etc.).
// Flow orchestration lives under internal/ and is never exported; the
// session codec, stores, and identity client live in their own importable
// sub-packages.
//
// # What this package must NOT do
//
//   - Raise errors from Manager session operations: FetchData, Save, Destroy,
//     and RefreshToken absorb every failure into logged, audited, and
//     compensated outcomes.
//   - Perform I/O during construction (Builder is allocation-only until
//     Build, and Build itself opens no connections).
//   - Import any sub-package that re-imports portalsession (no import
//     cycles).
//
// # Consistency contract
//
// The in-memory record is the source of truth between fetches; the persisted
// slot mirrors it under the persistence policy of [Manager.Save]. Permission
// sync is a detached tail of save: it never blocks or fails the save that
// spawned it.
package portalsession
