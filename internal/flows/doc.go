// Package flows contains the session manager's orchestration logic, isolated
// from the root package. Each flow is a pure Run function over an explicit
// dependency set so the state transitions can be tested without a manager,
// a store backend, or a live identity service.
package flows
