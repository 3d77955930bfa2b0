package flows

import "context"

type DestroyStore interface {
	Remove(key string)
}

// DestroyResult reports what a destroy call actually did. A suppressed call
// (logout already in flight) has Performed false and an empty LoginURL.
type DestroyResult struct {
	LoginURL    string
	Performed   bool
	Compensated bool
	Err         error
}

// DestroyDeps captures destroy/logout flow dependencies.
type DestroyDeps struct {
	SlotKey      string
	Store        DestroyStore
	Acquire      func() bool
	Release      func()
	Clear        func()
	SaveRedirect func(context.Context, string)
	Logout       func(context.Context) error
	LoginURL     func(context.Context) string
	Warnf        func(string, ...any)
}

// RunDestroy executes the logout state machine. Exactly one destroy sequence
// runs at a time: when the guard is already held the call is a no-op. The
// guard is released on every exit path, including panics out of dependencies.
//
// Without a redirect target the logout is hard: in-memory state cleared and
// the persisted slot removed. With one, the slot is overwritten with a
// redirect-only record so the user resumes there after re-auth. Either way
// the remote SSO-aware logout runs, and any failure is compensated by forcing
// the local logged-out state; the returned login URL is identical on the
// success and failure paths.
func RunDestroy(ctx context.Context, redirectTo string, deps DestroyDeps) DestroyResult {
	if !deps.Acquire() {
		return DestroyResult{}
	}
	defer deps.Release()

	result := DestroyResult{
		LoginURL:  deps.LoginURL(ctx),
		Performed: true,
	}

	if redirectTo == "" {
		deps.Clear()
		deps.Store.Remove(deps.SlotKey)
	} else {
		deps.SaveRedirect(ctx, redirectTo)
	}

	if err := deps.Logout(ctx); err != nil {
		// Logout must leave the client logged out even when the remote
		// call fails.
		deps.Clear()
		deps.Store.Remove(deps.SlotKey)
		result.Compensated = true
		result.Err = err
		if deps.Warnf != nil {
			deps.Warnf("portalsession: remote logout failed, local state reset: %s", err)
		}
	}

	return result
}
