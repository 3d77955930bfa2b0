package flows

import (
	"context"

	"github.com/portalkit/portalsession/session"
)

// Service is the centralized flow runner built once by the root manager.
type Service struct {
	deps Deps
}

// New returns a flow service with immutable dependency wiring.
func New(deps Deps) Service {
	return Service{deps: deps}
}

// Initialized reports whether the service has been wired with flow deps.
func (s Service) Initialized() bool {
	return s.deps.Fetch.Store != nil
}

func (s Service) Fetch(ctx context.Context) FetchResult {
	return RunFetch(ctx, s.deps.Fetch)
}

func (s Service) Save(ctx context.Context, rec *session.Record, force bool) SaveResult {
	return RunSave(ctx, rec, force, s.deps.Save)
}

func (s Service) Destroy(ctx context.Context, redirectTo string) DestroyResult {
	return RunDestroy(ctx, redirectTo, s.deps.Destroy)
}

func (s Service) Refresh(ctx context.Context) RefreshOutcome {
	return RunRefresh(ctx, s.deps.Refresh)
}
