package portalsession

import "context"

type pageURLContextKey struct{}
type originContextKey struct{}

// WithPageURL attaches the current page URL to ctx. The manager inspects its
// query string for the identity provider's loginSuccess marker and derives
// the origin for login URLs from it.
func WithPageURL(ctx context.Context, rawURL string) context.Context {
	return context.WithValue(ctx, pageURLContextKey{}, rawURL)
}

// WithOrigin attaches the current origin (scheme://host) to ctx. It takes
// precedence over the origin derived from the page URL when building the
// post-logout login URL.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originContextKey{}, origin)
}

func pageURLFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}

	rawURL, _ := ctx.Value(pageURLContextKey{}).(string)
	if rawURL == "" {
		return "", false
	}
	return rawURL, true
}

func originFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}

	origin, _ := ctx.Value(originContextKey{}).(string)
	if origin == "" {
		return "", false
	}
	return origin, true
}
