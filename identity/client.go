package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

// ErrRefreshUnauthorized is returned by Refresh when the identity service
// rejects the refresh with 401. The transport does not log it; callers treat
// any refresh error as session expiry.
var ErrRefreshUnauthorized = errors.New("refresh unauthorized")

const (
	permissionsPath = "/developers/me/permissions"
	logoutPath      = "/developer/logout"
	refreshPath     = "/developer/refresh"

	defaultTimeout = 10 * time.Second
)

// Permissions is the outcome of a permission fetch. When the identity service
// has the permissions feature disabled it responds with a plain string body;
// that is reported via Disabled rather than as an error. Otherwise Krns holds
// the full replacement permission set.
//
// Permissions instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Permissions struct {
	Status   int
	Disabled bool
	Krns     []string
}

// Client defines a public type used by portalsession APIs.
//
// Client is the remote identity service surface the session manager consumes.
type Client interface {
	// GetPermissions fetches the authenticated developer's permission set
	// scoped by portal.
	GetPermissions(ctx context.Context, portalID uuid.UUID) (*Permissions, error)
	// Logout performs the server-side, SSO-aware logout.
	Logout(ctx context.Context) error
	// Refresh attempts a token refresh and returns the HTTP status. It
	// returns an error for transport failures and for 401 (see
	// [ErrRefreshUnauthorized]); other statuses are the caller's to
	// interpret.
	Refresh(ctx context.Context) (int, error)
}

// Option customizes an [HTTPClient].
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			c.http = hc
		}
	}
}

// HTTPClient is the production [Client] over net/http.
//
// HTTPClient instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient describes the newhttpclient operation and its observable behavior.
//
// NewHTTPClient may return an error when input validation, dependency calls, or security checks fail.
// NewHTTPClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	if baseURL == "" {
		return nil, errors.New("identity base URL required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid identity base URL: %w", err)
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetPermissions describes the getpermissions operation and its observable behavior.
//
// GetPermissions may return an error when input validation, dependency calls, or security checks fail.
// GetPermissions does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *HTTPClient) GetPermissions(ctx context.Context, portalID uuid.UUID) (*Permissions, error) {
	endpoint := c.baseURL + permissionsPath + "?" + url.Values{"portalId": {portalID.String()}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("permissions fetch returned %d", resp.StatusCode)
	}

	return parsePermissions(resp.StatusCode, body)
}

// parsePermissions distinguishes the feature-disabled string sentinel from
// the krn object body.
func parsePermissions(status int, body []byte) (*Permissions, error) {
	var raw interface{}
	if err := sonic.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("malformed permissions body: %w", err)
	}

	switch data := raw.(type) {
	case string:
		return &Permissions{Status: status, Disabled: true}, nil
	case map[string]interface{}:
		krns := make([]string, 0, len(data))
		for krn := range data {
			krns = append(krns, krn)
		}
		sort.Strings(krns)
		return &Permissions{Status: status, Krns: krns}, nil
	case []interface{}:
		krns := make([]string, 0, len(data))
		for _, entry := range data {
			if krn, ok := entry.(string); ok {
				krns = append(krns, krn)
			}
		}
		sort.Strings(krns)
		return &Permissions{Status: status, Krns: krns}, nil
	default:
		return nil, fmt.Errorf("unexpected permissions body type %T", raw)
	}
}

// Logout describes the logout operation and its observable behavior.
//
// Logout may return an error when input validation, dependency calls, or security checks fail.
// Logout does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *HTTPClient) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+logoutPath, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("logout returned %d", resp.StatusCode)
	}
	return nil
}

// Refresh describes the refresh operation and its observable behavior.
//
// Refresh may return an error when input validation, dependency calls, or security checks fail.
// Refresh does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *HTTPClient) Refresh(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+refreshPath, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		return resp.StatusCode, ErrRefreshUnauthorized
	}
	return resp.StatusCode, nil
}
