package store

import (
	"context"
	"time"

	"github.com/kydenul/log"
	"github.com/redis/go-redis/v9"

	"github.com/portalkit/portalsession/internal/discardlog"
)

const defaultRedisTimeout = 3 * time.Second

// RedisOption customizes a [Redis] store.
type RedisOption func(*Redis)

// WithTTL sets an expiry on written slots. Zero means no expiry.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) { r.ttl = ttl }
}

// WithTimeout bounds each redis round trip. Defaults to 3s.
func WithTimeout(d time.Duration) RedisOption {
	return func(r *Redis) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the logger used for backend failures. Defaults to a
// discard logger.
func WithLogger(logger log.Logger) RedisOption {
	return func(r *Redis) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Redis is a [Store] backed by a shared redis instance, for hosts that keep
// the persisted slot server-side instead of in browser storage. Calls block
// on the round trip; failures are logged and reported as misses so the
// manager's self-healing bootstrap path takes over.
//
// Redis instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Redis struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	timeout time.Duration
	logger  log.Logger
}

// NewRedis describes the newredis operation and its observable behavior.
//
// NewRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedis(client *redis.Client, prefix string, opts ...RedisOption) *Redis {
	r := &Redis{
		client:  client,
		prefix:  prefix,
		timeout: defaultRedisTimeout,
		logger:  discardlog.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

// Get describes the get operation and its observable behavior.
//
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *Redis) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	v, err := r.client.Get(ctx, r.key(key)).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		r.logger.Errorf("portalsession: redis get %q failed: %s", key, err)
		return "", false
	}
	return v, true
}

// Set describes the set operation and its observable behavior.
//
// Set does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *Redis) Set(key, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		r.logger.Errorf("portalsession: redis set %q failed: %s", key, err)
	}
}

// Remove describes the remove operation and its observable behavior.
//
// Remove does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *Redis) Remove(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		r.logger.Errorf("portalsession: redis del %q failed: %s", key, err)
	}
}
