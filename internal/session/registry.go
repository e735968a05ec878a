// Package session tracks which refresh tokens are currently honorable and
// which password-reset tokens have already been spent. Both stores are
// backed by Redis in production; in-memory implementations exist for tests
// and for single-process setups without Redis.
package session

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Registry records the set of currently valid refresh tokens. A token is
// acceptable for the refresh flow if and only if it is cryptographically
// valid AND live here. Register/Revoke run on the request's critical path:
// a failure fails the login/refresh/logout request rather than leaving
// session state silently out of date.
type Registry interface {
	Register(ctx context.Context, token string) error
	Revoke(ctx context.Context, token string) error
	IsLive(ctx context.Context, token string) (bool, error)
}

const liveTokenKey = "sessions:refresh"

// RedisRegistry keeps live refresh tokens as members of a single Redis set.
type RedisRegistry struct {
	client *redis.Client
}

// NewRedisRegistry builds a Registry backed by the given Redis client.
func NewRedisRegistry(client *redis.Client) *RedisRegistry {
	return &RedisRegistry{client: client}
}

func (r *RedisRegistry) Register(ctx context.Context, token string) error {
	return r.client.SAdd(ctx, liveTokenKey, token).Err()
}

func (r *RedisRegistry) Revoke(ctx context.Context, token string) error {
	return r.client.SRem(ctx, liveTokenKey, token).Err()
}

func (r *RedisRegistry) IsLive(ctx context.Context, token string) (bool, error) {
	return r.client.SIsMember(ctx, liveTokenKey, token).Result()
}

// MemoryRegistry is a process-local Registry. It backs tests and the
// degraded mode where session tracking is wanted without a Redis server;
// state does not survive a restart or span replicas.
type MemoryRegistry struct {
	mu   sync.Mutex
	live map[string]struct{}
}

// NewMemoryRegistry returns an empty in-process registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{live: make(map[string]struct{})}
}

func (m *MemoryRegistry) Register(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.live[token] = struct{}{}
	return nil
}

func (m *MemoryRegistry) Revoke(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.live, token)
	return nil
}

func (m *MemoryRegistry) IsLive(ctx context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.live[token]
	return ok, nil
}
