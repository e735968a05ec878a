package session

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResetConsumer enforces single-use of password-reset tokens. Consume marks
// a token's jti as spent and reports whether this call was the first; the
// TTL bounds how long the mark must be remembered (the token's own expiry
// rejects it afterwards). When the RESET_TOKEN_SINGLE_USE toggle is off the
// handlers simply never consult this store.
type ResetConsumer interface {
	Consume(ctx context.Context, jti string, until time.Time) (bool, error)
}

// RedisResetConsumer stores spent jtis as expiring Redis keys.
type RedisResetConsumer struct {
	client *redis.Client
}

// NewRedisResetConsumer builds a ResetConsumer backed by the given client.
func NewRedisResetConsumer(client *redis.Client) *RedisResetConsumer {
	return &RedisResetConsumer{client: client}
}

func (r *RedisResetConsumer) Consume(ctx context.Context, jti string, until time.Time) (bool, error) {
	return r.client.SetNX(ctx, "reset:used:"+jti, 1, safeTTL(until)).Result()
}

// safeTTL converts an absolute deadline to a TTL, substituting a minimum
// so the key still expires when the deadline is already in the past.
func safeTTL(until time.Time) time.Duration {
	ttl := time.Until(until)
	if ttl <= 0 {
		return time.Minute
	}
	return ttl
}

// MemoryResetConsumer is the in-process equivalent used in tests. Spent
// marks are never garbage collected; test lifetimes make that acceptable.
type MemoryResetConsumer struct {
	mu    sync.Mutex
	spent map[string]struct{}
}

// NewMemoryResetConsumer returns an empty in-process consumer.
func NewMemoryResetConsumer() *MemoryResetConsumer {
	return &MemoryResetConsumer{spent: make(map[string]struct{})}
}

func (m *MemoryResetConsumer) Consume(ctx context.Context, jti string, until time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.spent[jti]; ok {
		return false, nil
	}
	m.spent[jti] = struct{}{}
	return true, nil
}
