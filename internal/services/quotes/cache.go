package quotes

import (
	"context"
	"sync"
	"time"

	"stockwatch/internal/adapters/redis"
	"stockwatch/internal/domain/quote"
)

const (
	snapshotKey = "stockwatch:movers:snapshot"

	// snapshotTTL is the freshness window: a snapshot younger than this
	// is served without touching the upstream.
	snapshotTTL = 30 * time.Minute
)

// SnapshotCache stores the most recent filtered movers snapshot for the
// duration of the freshness window.
type SnapshotCache interface {
	// Get returns the cached snapshot, ok=false when absent or expired
	Get(ctx context.Context) (*quote.MoversSnapshot, bool, error)

	// Set stores a snapshot for the freshness window
	Set(ctx context.Context, snapshot *quote.MoversSnapshot) error
}

// RedisSnapshotCache keeps the snapshot in Redis so the window survives
// process restarts and is shared between replicas.
type RedisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSnapshotCache creates a Redis-backed snapshot cache
func NewRedisSnapshotCache(client *redis.Client) *RedisSnapshotCache {
	return &RedisSnapshotCache{client: client, ttl: snapshotTTL}
}

func (c *RedisSnapshotCache) Get(ctx context.Context) (*quote.MoversSnapshot, bool, error) {
	var snapshot quote.MoversSnapshot

	err := c.client.Get(ctx, snapshotKey, &snapshot)
	if redis.IsNil(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return &snapshot, true, nil
}

func (c *RedisSnapshotCache) Set(ctx context.Context, snapshot *quote.MoversSnapshot) error {
	return c.client.Set(ctx, snapshotKey, snapshot, c.ttl)
}

// MemorySnapshotCache is the in-process fallback used when Redis is not
// configured, and the default in tests.
type MemorySnapshotCache struct {
	mu       sync.RWMutex
	snapshot *quote.MoversSnapshot
	storedAt time.Time
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySnapshotCache creates an in-process snapshot cache
func NewMemorySnapshotCache() *MemorySnapshotCache {
	return &MemorySnapshotCache{ttl: snapshotTTL, now: time.Now}
}

func (c *MemorySnapshotCache) Get(ctx context.Context) (*quote.MoversSnapshot, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snapshot == nil || c.now().Sub(c.storedAt) >= c.ttl {
		return nil, false, nil
	}

	return c.snapshot, true, nil
}

func (c *MemorySnapshotCache) Set(ctx context.Context, snapshot *quote.MoversSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot = snapshot
	c.storedAt = c.now()
	return nil
}
