package ens

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore remembers domains known to be registered. Only positive results
// are cached: a registered name stays registered for the TTL, while "available"
// must always be re-checked against the chain before money moves.
type CacheStore interface {
	IsMarked(ctx context.Context, domain string) (bool, error)
	Mark(ctx context.Context, domain string, ttl time.Duration) error
}

// CachedOracle decorates an Oracle with a registered-domain cache.
type CachedOracle struct {
	inner  Oracle
	cache  CacheStore
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedOracle wraps inner with the given cache. Cache failures degrade to
// a direct oracle call.
func NewCachedOracle(inner Oracle, cache CacheStore, ttl time.Duration, logger *slog.Logger) *CachedOracle {
	return &CachedOracle{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

func (c *CachedOracle) RecordExists(ctx context.Context, domain string) (bool, error) {
	key := strings.ToLower(domain)
	marked, err := c.cache.IsMarked(ctx, key)
	if err != nil {
		c.logger.WarnContext(ctx, "registry cache read failed", "domain", key, "error", err)
	} else if marked {
		return true, nil
	}

	exists, err := c.inner.RecordExists(ctx, domain)
	if err != nil {
		return false, err
	}
	if exists {
		if err := c.cache.Mark(ctx, key, c.ttl); err != nil {
			c.logger.WarnContext(ctx, "registry cache write failed", "domain", key, "error", err)
		}
	}
	return exists, nil
}

// InMemoryCache is a TTL map cache for single-process deployments.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{entries: make(map[string]time.Time)}
}

func (c *InMemoryCache) IsMarked(_ context.Context, domain string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	expiry, ok := c.entries[domain]
	return ok && time.Now().Before(expiry), nil
}

func (c *InMemoryCache) Mark(_ context.Context, domain string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[domain] = time.Now().Add(ttl)
	return nil
}

const registeredKeyPrefix = "ens:registered:"

// RedisCache shares the registered-domain cache across instances.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) IsMarked(ctx context.Context, domain string) (bool, error) {
	_, err := c.client.Get(ctx, registeredKeyPrefix+domain).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) Mark(ctx context.Context, domain string, ttl time.Duration) error {
	return c.client.Set(ctx, registeredKeyPrefix+domain, "1", ttl).Err()
}
