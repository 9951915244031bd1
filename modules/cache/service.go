// Package cache provides a JSON cache over a fiber storage backend.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/redis/go-redis/v9"
)

// CacheService defines the caching operations used by the catalog.
type CacheService interface {
	// Get unmarshals the cached value into dest and reports whether the key was found.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores a JSON-encoded value with the default TTL.
	Set(ctx context.Context, key string, value any) error

	// SetWithTTL stores a JSON-encoded value with a custom TTL.
	SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes a single key.
	Delete(ctx context.Context, key string) error

	// InvalidateAll removes every key under this service's prefix.
	InvalidateAll(ctx context.Context) error

	// Close closes the underlying storage connection.
	Close() error
}

// Storage is the subset of a fiber storage driver the cache needs.
type Storage interface {
	GetWithContext(ctx context.Context, key string) ([]byte, error)
	SetWithContext(ctx context.Context, key string, val []byte, exp time.Duration) error
	DeleteWithContext(ctx context.Context, key string) error
	ResetWithContext(ctx context.Context) error
	Close() error
}

// redisConn is implemented by the redis storage driver and enables prefix-scoped invalidation.
type redisConn interface {
	Conn() redis.UniversalClient
}

type cacheService struct {
	storage Storage
	prefix  string
	ttl     time.Duration
	logger  types.Logger
}

// NewCacheService creates a CacheService wrapping the provided storage.
func NewCacheService(s Storage, prefix string, ttl time.Duration, logger types.Logger) CacheService {
	return &cacheService{
		storage: s,
		prefix:  prefix,
		ttl:     ttl,
		logger:  logger,
	}
}

func (c *cacheService) Get(ctx context.Context, key string, dest any) (bool, error) {
	fullKey := c.prefix + key

	data, err := c.storage.GetWithContext(ctx, fullKey)
	if err != nil {
		return false, fmt.Errorf("cache get error: %w", err)
	}

	// nil or empty means cache miss
	if len(data) == 0 {
		c.logger.Debug("Cache miss", "key", fullKey)
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}

	c.logger.Debug("Cache hit", "key", fullKey)
	return true, nil
}

func (c *cacheService) Set(ctx context.Context, key string, value any) error {
	return c.SetWithTTL(ctx, key, value, c.ttl)
}

func (c *cacheService) SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	if err := c.storage.SetWithContext(ctx, c.prefix+key, data, ttl); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

func (c *cacheService) Delete(ctx context.Context, key string) error {
	if err := c.storage.DeleteWithContext(ctx, c.prefix+key); err != nil {
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}

// InvalidateAll scans and deletes prefixed keys when the backend is redis.
// Other backends are reset entirely.
func (c *cacheService) InvalidateAll(ctx context.Context) error {
	rc, ok := c.storage.(redisConn)
	if !ok {
		if err := c.storage.ResetWithContext(ctx); err != nil {
			return fmt.Errorf("cache reset error: %w", err)
		}
		return nil
	}

	conn := rc.Conn()
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := conn.Scan(ctx, cursor, c.prefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("cache scan error: %w", err)
		}
		if len(keys) > 0 {
			if err := conn.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache delete error: %w", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.logger.Debug("Cache invalidated", "prefix", c.prefix, "keys", deleted)
	return nil
}

func (c *cacheService) Close() error {
	return c.storage.Close()
}
