package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wonny/stockpicker/pkg/logger"
)

// scanBatch is the SCAN COUNT hint used by DeletePattern
const scanBatch = 200

// Cache provides typed JSON caching utilities
// ⭐ SSOT: 캐시 헬퍼는 여기서만
type Cache struct {
	client *Client
	prefix string
	logger *logger.Logger
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
		logger: logger.Nop(),
	}
}

// WithLogger returns a copy that logs ignored cache failures to log
func (c *Cache) WithLogger(log *logger.Logger) *Cache {
	cp := *c
	cp.logger = log
	return &cp
}

// Enabled reports whether reads and writes reach Redis
func (c *Cache) Enabled() bool {
	return c.client != nil && c.client.Enabled()
}

func (c *Cache) fullKey(key string) string {
	return fmt.Sprintf("%s:cache:%s", c.prefix, key)
}

// Get retrieves a cached value. A missing or corrupt entry is a miss.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	fullKey := c.fullKey(key)
	data, err := c.client.Redis().Get(ctx, fullKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get failed: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// 손상된 항목은 삭제 후 miss 처리
		_ = c.client.Redis().Del(ctx, fullKey).Err()
		return false, nil
	}

	return true, nil
}

// Set stores a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	if err := c.client.Redis().Set(ctx, c.fullKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Redis().Del(ctx, c.fullKey(key)).Err()
}

// DeletePattern removes every cached key matching a glob (e.g. "recommend:*")
// and returns how many were deleted
func (c *Cache) DeletePattern(ctx context.Context, pattern string) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}

	rdb := c.client.Redis()
	match := c.fullKey(pattern)

	var (
		cursor  uint64
		deleted int64
	)
	for {
		keys, next, err := rdb.Scan(ctx, cursor, match, scanBatch).Result()
		if err != nil {
			return deleted, fmt.Errorf("cache scan failed: %w", err)
		}
		if len(keys) > 0 {
			n, err := rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("cache delete failed: %w", err)
			}
			deleted += n
		}
		if next == 0 {
			return deleted, nil
		}
		cursor = next
	}
}

// GetOrSet retrieves from cache or calls fn to populate it.
// Cache read/write failures are logged and do not fail the call; only fn errors are returned.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fn func() (T, error)) (T, bool, error) {
	var cached T
	found, err := c.Get(ctx, key, &cached)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Cache read failed, recomputing")
	} else if found {
		return cached, true, nil
	}

	value, err := fn()
	if err != nil {
		return value, false, err
	}

	if err := c.Set(ctx, key, value, ttl); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
	return value, false, nil
}

// Predefined TTLs
const (
	TTLShort  = 1 * time.Minute  // 선택 상태
	TTLMedium = 10 * time.Minute // 추천 결과
	TTLLong   = 1 * time.Hour    // 카탈로그
)

// RecommendationKey is the cache key of one strategy's ranking over one dataset
func RecommendationKey(fingerprint, strategy string) string {
	return fmt.Sprintf("recommend:%s:%s", fingerprint, strategy)
}

// RecommendationPattern matches every cached ranking
func RecommendationPattern() string {
	return "recommend:*"
}
