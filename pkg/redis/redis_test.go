package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockpicker/pkg/config"
	"github.com/wonny/stockpicker/pkg/logger"
)

type cachedPick struct {
	Symbol string  `json:"symbol"`
	Score  float64 `json:"score"`
}

func disabledClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(context.Background(), &config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)

	assert.False(t, client.Enabled())
	assert.Nil(t, client.Redis())
	assert.NoError(t, client.Close())
}

func TestNewFromRedis(t *testing.T) {
	rdb, _ := redismock.NewClientMock()
	assert.True(t, NewFromRedis(rdb).Enabled())
	assert.False(t, NewFromRedis(nil).Enabled())
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")
	ctx := context.Background()

	// When Redis is disabled, cache operations should be no-ops
	var result cachedPick
	found, err := cache.Get(ctx, "key", &result)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, cache.Set(ctx, "key", cachedPick{Symbol: "PETR4"}, TTLMedium))
	assert.NoError(t, cache.Delete(ctx, "key"))

	n, err := cache.DeletePattern(ctx, "*")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCache_GetHit(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cache := NewCache(NewFromRedis(rdb), "picker")

	mock.ExpectGet("picker:cache:k").SetVal(`{"symbol":"VALE3","score":8.9}`)

	var got cachedPick
	found, err := cache.Get(context.Background(), "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedPick{Symbol: "VALE3", Score: 8.9}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_GetMissAndError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cache := NewCache(NewFromRedis(rdb), "picker")
	ctx := context.Background()

	mock.ExpectGet("picker:cache:missing").RedisNil()
	var got cachedPick
	found, err := cache.Get(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)

	mock.ExpectGet("picker:cache:broken").SetErr(errors.New("connection reset"))
	found, err = cache.Get(ctx, "broken", &got)
	assert.Error(t, err)
	assert.False(t, found)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_CorruptEntryIsDeleted(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cache := NewCache(NewFromRedis(rdb), "picker")

	mock.ExpectGet("picker:cache:k").SetVal("not json")
	mock.ExpectDel("picker:cache:k").SetVal(1)

	var got cachedPick
	found, err := cache.Get(context.Background(), "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrSet(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cache := NewCache(NewFromRedis(rdb), "picker")
	ctx := context.Background()

	value := cachedPick{Symbol: "PETR4", Score: 9.2}
	data, err := json.Marshal(value)
	require.NoError(t, err)

	mock.ExpectGet("picker:cache:k").RedisNil()
	mock.ExpectSet("picker:cache:k", data, TTLMedium).SetVal("OK")

	calls := 0
	got, hit, err := GetOrSet(ctx, cache, "k", TTLMedium, func() (cachedPick, error) {
		calls++
		return value, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, value, got)
	assert.Equal(t, 1, calls)

	mock.ExpectGet("picker:cache:k").SetVal(string(data))
	got, hit, err = GetOrSet(ctx, cache, "k", TTLMedium, func() (cachedPick, error) {
		calls++
		return cachedPick{}, nil
	})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, value, got)
	assert.Equal(t, 1, calls, "hit must not call fn")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrSet_LogsIgnoredFailures(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	var buf bytes.Buffer
	log := logger.NewWithWriter(&config.Config{Env: "development", LogLevel: "warn", LogFormat: "json"}, &buf)
	cache := NewCache(NewFromRedis(rdb), "picker").WithLogger(log)

	mock.ExpectGet("picker:cache:k").SetErr(errors.New("connection refused"))
	// Set 기대값 없음 → mock이 에러 반환 → 쓰기 실패도 로그

	value := cachedPick{Symbol: "VALE3", Score: 8.9}
	got, hit, err := GetOrSet(context.Background(), cache, "k", TTLMedium, func() (cachedPick, error) {
		return value, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, value, got)

	out := buf.String()
	assert.Contains(t, out, "Cache read failed")
	assert.Contains(t, out, "connection refused")
	assert.Contains(t, out, "Cache write failed")
	assert.Contains(t, out, `"key":"k"`)
}

func TestCache_WithLoggerCopies(t *testing.T) {
	base := NewCache(disabledClient(t), "picker")
	withLog := base.WithLogger(logger.Nop())

	assert.NotSame(t, base, withLog)
	assert.Equal(t, base.prefix, withLog.prefix)
}

func TestGetOrSet_FnError(t *testing.T) {
	cache := NewCache(disabledClient(t), "picker")

	_, _, err := GetOrSet(context.Background(), cache, "k", TTLShort, func() (cachedPick, error) {
		return cachedPick{}, errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
}

func TestCache_DeletePattern(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cache := NewCache(NewFromRedis(rdb), "picker")

	keys := []string{"picker:cache:recommend:abc:value", "picker:cache:recommend:abc:growth"}
	mock.ExpectScan(0, "picker:cache:recommend:*", 200).SetVal(keys, 0)
	mock.ExpectDel(keys...).SetVal(2)

	n, err := cache.DeletePattern(context.Background(), RecommendationPattern())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "test")
	cfg := ClientRateLimit("127.0.0.1", 5)

	// When Redis is disabled, all requests should be allowed
	allowed, remaining, err := limiter.Allow(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, cfg.Limit, remaining)
	assert.NoError(t, limiter.Wait(context.Background(), cfg))
}

func TestRateLimiter_Allow(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(NewFromRedis(rdb), "picker")

	fixed := time.UnixMilli(1_700_000_000_000)
	limiter.now = func() time.Time { return fixed }

	cfg := ClientRateLimit("10.0.0.1", 5)
	now := fixed.UnixMilli()
	args := []interface{}{now, now - cfg.Window.Milliseconds(), cfg.Limit, cfg.Window.Milliseconds()}
	key := []string{"picker:ratelimit:api:10.0.0.1"}

	mock.ExpectEvalSha(slidingWindow.Hash(), key, args...).SetVal([]interface{}{int64(1), int64(4)})
	allowed, remaining, err := limiter.Allow(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 4, remaining)

	mock.ExpectEvalSha(slidingWindow.Hash(), key, args...).SetVal([]interface{}{int64(0), int64(0)})
	allowed, remaining, err = limiter.Allow(context.Background(), cfg)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Zero(t, remaining)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRateLimit(t *testing.T) {
	cfg := ClientRateLimit("1.2.3.4", 20)
	assert.Equal(t, "api:1.2.3.4", cfg.Key)
	assert.Equal(t, 20, cfg.Limit)
	assert.Equal(t, time.Second, cfg.Window)

	assert.Equal(t, 1, ClientRateLimit("x", 0.5).Limit)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "recommend:abc123:dividends", RecommendationKey("abc123", "dividends"))
	assert.Equal(t, "recommend:*", RecommendationPattern())
}
