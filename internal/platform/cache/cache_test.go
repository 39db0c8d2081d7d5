package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Sales []int  `json:"sales"`
	Label string `json:"label"`
}

// setupTestCache returns a cache on REDIS_TEST_ADDR (default localhost:6379),
// skipping the test when Redis is not reachable.
func setupTestCache(t *testing.T, prefix string) *RedisCache {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DialTimeout: 500 * time.Millisecond})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available at %s: %v", addr, err)
	}

	c := NewRedisCache(client, prefix, time.Minute)
	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return c
}

func TestRedisCache_SetGetDelete(t *testing.T) {
	c := setupTestCache(t, "pos-test:")
	ctx := context.Background()

	var got payload
	found, err := c.Get(ctx, "analytics", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "analytics", payload{Sales: []int{1, 2, 3}, Label: "week"}))

	found, err = c.Get(ctx, "analytics", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Sales: []int{1, 2, 3}, Label: "week"}, got)

	require.NoError(t, c.Delete(ctx, "analytics"))
	found, err = c.Get(ctx, "analytics", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_TTL(t *testing.T) {
	c := setupTestCache(t, "pos-ttl-test:")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", payload{Label: "x"}))
	ttl, err := c.client.TTL(ctx, "pos-ttl-test:k").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestNoop(t *testing.T) {
	var c Cache = Noop{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", payload{Label: "x"}))
	var got payload
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Close())
}
