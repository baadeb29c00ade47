package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pricing/internal/resilience"
)

type payload struct {
	Total string `json:"total"`
}

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, ttl, "pricing:"), mr
}

func TestRoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)

	key := c.Key("quote", "abc")
	require.Equal(t, "pricing:quote:abc", key)

	var got payload
	found, err := c.GetJSON(ctx, key, &got)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, c.SetJSON(ctx, key, payload{Total: "1062.00"}))
	found, err = c.GetJSON(ctx, key, &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "1062.00", got.Total)

	mr.FastForward(2 * time.Minute)
	found, err = c.GetJSON(ctx, key, &got)
	require.NoError(t, err)
	require.False(t, found)
}

func TestCorruptPayload(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set(c.Key("quote", "bad"), "{not json"))

	var got payload
	_, err := c.GetJSON(ctx, c.Key("quote", "bad"), &got)
	require.Error(t, err)
}

func TestDisabledCacheIsNoop(t *testing.T) {
	ctx := context.Background()
	var c *Cache
	require.False(t, c.Enabled())
	require.NoError(t, c.SetJSON(ctx, "k", payload{}))
	found, err := c.GetJSON(ctx, "k", &payload{})
	require.NoError(t, err)
	require.False(t, found)
	require.NoError(t, c.Ping(ctx))
	require.Equal(t, "quote:x", c.Key("quote", "x"))

	require.False(t, New(nil, time.Minute, "").Enabled())
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()

	_, err = Connect(context.Background(), "not-a-url")
	require.Error(t, err)
}

func TestBreakerSkipsRedisWhenOpen(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0", MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	breaker := resilience.NewBreaker(1, 0.5, time.Hour)
	c := New(client, time.Minute, "pricing").WithBreaker(breaker)

	_, err := c.GetJSON(ctx, c.Key("quote", "a"), &payload{})
	require.Error(t, err)
	require.Equal(t, resilience.Open, breaker.State())

	found, err := c.GetJSON(ctx, c.Key("quote", "a"), &payload{})
	require.NoError(t, err)
	require.False(t, found)
	require.NoError(t, c.SetJSON(ctx, c.Key("quote", "a"), payload{Total: "1"}))
}
