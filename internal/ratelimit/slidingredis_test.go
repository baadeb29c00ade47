package ratelimit

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestLimiterAllowSlidingWindow(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()
	limiter := RedisLimiter{Client: client, Prefix: "pricing:ratelimit:"}

	ctx := context.Background()
	window := 2 * time.Second
	max := 2

	for i := 0; i < max; i++ {
		allowed, remaining, _, err := limiter.Allow(ctx, "quotes:203.0.113.9", window, max)
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if !allowed {
			t.Fatalf("expected request %d to be allowed", i)
		}
		if remaining != max-(i+1) {
			t.Fatalf("unexpected remaining: %d", remaining)
		}
	}

	allowed, remaining, _, err := limiter.Allow(ctx, "quotes:203.0.113.9", window, max)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if allowed {
		t.Fatal("expected third request to be rejected")
	}
	if remaining != 0 {
		t.Fatalf("expected remaining 0, got %d", remaining)
	}

	mr.FastForward(window)

	allowed, _, _, err = limiter.Allow(ctx, "quotes:203.0.113.9", window, max)
	if err != nil {
		t.Fatalf("allow after window: %v", err)
	}
	if !allowed {
		t.Fatal("expected request after window to be allowed")
	}
}

func TestRedisLimiterKeysAreIndependent(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()
	limiter := RedisLimiter{Client: client, Prefix: "pricing:ratelimit:"}
	ctx := context.Background()

	allowed, _, _, err := limiter.Allow(ctx, "quotes:a", time.Minute, 1)
	if err != nil || !allowed {
		t.Fatalf("first call for a: allowed=%v err=%v", allowed, err)
	}
	allowed, _, _, err = limiter.Allow(ctx, "quotes:b", time.Minute, 1)
	if err != nil || !allowed {
		t.Fatalf("first call for b: allowed=%v err=%v", allowed, err)
	}
	if !mr.Exists("pricing:ratelimit:quotes:a") {
		t.Fatal("expected sorted set under the configured prefix")
	}
	if ttl := mr.TTL("pricing:ratelimit:quotes:a"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected ttl %v", ttl)
	}
}

func TestRedisLimiterWithoutClientAllows(t *testing.T) {
	allowed, remaining, _, err := RedisLimiter{}.Allow(context.Background(), "k", time.Second, 3)
	if err != nil || !allowed || remaining != 3 {
		t.Fatalf("expected passthrough, got allowed=%v remaining=%d err=%v", allowed, remaining, err)
	}
}
