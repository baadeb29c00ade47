package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestBreaker(min int, openFor time.Duration) (*Breaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := NewBreaker(min, 0.5, openFor)
	b.now = clock.now
	return b, clock
}

func TestBreakerTransitions(t *testing.T) {
	breaker, clock := newTestBreaker(2, time.Second)
	ctx := context.Background()

	require.True(t, breaker.Allow(ctx))
	breaker.Report(ctx, false)
	require.True(t, breaker.Allow(ctx))
	breaker.Report(ctx, false)

	require.Equal(t, Open, breaker.State())
	require.False(t, breaker.Allow(ctx), "breaker should open after threshold exceeded")

	clock.t = clock.t.Add(time.Second)
	require.True(t, breaker.Allow(ctx), "breaker should admit a probe after cool off")
	require.Equal(t, HalfOpen, breaker.State())
	require.False(t, breaker.Allow(ctx), "only one probe at a time")

	breaker.Report(ctx, true)
	require.Equal(t, Closed, breaker.State())
	require.True(t, breaker.Allow(ctx))
}

func TestBreakerFailedProbeReopens(t *testing.T) {
	breaker, clock := newTestBreaker(1, time.Second)
	ctx := context.Background()
	boom := errors.New("boom")

	require.ErrorIs(t, breaker.Do(ctx, func(context.Context) error { return boom }), boom)
	require.ErrorIs(t, breaker.Do(ctx, func(context.Context) error { return nil }), ErrOpenCircuit)

	clock.t = clock.t.Add(2 * time.Second)
	require.ErrorIs(t, breaker.Do(ctx, func(context.Context) error { return boom }), boom)
	require.Equal(t, Open, breaker.State())
}

func TestBreakerMetrics(t *testing.T) {
	m := NewMetrics("pricing", prometheus.NewRegistry())
	breaker, clock := newTestBreaker(1, time.Second)
	breaker.WithTarget("redis").WithMetrics(m)
	ctx := context.Background()

	breaker.Report(ctx, false)
	require.Equal(t, 1.0, testutil.ToFloat64(m.State.WithLabelValues("redis")))

	clock.t = clock.t.Add(time.Second)
	require.True(t, breaker.Allow(ctx))
	require.Equal(t, 2.0, testutil.ToFloat64(m.State.WithLabelValues("redis")))

	breaker.Report(ctx, true)
	require.Equal(t, 0.0, testutil.ToFloat64(m.State.WithLabelValues("redis")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("redis", "closed", "open")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("redis", "half_open", "closed")))
}

func TestNilBreakerAllows(t *testing.T) {
	var b *Breaker
	require.True(t, b.Allow(context.Background()))
	require.NoError(t, b.Do(context.Background(), func(context.Context) error { return nil }))
}
