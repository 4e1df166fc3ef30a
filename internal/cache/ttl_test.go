package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/farxc/envelopa-irregularidades/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTTLCacheServesFreshEntries(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c := cache.NewTTLCacheWithClock[string](10*time.Minute, clock.Now)

	c.Set(ctx, "report", "first")
	clock.Advance(9*time.Minute + 59*time.Second)

	got, ok := c.Get(ctx, "report")
	require.True(t, ok)
	assert.Equal(t, "first", got)
}

func TestTTLCacheExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c := cache.NewTTLCacheWithClock[string](10*time.Minute, clock.Now)

	c.Set(ctx, "report", "first")
	clock.Advance(10 * time.Minute)

	_, ok := c.Get(ctx, "report")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestTTLCacheSetRefreshesExpiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c := cache.NewTTLCacheWithClock[int](time.Minute, clock.Now)

	c.Set(ctx, "k", 1)
	clock.Advance(50 * time.Second)
	c.Set(ctx, "k", 2)
	clock.Advance(50 * time.Second)

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestTTLCacheCleanExpired(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c := cache.NewTTLCacheWithClock[int](time.Minute, clock.Now)

	c.Set(ctx, "old", 1)
	clock.Advance(30 * time.Second)
	c.Set(ctx, "new", 2)
	clock.Advance(45 * time.Second)

	assert.Equal(t, 1, c.CleanExpired())
	assert.Equal(t, 1, c.Size())

	c.Delete("new")
	assert.Equal(t, 0, c.Size())
}

func TestTTLCacheNonPositiveTTLUsesDefault(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c := cache.NewTTLCacheWithClock[int](0, clock.Now)

	c.Set(ctx, "k", 1)
	clock.Advance(cache.DefaultTTL - time.Second)
	_, ok := c.Get(ctx, "k")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}
