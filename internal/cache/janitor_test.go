package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/farxc/envelopa-irregularidades/internal/cache"
	"github.com/stretchr/testify/assert"
)

func TestJanitorSweepsRegisteredCaches(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	a := cache.NewTTLCacheWithClock[int](time.Minute, clock.Now)
	b := cache.NewTTLCacheWithClock[string](time.Hour, clock.Now)

	a.Set(ctx, "x", 1)
	a.Set(ctx, "y", 2)
	b.Set(ctx, "z", "kept")
	clock.Advance(2 * time.Minute)

	var swept []int
	j := cache.NewJanitor(func(removed int) { swept = append(swept, removed) })
	j.Register(a)
	j.Register(b)

	assert.Equal(t, 2, j.Sweep())
	assert.Equal(t, 0, a.Size())
	assert.Equal(t, 1, b.Size())
	assert.Equal(t, []int{2}, swept)
}

func TestJanitorStartAndStop(t *testing.T) {
	j := cache.NewJanitor(nil)
	j.Register(cache.NewTTLCache[int](time.Minute))

	j.Start(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	j.Stop()
	j.Stop()
}

func TestJanitorStartWithNonPositiveIntervalUsesDefault(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		j := cache.NewJanitor(nil)
		j.Register(cache.NewTTLCache[int](time.Minute))

		assert.NotPanics(t, func() {
			j.Start(interval)
			j.Stop()
		})
	}
}
