package cache

import (
	"context"
	"sync"
	"time"
)

type ttlItem[T any] struct {
	data      T
	expiresAt time.Time
}

// TTLCache keeps values in memory until their TTL elapses.
type TTLCache[T any] struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]ttlItem[T]
}

func NewTTLCache[T any](ttl time.Duration) *TTLCache[T] {
	return NewTTLCacheWithClock[T](ttl, time.Now)
}

// NewTTLCacheWithClock is NewTTLCache with a custom time source.
func NewTTLCacheWithClock[T any](ttl time.Duration, now func() time.Time) *TTLCache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TTLCache[T]{
		ttl:   ttl,
		now:   now,
		items: make(map[string]ttlItem[T]),
	}
}

func (c *TTLCache[T]) Get(_ context.Context, key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	item, exists := c.items[key]
	if !exists {
		return zero, false
	}

	if !c.now().Before(item.expiresAt) {
		delete(c.items, key)
		return zero, false
	}
	return item.data, true
}

func (c *TTLCache[T]) Set(_ context.Context, key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = ttlItem[T]{
		data:      data,
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *TTLCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *TTLCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// CleanExpired drops every expired entry and returns how many were removed.
func (c *TTLCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, item := range c.items {
		if !now.Before(item.expiresAt) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}
