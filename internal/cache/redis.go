package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/farxc/envelopa-irregularidades/internal/logger"
	goredis "github.com/redis/go-redis/v9"
)

const redisComponent = "RedisCache"

// RedisCache stores JSON-encoded values under a key prefix so several
// processes can share one report window. Redis errors degrade to misses.
type RedisCache[T any] struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
	logger *logger.Logger
}

func NewRedisCache[T any](client *goredis.Client, prefix string, ttl time.Duration, appLogger *logger.Logger) *RedisCache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache[T]{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: appLogger,
	}
}

func (c *RedisCache[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T

	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.logger.Warn(redisComponent, "Failed to read %s%s: %v", c.prefix, key, err)
		}
		return zero, false
	}

	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		c.logger.Warn(redisComponent, "Discarding undecodable entry %s%s: %v", c.prefix, key, err)
		return zero, false
	}
	return data, true
}

func (c *RedisCache[T]) Set(ctx context.Context, key string, data T) {
	raw, err := json.Marshal(data)
	if err != nil {
		c.logger.Warn(redisComponent, "Failed to encode %s%s: %v", c.prefix, key, err)
		return
	}

	if err := c.client.Set(ctx, c.prefix+key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn(redisComponent, "Failed to write %s%s: %v", c.prefix, key, err)
	}
}
