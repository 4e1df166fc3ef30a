package cache

import (
	"context"
	"time"
)

// Cache is a keyed store of values that expire after a fixed window.
// Implementations must be safe for concurrent use.
type Cache[T any] interface {
	Get(ctx context.Context, key string) (T, bool)
	Set(ctx context.Context, key string, data T)
}

// DefaultTTL matches the refresh window of the published dashboard.
const DefaultTTL = 10 * time.Minute
