// Package cache defines the port interface for caching rendered artifacts.
package cache

import (
	"context"
	"time"
)

// Cache is the port interface for key-value caching of encoded bytes.
// Implementations may evict entries before their TTL expires; callers must
// treat every Get as potentially a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
