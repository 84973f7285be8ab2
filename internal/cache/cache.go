package cache

import (
	"context"
	"time"
)

// Store keeps raw bytes with a TTL. Implementations report a miss as ok=false, not an error.
type Store interface {
	Get(ctx context.Context, key string) (b []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
