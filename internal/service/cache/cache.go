package cache

import (
	"context"
	"time"
)

// BytesCache is a small read-through cache over serialized payloads.
// Implementations must be safe for concurrent use.
type BytesCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}
