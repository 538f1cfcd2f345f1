package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by a Store when a key is absent or expired
var ErrMiss = errors.New("cache miss")

// Store is one cache tier: string keys, opaque serialized values,
// per-entry TTL. Implemented by the Redis tier, the in-process tier
// and the Tiered decorator composing the two.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}
