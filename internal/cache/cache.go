package cache

import (
	"context"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache miss")

// Cache stores values under string keys with a per-entry TTL. Get decodes the
// stored value into dest, which must be a non-nil pointer, and returns
// ErrCacheMiss when the key is absent or expired.
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
