package ports

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Cache.Get when the key does not exist.
var ErrCacheMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// SetPair writes two entries with the same TTL in one round trip; used to
	// keep the full snapshot and its summary projection in step.
	SetPair(ctx context.Context, first, second KV, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) (int64, error)
	Ping(ctx context.Context) error
}

type KV struct {
	Key   string
	Value string
}
