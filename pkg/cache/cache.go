// Package cache stores computed results, such as simulation traces, keyed by
// a hash of their inputs.
//
// Three backends are provided:
//   - NullCache: stores nothing, the default
//   - FileCache: one file per entry under a directory, for a single process
//   - RedisCache: shared across server instances
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/dropkit/pkg/errors"
)

// Backend names accepted by Open.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. Expired
	// entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend   string
	Dir       string
	RedisAddr string
	// Retry governs connecting to remote backends.
	Retry Backoff
}

// Open creates the backend named by opts.Backend. An empty name means
// BackendNone.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		if opts.Dir == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "file cache requires a directory")
		}
		return NewFileCache(opts.Dir)
	case BackendRedis:
		if opts.RedisAddr == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "redis cache requires an address")
		}
		return NewRedisCache(ctx, opts.RedisAddr, opts.Retry)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (valid: %s, %s, %s)",
		opts.Backend, BackendNone, BackendFile, BackendRedis)
}
