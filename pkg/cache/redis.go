package cache

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis under a "dropkit:" prefix.
type RedisCache struct {
	client *redis.Client
}

const redisPrefix = "dropkit:"

// NewRedisCache connects to addr, retrying transient connection failures
// according to b.
func NewRedisCache(ctx context.Context, addr string, b Backoff) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	err := b.Retry(ctx, func() error {
		err := client.Ping(ctx).Err()
		if isTransient(err) {
			return Retryable(err)
		}
		return err
	})
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisCache{client: client}, nil
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, redisPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set implements Cache. Redis handles expiry.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.client.Set(ctx, redisPrefix+key, data, ttl).Err()
}

// Delete implements Cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, redisPrefix+key).Err()
}

// Close implements Cache.
func (c *RedisCache) Close() error { return c.client.Close() }

func isTransient(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr)
}

var _ Cache = (*RedisCache)(nil)
