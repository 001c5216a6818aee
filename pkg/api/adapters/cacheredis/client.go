// Package cacheredis backs the cache.Cache port with a real go-redis
// client, exercising the connfx-managed Redis connection.
package cacheredis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client adapts *redis.Client to the cache.Cache port.
type Client struct {
	rdb *redis.Client
}

// New wraps an already-connected *redis.Client.
func New(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// Get returns (value, true, nil) on a hit, (nil, false, nil) on a clean miss,
// and a non-nil error only for an actual Redis failure.
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, err
	}

	return value, true, nil
}

// Set stores value under key with the given TTL.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}
