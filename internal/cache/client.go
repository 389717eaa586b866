package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is a thin wrapper over Redis exposing only the time-bounded
// key-value operations the verification workflow needs. It carries no
// business meaning; expiry is enforced entirely by Redis per-key TTLs.
type Client struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// Get returns the value for key. The second return is false when the key
// does not exist (or has expired); that case is not an error.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get key: %w", err)
	}
	return val, true, nil
}

func (c *Client) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

// SetIfExistsKeepTTL overwrites the value of an existing key without
// touching its remaining TTL. Returns false without writing when the key no
// longer exists; a plain SET with KEEPTTL would recreate it with no expiry.
func (c *Client) SetIfExistsKeepTTL(ctx context.Context, key, value string) (bool, error) {
	set, err := c.rdb.SetXX(ctx, key, value, redis.KeepTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set key: %w", err)
	}
	return set, nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

// Incr increments the integer value of key, creating it at 1 if absent,
// and returns the post-increment count.
func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment key: %w", err)
	}
	return count, nil
}

func (c *Client) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := c.rdb.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set expiry: %w", err)
	}
	return nil
}

// TTL returns the remaining lifetime of key, or -1 when the key exists
// without an expiry, matching the Redis convention.
func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := c.rdb.TTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get ttl: %w", err)
	}
	return ttl, nil
}

func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check key: %w", err)
	}
	return n > 0, nil
}
