package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return New(rdb), mr
}

func TestGetMissingKey(t *testing.T) {
	client, _ := newTestClient(t)

	val, found, err := client.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, val)
}

func TestSetWithTTLAndGet(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SetWithTTL(ctx, "k", "v", 10*time.Minute))

	val, found, err := client.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", val)

	ttl, err := client.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, ttl)

	mr.FastForward(11 * time.Minute)

	_, found, err = client.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetIfExistsKeepTTLPreservesExpiry(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SetWithTTL(ctx, "k", "v1", 10*time.Minute))
	mr.FastForward(4 * time.Minute)

	set, err := client.SetIfExistsKeepTTL(ctx, "k", "v2")
	require.NoError(t, err)
	assert.True(t, set)

	val, found, err := client.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "v2", val)

	ttl, err := client.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 6*time.Minute, ttl)
}

func TestSetIfExistsKeepTTLMissingKey(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	set, err := client.SetIfExistsKeepTTL(ctx, "gone", "v")
	require.NoError(t, err)
	assert.False(t, set)

	// The miss must not have created the key.
	_, found, err := client.Get(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetIfExistsKeepTTLExpiredKey(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SetWithTTL(ctx, "k", "v1", 10*time.Minute))
	mr.FastForward(11 * time.Minute)

	set, err := client.SetIfExistsKeepTTL(ctx, "k", "v2")
	require.NoError(t, err)
	assert.False(t, set, "an expired key must not be written back to life")

	exists, err := client.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestIncrAndExpire(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	count, err := client.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = client.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, client.Expire(ctx, "counter", time.Hour))
	mr.FastForward(2 * time.Hour)

	count, err = client.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "expired counter restarts from scratch")
}

func TestDeleteAndExists(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SetWithTTL(ctx, "k", "v", time.Minute))

	exists, err := client.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, client.Delete(ctx, "k"))

	exists, err = client.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting an absent key is not an error.
	require.NoError(t, client.Delete(ctx, "k"))
}
