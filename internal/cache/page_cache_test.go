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

func newRedisCache(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, ttl), mr
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c, mr := newRedisCache(t, time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, PageKey("/"))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, PageKey("/"), []byte(`[1]`)))
	assert.True(t, mr.Exists("newsdesk:page:/"))

	v, ok, err := c.Get(ctx, PageKey("/"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[1]`, string(v))

	require.NoError(t, c.Delete(ctx, PageKey("/"), PageKey("/noticias")))
	_, ok, err = c.Get(ctx, PageKey("/"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_Expires(t *testing.T) {
	c, mr := newRedisCache(t, time.Second)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	mr.FastForward(2 * time.Second)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_Unavailable(t *testing.T) {
	c, mr := newRedisCache(t, time.Minute)
	mr.Close()

	_, _, err := c.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, c.Healthy(context.Background()))
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(2, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1")))
	require.NoError(t, c.Set(ctx, "b", []byte("2")))
	require.NoError(t, c.Set(ctx, "c", []byte("3")))

	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok, "oldest entry evicted")

	v, ok, _ := c.Get(ctx, "c")
	assert.True(t, ok)
	assert.Equal(t, "3", string(v))

	require.NoError(t, c.Delete(ctx, "c"))
	_, ok, _ = c.Get(ctx, "c")
	assert.False(t, ok)
}

func TestPageInvalidator_DropsKeys(t *testing.T) {
	c := NewMemoryCache(10, time.Minute)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, PageKey("/"), []byte("x")))
	require.NoError(t, c.Set(ctx, PageKey("/noticias"), []byte("y")))

	NewPageInvalidator(c).Invalidate("/")

	_, ok, _ := c.Get(ctx, PageKey("/"))
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, PageKey("/noticias"))
	assert.True(t, ok)
}
