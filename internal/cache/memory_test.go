package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", []byte("value"), 0))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)

	ok, err := c.Has(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err := c.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrCacheMiss)

	ok, err := c.Has(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheReturnsCopy(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("abc"), 0))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	got[0] = 'X'

	again, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryCacheStats(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "nope")

	stats := c.Stats()
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
	assert.EqualValues(t, 1, stats.Sets)
	assert.Equal(t, 1, stats.Items)
	assert.InDelta(t, 50.0, stats.HitRate, 0.0001)

	c.ResetStats()
	assert.Zero(t, c.Stats().Hits)
}

func TestMemoryCacheClosed(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{})
	require.NoError(t, c.Close())

	ctx := context.Background()
	assert.ErrorIs(t, c.Set(ctx, "k", nil, 0), ErrCacheClosed)
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheClosed)
}

func TestGetJSONRoundTrip(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, SetJSON(ctx, c, "p", payload{Name: "jobs", Count: 3}, 0))

	got, ok := GetJSON[payload](ctx, c, "p")
	require.True(t, ok)
	assert.Equal(t, payload{Name: "jobs", Count: 3}, got)

	_, ok = GetJSON[payload](ctx, c, "missing")
	assert.False(t, ok)

	// Corrupt entries count as misses.
	require.NoError(t, c.Set(ctx, "bad", []byte("{not json"), 0))
	_, ok = GetJSON[payload](ctx, c, "bad")
	assert.False(t, ok)
}

func TestFactory(t *testing.T) {
	c, err := New(Options{Type: "memory", DefaultTTL: time.Minute})
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)
	_ = c.Close()

	c, err = New(Options{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)
	_ = c.Close()

	_, err = New(Options{Type: "memcached"})
	assert.Error(t, err)
}
