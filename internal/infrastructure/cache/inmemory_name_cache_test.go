package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryNameCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryNameCache()
	defer c.Stop()

	_, ok, err := c.Get(ctx, "employee:1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "employee:1", "Ana Reyes", time.Minute))
	name, ok, err := c.Get(ctx, "employee:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Ana Reyes", name)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestInMemoryNameCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryNameCache()
	defer c.Stop()

	require.NoError(t, c.Set(ctx, "product:1", "Serum", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := c.Get(ctx, "product:1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, c.Len(), "expired entries are dropped on read")
}

func TestInMemoryNameCache_CleanupGoroutine(t *testing.T) {
	ctx := context.Background()
	c := newInMemoryNameCache(5 * time.Millisecond)
	defer c.Stop()

	require.NoError(t, c.Set(ctx, "a", "A", time.Millisecond))
	require.NoError(t, c.Set(ctx, "b", "B", time.Hour))

	assert.Eventually(t, func() bool { return c.Len() == 1 }, time.Second, 5*time.Millisecond)
}

func TestInMemoryNameCache_StopIsIdempotent(t *testing.T) {
	c := NewInMemoryNameCache()
	c.Stop()
	assert.NotPanics(t, c.Stop)
}
