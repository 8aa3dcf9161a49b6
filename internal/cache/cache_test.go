package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSet(t *testing.T) {
	c := New(time.Minute, time.Minute)
	defer c.Stop()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", "v", 0)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	// overwrite
	c.Set("k", "v2", 0)
	got, _ = c.Get("k")
	assert.Equal(t, "v2", got)
}

func TestExpiry(t *testing.T) {
	c := New(time.Minute, time.Minute)
	defer c.Stop()

	c.Set("k", "v", 50*time.Millisecond)

	_, ok := c.Get("k")
	assert.True(t, ok, "read before expiry should hit")

	time.Sleep(80 * time.Millisecond)

	_, ok = c.Get("k")
	assert.False(t, ok, "read after expiry should miss")
	assert.Equal(t, 0, c.Len(), "expired entry should be evicted on read")
}

func TestSweepEvictsWithoutReads(t *testing.T) {
	c := New(time.Minute, 20*time.Millisecond)
	defer c.Stop()

	c.Set("stale", "v", 10*time.Millisecond)
	c.Set("fresh", "v", time.Minute)

	assert.Eventually(t, func() bool {
		return c.Len() == 1
	}, time.Second, 10*time.Millisecond, "sweep should evict the expired entry")

	_, ok := c.Get("fresh")
	assert.True(t, ok)
}

func TestDeletePrefix(t *testing.T) {
	c := New(time.Minute, time.Minute)
	defer c.Stop()

	c.Set("products:list:1", "a", 0)
	c.Set("products:list:2", "b", 0)
	c.Set("categories", "c", 0)

	n := c.DeletePrefix("products:list:")
	assert.Equal(t, 2, n)

	_, ok := c.Get("categories")
	assert.True(t, ok, "unrelated key must survive prefix eviction")
	_, ok = c.Get("products:list:1")
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	c := New(time.Minute, time.Minute)
	defer c.Stop()

	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Clear()

	assert.Equal(t, 0, c.Len())
}

func TestStopIsIdempotent(t *testing.T) {
	c := New(time.Minute, time.Minute)
	c.Stop()
	c.Stop()
}
