package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)

func TestTTLCache_GetPut(t *testing.T) {
	clock := NewFakeClock(epoch)
	c := New[string, int](WithClock(clock), WithScheduler(clock))

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Put("a", 1, time.Minute)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, c.Len())
}

func TestTTLCache_TimerEvictsAtExpiry(t *testing.T) {
	clock := NewFakeClock(epoch)
	c := New[string, int](WithClock(clock), WithScheduler(clock))

	c.Put("a", 1, 5*time.Minute)
	clock.Advance(4*time.Minute + 59*time.Second)
	assert.Equal(t, 1, c.Len())

	clock.Advance(time.Second)
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestTTLCache_ReplaceCancelsPreviousTimer(t *testing.T) {
	clock := NewFakeClock(epoch)
	c := New[string, int](WithClock(clock), WithScheduler(clock))

	c.Put("a", 1, time.Minute)
	clock.Advance(30 * time.Second)
	c.Put("a", 2, time.Minute)
	assert.Equal(t, 1, clock.Pending())

	clock.Advance(45 * time.Second)
	v, ok := c.Get("a")
	require.True(t, ok, "the first timer must not evict the replacement")
	assert.Equal(t, 2, v)
}

func TestTTLCache_LazyExpiryWithoutScheduler(t *testing.T) {
	clock := NewFakeClock(epoch)
	c := New[string, int](WithClock(clock), WithScheduler(nil))

	c.Put("a", 1, time.Minute)
	c.Put("b", 2, time.Hour)
	clock.Advance(2 * time.Minute)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 1, c.EvictExpired())
	_, ok := c.Get("b")
	assert.True(t, ok)
}

func TestTTLCache_DeleteAndClear(t *testing.T) {
	clock := NewFakeClock(epoch)
	c := New[string, int](WithClock(clock), WithScheduler(clock))

	c.Put("a", 1, time.Minute)
	c.Put("b", 2, time.Minute)
	c.Put("c", 3, 0)

	c.Delete("a")
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, clock.Pending())
}

func TestTTLCache_SystemClock(t *testing.T) {
	c := New[string, string]()

	c.Put("k", "v", time.Hour)
	v, ok := c.Get("k")

	assert.True(t, ok)
	assert.Equal(t, "v", v)
	c.Clear()
}
