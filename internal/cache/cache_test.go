package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)

	_, ok := c.Get("a") // a becomes most recent
	assert.True(t, ok)

	c.Set("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok, "b should have been evicted")
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())
}

func TestLRUExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New[string, string](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	c.Set("keep", "v")

	now = now.Add(30 * time.Second)
	c.Set("keep", "v2")

	now = now.Add(45 * time.Second)
	_, ok := c.Get("k")
	assert.False(t, ok)

	c.CleanExpired()
	assert.Equal(t, 1, c.Len())
	v, ok := c.Get("keep")
	assert.True(t, ok)
	assert.Equal(t, "v2", v)
}
