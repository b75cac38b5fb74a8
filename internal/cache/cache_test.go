package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Minute)

	key := c.generateKey("/score", []byte(`{"record":{}}`))
	c.Set(key, []byte(`{"total":0}`))

	data, found := c.Get(key)
	assert.True(t, found)
	assert.Equal(t, []byte(`{"total":0}`), data)
}

func TestCacheMiss(t *testing.T) {
	c := NewCache(time.Minute)

	_, found := c.Get("missing")
	assert.False(t, found)
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(10 * time.Millisecond)

	c.Set("key", []byte("data"))
	time.Sleep(25 * time.Millisecond)

	_, found := c.Get("key")
	assert.False(t, found)
}

func TestCacheKeyIncludesPath(t *testing.T) {
	c := NewCache(time.Minute)

	body := []byte(`{"records":[]}`)
	assert.NotEqual(t,
		c.generateKey("/score", body),
		c.generateKey("/score/batch", body),
	)
}

func TestCacheClearAndSize(t *testing.T) {
	c := NewCache(time.Minute)

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	assert.Equal(t, 2, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestCacheStats(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("a", []byte("1"))

	stats := c.Stats()
	assert.Equal(t, 1, stats["total_items"])
	assert.Equal(t, 0, stats["expired_items"])
	assert.Equal(t, 1, stats["active_items"])
	assert.Equal(t, 60.0, stats["ttl_seconds"])
}
