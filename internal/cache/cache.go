package cache

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sharelab/share-o-meter/internal/monitoring"
)

// sweepInterval is how often the background sweeper drops expired entries.
const sweepInterval = 5 * time.Minute

// cacheablePaths are the POST endpoints whose responses are pure functions
// of the request body. Cached entries are response bytes keyed by a body
// hash, not stored scores; entries expire with the TTL.
var cacheablePaths = map[string]bool{
	"/score":       true,
	"/score/batch": true,
	"/sindex":      true,
}

type entry struct {
	body     []byte
	storedAt time.Time
}

// Cache is a TTL-bounded response cache. Expired entries are dropped lazily
// on read and swept periodically in the background.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	stop    chan struct{}
}

// NewCache creates a cache whose entries live for ttl.
func NewCache(ttl time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	go c.sweep()
	return c
}

// Close stops the background sweeper.
func (c *Cache) Close() {
	close(c.stop)
}

func (c *Cache) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, e := range c.entries {
				if now.Sub(e.storedAt) > c.ttl {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}

// generateKey hashes the request path and body into a cache key. The path is
// part of the key so identical bodies sent to different endpoints never
// collide.
func (c *Cache) generateKey(path string, body []byte) string {
	h := fnv.New64a()
	h.Write([]byte(path))
	h.Write([]byte{'\n'})
	h.Write(body)
	return fmt.Sprintf("%016x", h.Sum64())
}

// Get returns the cached bytes for key if present and fresh.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Since(e.storedAt) > c.ttl {
		return nil, false
	}
	return e.body, true
}

// Set stores body under key with a fresh TTL.
func (c *Cache) Set(key string, body []byte) {
	c.mu.Lock()
	c.entries[key] = entry{body: body, storedAt: time.Now()}
	c.mu.Unlock()
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Size returns the number of stored entries, fresh or not.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of cache occupancy.
func (c *Cache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	expired := 0
	now := time.Now()
	for _, e := range c.entries {
		if now.Sub(e.storedAt) > c.ttl {
			expired++
		}
	}

	return map[string]interface{}{
		"total_items":   len(c.entries),
		"expired_items": expired,
		"active_items":  len(c.entries) - expired,
		"ttl_seconds":   c.ttl.Seconds(),
	}
}

// Middleware serves cached responses for the scoring endpoints. Only 200
// responses are stored; anything else passes through uncached.
func (c *Cache) Middleware(metrics *monitoring.Metrics) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method != http.MethodPost || !cacheablePaths[ctx.Request.URL.Path] {
			ctx.Next()
			return
		}

		body, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			ctx.Next()
			return
		}
		ctx.Request.Body = io.NopCloser(bytes.NewReader(body))

		key := c.generateKey(ctx.Request.URL.Path, body)
		if cached, ok := c.Get(key); ok {
			metrics.IncrementCacheHit()
			slog.Debug("Cache hit", "path", ctx.Request.URL.Path, "key", key)
			ctx.Data(http.StatusOK, "application/json", cached)
			ctx.Abort()
			return
		}
		metrics.IncrementCacheMiss()

		capture := &captureWriter{ResponseWriter: ctx.Writer}
		ctx.Writer = capture
		ctx.Next()

		if ctx.Writer.Status() == http.StatusOK {
			c.Set(key, capture.buf.Bytes())
		}
	}
}

// captureWriter tees the response body so a successful response can be
// stored after the handler runs.
type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(data []byte) (int, error) {
	w.buf.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
