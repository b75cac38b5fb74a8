package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"golang.org/x/time/rate"

	"github.com/sharelab/share-o-meter/internal/monitoring"
)

const (
	// minBurst keeps the in-memory fallback usable even for tiny limits.
	minBurst = 5
	// memoryLimiterCap bounds the fallback table before it gets reset, so
	// one-off client IPs do not accumulate forever.
	memoryLimiterCap = 1000

	cleanupInterval = time.Hour
)

// Config holds rate limiter configuration.
type Config struct {
	RequestsPerMin  int // per-IP request limit per minute
	BurstMultiplier int // burst capacity multiplier for the fallback buckets
}

// DefaultConfig returns default rate limiting configuration.
func DefaultConfig() Config {
	return Config{RequestsPerMin: 60, BurstMultiplier: 2}
}

// Result is the outcome of a rate limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// RateLimiter enforces per-IP limits through a Redis sliding window, with
// in-memory token buckets taking over whenever Redis is unavailable.
type RateLimiter struct {
	redisLimiter *redis_rate.Limiter
	redisClient  *RedisClient
	config       Config
	metrics      *monitoring.Metrics

	mu             sync.Mutex
	memoryLimiters map[string]*rate.Limiter
}

// NewRateLimiter creates a rate limiter backed by redisClient. A disabled
// client means every check runs against the in-memory buckets.
func NewRateLimiter(redisClient *RedisClient, config Config, metrics *monitoring.Metrics) *RateLimiter {
	rl := &RateLimiter{
		redisClient:    redisClient,
		config:         config,
		metrics:        metrics,
		memoryLimiters: make(map[string]*rate.Limiter),
	}

	if redisClient.IsEnabled() {
		rl.redisLimiter = redis_rate.NewLimiter(redisClient.GetClient())
		slog.Info("Redis rate limiter initialized")
	} else {
		slog.Warn("Redis unavailable, using in-memory rate limiting only")
	}

	go rl.cleanupMemoryLimiters()

	return rl
}

// AllowIP checks whether ip may make another request this minute.
func (rl *RateLimiter) AllowIP(ctx context.Context, ip string) (*Result, error) {
	key := "ratelimit:ip:" + ip

	if rl.redisLimiter != nil {
		result, err := rl.allowRedis(ctx, key)
		if err == nil {
			return result, nil
		}
		slog.Warn("Redis rate limit check failed, using fallback", "key", key, "error", err)
		if rl.metrics != nil {
			rl.metrics.IncrementRateLimitRedisError()
		}
	} else if rl.metrics != nil {
		rl.metrics.IncrementRateLimitFallback()
	}

	return rl.allowMemory(key), nil
}

func (rl *RateLimiter) allowRedis(ctx context.Context, key string) (*Result, error) {
	res, err := rl.redisLimiter.Allow(ctx, key, redis_rate.Limit{
		Rate:   rl.config.RequestsPerMin,
		Burst:  rl.config.RequestsPerMin,
		Period: time.Minute,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Allowed:    res.Allowed > 0,
		Limit:      res.Limit.Rate,
		Remaining:  res.Remaining,
		ResetAt:    time.Now().Add(res.ResetAfter),
		RetryAfter: res.RetryAfter,
	}, nil
}

func (rl *RateLimiter) allowMemory(key string) *Result {
	limiter := rl.memoryLimiter(key)

	allowed := limiter.Allow()
	remaining := int(limiter.Tokens())
	if remaining < 0 {
		remaining = 0
	}

	result := &Result{
		Allowed:   allowed,
		Limit:     rl.config.RequestsPerMin,
		Remaining: remaining,
		ResetAt:   time.Now().Add(time.Minute),
	}
	if !allowed {
		result.RetryAfter = time.Until(result.ResetAt)
	}
	return result
}

func (rl *RateLimiter) memoryLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.memoryLimiters[key]; ok {
		return limiter
	}

	burst := rl.config.RequestsPerMin * rl.config.BurstMultiplier
	if burst < minBurst {
		burst = minBurst
	}
	limiter := rate.NewLimiter(rate.Limit(float64(rl.config.RequestsPerMin)/60.0), burst)
	rl.memoryLimiters[key] = limiter
	return limiter
}

func (rl *RateLimiter) cleanupMemoryLimiters() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		if len(rl.memoryLimiters) > memoryLimiterCap {
			slog.Info("Resetting in-memory rate limiters", "count", len(rl.memoryLimiters))
			rl.memoryLimiters = make(map[string]*rate.Limiter)
		}
		rl.mu.Unlock()
	}
}

// GetStats returns rate limiter statistics.
func (rl *RateLimiter) GetStats() map[string]interface{} {
	rl.mu.Lock()
	memoryCount := len(rl.memoryLimiters)
	rl.mu.Unlock()

	stats := map[string]interface{}{
		"redis_enabled":     rl.redisClient.IsEnabled(),
		"fallback_limiters": memoryCount,
		"requests_per_min":  rl.config.RequestsPerMin,
	}
	if rl.redisClient.IsEnabled() {
		stats["redis_pool"] = rl.redisClient.GetPoolStats()
	}
	return stats
}
