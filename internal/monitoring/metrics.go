package monitoring

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds application metrics
type Metrics struct {
	RequestCount   int64
	ErrorCount     int64
	CacheHits      int64
	CacheMisses    int64
	RecordsScored  int64
	BatchRequests  int64
	SIndexRequests int64
	StartTime      time.Time

	// Response time samples for percentiles (last 1000 requests)
	ResponseTimes      []time.Duration
	ResponseTimesMutex sync.RWMutex

	// Status code tracking
	RequestCountByStatus map[int]int64
	StatusMutex          sync.RWMutex

	// Rate limit metrics
	RateLimitBlocks        int64
	RateLimitRedisErrors   int64
	RateLimitFallbackCount int64
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:            time.Now(),
		ResponseTimes:        make([]time.Duration, 0, 1000),
		RequestCountByStatus: make(map[int]int64),
	}
}

// IncrementRequest increments the request count
func (m *Metrics) IncrementRequest() {
	atomic.AddInt64(&m.RequestCount, 1)
}

// IncrementError increments the error count
func (m *Metrics) IncrementError() {
	atomic.AddInt64(&m.ErrorCount, 1)
}

// IncrementCacheHit increments cache hit count
func (m *Metrics) IncrementCacheHit() {
	atomic.AddInt64(&m.CacheHits, 1)
}

// IncrementCacheMiss increments cache miss count
func (m *Metrics) IncrementCacheMiss() {
	atomic.AddInt64(&m.CacheMisses, 1)
}

// AddRecordsScored adds n to the count of records the engine has scored
func (m *Metrics) AddRecordsScored(n int) {
	atomic.AddInt64(&m.RecordsScored, int64(n))
}

// IncrementBatchRequests increments the batch scoring request count
func (m *Metrics) IncrementBatchRequests() {
	atomic.AddInt64(&m.BatchRequests, 1)
}

// IncrementSIndexRequests increments the researcher-index request count
func (m *Metrics) IncrementSIndexRequests() {
	atomic.AddInt64(&m.SIndexRequests, 1)
}

// IncrementRateLimitBlock increments the rate limit block count
func (m *Metrics) IncrementRateLimitBlock() {
	atomic.AddInt64(&m.RateLimitBlocks, 1)
}

// IncrementRateLimitRedisError increments the Redis rate limit error count
func (m *Metrics) IncrementRateLimitRedisError() {
	atomic.AddInt64(&m.RateLimitRedisErrors, 1)
}

// IncrementRateLimitFallback increments the in-memory fallback count
func (m *Metrics) IncrementRateLimitFallback() {
	atomic.AddInt64(&m.RateLimitFallbackCount, 1)
}

// RecordResponseTime stores a response time sample (keeps last 1000)
func (m *Metrics) RecordResponseTime(duration time.Duration) {
	m.ResponseTimesMutex.Lock()
	m.ResponseTimes = append(m.ResponseTimes, duration)
	if len(m.ResponseTimes) > 1000 {
		m.ResponseTimes = m.ResponseTimes[1:]
	}
	m.ResponseTimesMutex.Unlock()
}

// RecordRequestByStatus records request count by HTTP status code
func (m *Metrics) RecordRequestByStatus(statusCode int) {
	m.StatusMutex.Lock()
	defer m.StatusMutex.Unlock()
	m.RequestCountByStatus[statusCode]++
}

// GetStats returns a snapshot of all metrics
func (m *Metrics) GetStats() map[string]interface{} {
	m.StatusMutex.RLock()
	byStatus := make(map[int]int64, len(m.RequestCountByStatus))
	for code, count := range m.RequestCountByStatus {
		byStatus[code] = count
	}
	m.StatusMutex.RUnlock()

	p50, p95, p99 := m.percentiles()

	return map[string]interface{}{
		"uptime_seconds":           time.Since(m.StartTime).Seconds(),
		"request_count":            atomic.LoadInt64(&m.RequestCount),
		"error_count":              atomic.LoadInt64(&m.ErrorCount),
		"cache_hits":               atomic.LoadInt64(&m.CacheHits),
		"cache_misses":             atomic.LoadInt64(&m.CacheMisses),
		"records_scored":           atomic.LoadInt64(&m.RecordsScored),
		"batch_requests":           atomic.LoadInt64(&m.BatchRequests),
		"sindex_requests":          atomic.LoadInt64(&m.SIndexRequests),
		"requests_by_status":       byStatus,
		"response_time_p50":        p50.Milliseconds(),
		"response_time_p95":        p95.Milliseconds(),
		"response_time_p99":        p99.Milliseconds(),
		"rate_limit_blocks":        atomic.LoadInt64(&m.RateLimitBlocks),
		"rate_limit_redis_errors":  atomic.LoadInt64(&m.RateLimitRedisErrors),
		"rate_limit_fallback_uses": atomic.LoadInt64(&m.RateLimitFallbackCount),
	}
}

// percentiles computes p50/p95/p99 over the retained response time samples
func (m *Metrics) percentiles() (p50, p95, p99 time.Duration) {
	m.ResponseTimesMutex.RLock()
	samples := make([]time.Duration, len(m.ResponseTimes))
	copy(samples, m.ResponseTimes)
	m.ResponseTimesMutex.RUnlock()

	if len(samples) == 0 {
		return 0, 0, 0
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })

	idx := func(p float64) int {
		i := int(float64(len(samples)) * p)
		if i >= len(samples) {
			i = len(samples) - 1
		}
		return i
	}

	return samples[idx(0.50)], samples[idx(0.95)], samples[idx(0.99)]
}
