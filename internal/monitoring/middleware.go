package monitoring

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// slowRequestThreshold flags requests worth a performance log line. Scoring
// is pure CPU work, so anything this slow points at a pathological batch.
const slowRequestThreshold = 5 * time.Second

// RequestIDMiddleware attaches a request ID to every request, preserving one
// supplied by the caller.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
			c.Request.Header.Set("X-Request-ID", id)
		}
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// MonitoringMiddleware records request counts, status codes, and latency
// samples, and writes the per-request log line.
func MonitoringMiddleware(metrics *Metrics, logger *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.IncrementRequest()

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()

		metrics.RecordResponseTime(elapsed)
		metrics.RecordRequestByStatus(status)
		if status >= 400 {
			metrics.IncrementError()
		}

		logger.RequestLogger(
			c.Request.Method,
			c.Request.URL.Path,
			c.ClientIP(),
			c.GetHeader("User-Agent"),
			status,
			elapsed,
		)

		for _, ginErr := range c.Errors {
			logger.APIErrorLogger(ginErr.Err, c.Request.Method, c.Request.URL.Path, c.ClientIP(), status)
		}

		if elapsed > slowRequestThreshold {
			logger.PerformanceLogger("slow_request", elapsed.Seconds(), "seconds")
		}
	}
}
