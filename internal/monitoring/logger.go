package monitoring

import (
	"log/slog"
	"os"
	"time"
)

// Logger provides structured logging with domain-specific helpers
type Logger struct {
	*slog.Logger
}

// NewLogger creates a JSON logger writing to stdout
func NewLogger() *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   "timestamp",
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	})

	return &Logger{Logger: slog.New(handler)}
}

// RequestLogger logs HTTP request details
func (l *Logger) RequestLogger(method, path, ip, userAgent string, statusCode int, duration time.Duration) {
	l.Info("HTTP Request",
		"method", method,
		"path", path,
		"ip", ip,
		"user_agent", userAgent,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	)
}

// ScoreLogger logs scoring operation details
func (l *Logger) ScoreLogger(repository string, records int, total float64, duration time.Duration) {
	mode := "flat"
	if repository != "" {
		mode = "mapping"
	}

	l.Info("Scoring Completed",
		"mode", mode,
		"repository", repository,
		"records", records,
		"total", total,
		"duration_ms", duration.Milliseconds(),
	)
}

// SIndexLogger logs researcher-index computations
func (l *Logger) SIndexLogger(datasets, sIndex int, duration time.Duration) {
	l.Info("S-Index Computed",
		"datasets", datasets,
		"s_index", sIndex,
		"duration_ms", duration.Milliseconds(),
	)
}

// APIErrorLogger logs API errors with request context
func (l *Logger) APIErrorLogger(err error, method, path, ip string, statusCode int) {
	l.Error("API Error",
		"error", err.Error(),
		"method", method,
		"path", path,
		"ip", ip,
		"status_code", statusCode,
	)
}

// PerformanceLogger logs performance metrics
func (l *Logger) PerformanceLogger(metric string, value float64, unit string) {
	l.Info("Performance Metric",
		"metric", metric,
		"value", value,
		"unit", unit,
	)
}

// SystemLogger logs system-level events
func (l *Logger) SystemLogger(event, details string) {
	l.Info("System Event",
		"event", event,
		"details", details,
		"uptime", time.Since(startTime).String(),
	)
}

var startTime = time.Now()
