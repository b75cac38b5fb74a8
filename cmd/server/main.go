package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/sharelab/share-o-meter/internal/cache"
	"github.com/sharelab/share-o-meter/internal/errors"
	"github.com/sharelab/share-o-meter/internal/mappings"
	"github.com/sharelab/share-o-meter/internal/monitoring"
	"github.com/sharelab/share-o-meter/internal/ratelimit"
	"github.com/sharelab/share-o-meter/internal/security"
	"github.com/sharelab/share-o-meter/internal/share"
	"github.com/sharelab/share-o-meter/internal/types"
)

const version = "1.0.0"

// server bundles the long-lived pieces the handlers need. Scorers are built
// once at startup, one per registered repository preset plus the flat-mode
// default, and never change afterwards.
type server struct {
	scorers     map[string]*share.Scorer
	metrics     *monitoring.Metrics
	logger      *monitoring.Logger
	appCache    *cache.Cache
	rateLimiter *ratelimit.RateLimiter
}

func newServer(metrics *monitoring.Metrics, appCache *cache.Cache, rateLimiter *ratelimit.RateLimiter) *server {
	scorers := map[string]*share.Scorer{
		"": share.NewScorer(),
	}
	for _, name := range mappings.Names() {
		mapping, err := mappings.ForRepository(name)
		if err != nil {
			// Names() only returns registered presets
			slog.Error("Failed to build mapping preset", "repository", name, "error", err)
			continue
		}
		scorers[name] = share.NewScorerWithMapping(mapping)
	}

	return &server{
		scorers:     scorers,
		metrics:     metrics,
		logger:      monitoring.NewLogger(),
		appCache:    appCache,
		rateLimiter: rateLimiter,
	}
}

// scorerFor selects the scorer for a repository preset name; the empty name
// is the flat-mode scorer.
func (s *server) scorerFor(repository string) (*share.Scorer, bool) {
	scorer, ok := s.scorers[repository]
	return scorer, ok
}

// setupRouter wires the middleware chain and routes
func (s *server) setupRouter() *gin.Engine {
	r := gin.New()

	r.Use(monitoring.RequestIDMiddleware())
	r.Use(monitoring.MonitoringMiddleware(s.metrics, s.logger))
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	securityConfig := security.DefaultConfig()
	r.Use(security.SecurityHeadersMiddleware())
	r.Use(security.BodySizeLimitMiddleware(securityConfig.MaxBodyBytes))
	r.Use(security.RequestTimeoutMiddleware(securityConfig.RequestTimeout))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	r.Use(cors.New(corsConfig))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.Use(s.rateLimiter.IPRateLimitMiddleware())
	r.Use(s.appCache.Middleware(s.metrics))

	r.GET("/health", s.handleHealth)
	r.GET("/signals", s.handleSignals)
	r.GET("/repositories", s.handleRepositories)
	r.POST("/score", s.handleScore)
	r.POST("/score/batch", s.handleScoreBatch)
	r.POST("/sindex", s.handleSIndex)

	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.metrics.GetStats())
	})
	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.appCache.Stats())
	})
	r.GET("/ratelimit/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.rateLimiter.GetStats())
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// handleHealth reports service status
func (s *server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"version":   version,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleSignals exposes the canonical signal tables for discovery
func (s *server) handleSignals(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"stewardship":    share.StewardshipSignals,
		"harmonization":  share.HarmonizationSignals,
		"access":         share.AccessSignals,
		"access_weights": share.AccessWeights,
		"engagement":     share.EngagementSignals,
		"reuse_counts":   share.ReuseCountSignals,
		"signal_points":  share.SignalPoints,
		"bucket_max":     share.BucketMax,
		"reuse_log_base": share.ReuseLogBase,
	})
}

// handleRepositories lists the registered mapping presets
func (s *server) handleRepositories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"repositories": mappings.Names()})
}

// handleScore scores a single dataset record
func (s *server) handleScore(c *gin.Context) {
	start := time.Now()

	var req types.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := errors.NewValidationError("request must carry a record object")
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	scorer, ok := s.scorerFor(req.Repository)
	if !ok {
		appErr := errors.NewValidationError("unknown repository", req.Repository)
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	result := scorer.Score(req.Record)
	s.metrics.AddRecordsScored(1)
	s.logger.ScoreLogger(req.Repository, 1, result.Total, time.Since(start))

	c.JSON(http.StatusOK, resultPayload(result))
}

// handleScoreBatch scores records independently, 1:1 by position
func (s *server) handleScoreBatch(c *gin.Context) {
	start := time.Now()

	var req types.BatchScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Records == nil {
		appErr := errors.NewValidationError("request must carry a records array")
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	scorer, ok := s.scorerFor(req.Repository)
	if !ok {
		appErr := errors.NewValidationError("unknown repository", req.Repository)
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	records := make([]share.Record, len(req.Records))
	for i, record := range req.Records {
		records[i] = record
	}

	results := scorer.ScoreBatch(records)
	sIndex := share.SIndex(results)

	s.metrics.IncrementBatchRequests()
	s.metrics.AddRecordsScored(len(records))

	batchTotal := 0.0
	payloads := make([]gin.H, len(results))
	for i, result := range results {
		payloads[i] = resultPayload(result)
		batchTotal += result.Total
	}
	s.logger.ScoreLogger(req.Repository, len(records), batchTotal, time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"results": payloads,
		"count":   len(results),
		"s_index": sIndex,
	})
}

// handleSIndex computes the researcher index from score totals
func (s *server) handleSIndex(c *gin.Context) {
	start := time.Now()

	var req types.SIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := errors.NewValidationError("request must carry a totals array")
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	sIndex := share.SIndexFromTotals(req.Totals)

	s.metrics.IncrementSIndexRequests()
	s.logger.SIndexLogger(len(req.Totals), sIndex, time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"s_index":  sIndex,
		"datasets": len(req.Totals),
	})
}

// resultPayload flattens a Result for the wire, including the derived
// deposit-time score
func resultPayload(result share.Result) gin.H {
	payload := gin.H{}
	for key, value := range result.AsMap() {
		payload[key] = value
	}
	payload["non_reuse_score"] = result.NonReuseScore()
	return payload
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	port := getEnvOrDefault("PORT", "8080")
	redisAddr := os.Getenv("REDIS_ADDR")
	redisPassword := os.Getenv("REDIS_PASSWORD")
	cacheTTL := getEnvDurationOrDefault("CACHE_TTL", 15*time.Minute)
	requestsPerMin := getEnvIntOrDefault("RATE_LIMIT_PER_MIN", ratelimit.DefaultConfig().RequestsPerMin)

	redisClient, err := ratelimit.NewRedisClient(redisAddr, redisPassword, 0)
	if err != nil {
		// NewRedisClient already degraded to the in-memory fallback
		slog.Warn("Redis unavailable", "error", err)
	}
	defer redisClient.Close()

	rateLimitConfig := ratelimit.DefaultConfig()
	rateLimitConfig.RequestsPerMin = requestsPerMin

	appCache := cache.NewCache(cacheTTL)
	metrics := monitoring.NewMetrics()
	rateLimiter := ratelimit.NewRateLimiter(redisClient, rateLimitConfig, metrics)

	srv := newServer(metrics, appCache, rateLimiter)
	r := srv.setupRouter()

	httpServer := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", port, "version", version)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
