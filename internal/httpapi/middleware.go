package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures the per-client token bucket.
type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}

// RateLimiter throttles each client IP with its own token bucket. Buckets of
// idle clients expire from the registry.
func RateLimiter(cfg RateLimitConfig) gin.HandlerFunc {
	limiters := cache.New(10*time.Minute, 20*time.Minute)
	retryAfter := "1"
	if cfg.RPS > 0 && cfg.RPS < 1 {
		retryAfter = strconv.Itoa(int(1/cfg.RPS + 0.5))
	}

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}
		ip := c.ClientIP()

		var limiter *rate.Limiter
		if val, found := limiters.Get(ip); found {
			limiter = val.(*rate.Limiter)
		} else {
			limiter = rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)
			limiters.Set(ip, limiter, cache.DefaultExpiration)
		}

		if !limiter.Allow() {
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorBody{
				Error:  "rate limit exceeded",
				Detail: "too many requests from this client",
			})
			return
		}
		c.Next()
	}
}

// Recovery turns a panic in a handler into a logged 500.
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error().
					Interface("panic", err).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Msg("PANIC_RECOVERED")

				c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{
					Error:  "internal server error",
					Detail: "unexpected_panic",
				})
			}
		}()
		c.Next()
	}
}

// RequestLogger writes one zerolog line per request. Probe and scrape paths are skipped.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/healthz" || path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Str("client", c.ClientIP()).
			Dur("latency", time.Since(start)).
			Msg("HTTP Request")
	}
}

// CORS allows read-only cross-origin access from the configured origins.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
