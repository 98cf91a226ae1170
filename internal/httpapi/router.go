package httpapi

import (
	"fmt"
	"net/http"

	"marketSignals/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Config holds the HTTP surface settings.
type Config struct {
	AllowOrigins []string
	RateLimit    RateLimitConfig
}

// Deps are the services the router exposes. Series is optional; without it
// the /series endpoint is not registered.
type Deps struct {
	Signals SignalsProvider
	Series  SeriesProvider
	Metrics *metrics.Metrics
	Logger  zerolog.Logger
}

// NewRouter wires middleware and routes into a gin engine.
func NewRouter(cfg Config, deps Deps) (*gin.Engine, error) {
	if deps.Signals == nil || deps.Metrics == nil {
		return nil, fmt.Errorf("signals service and metrics are required for the router")
	}

	r := gin.New()
	r.Use(Recovery(deps.Logger))
	r.Use(RequestLogger(deps.Logger))
	r.Use(CORS(cfg.AllowOrigins))

	// --- Operational endpoints, never throttled ---
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	// --- API ---
	api := r.Group("/")
	api.Use(RateLimiter(cfg.RateLimit))
	{
		NewSignalsController(deps.Signals, deps.Metrics).RegisterRoutes(api)
		if deps.Series != nil {
			NewSeriesController(deps.Series, deps.Metrics).RegisterRoutes(api)
		}
	}

	return r, nil
}
