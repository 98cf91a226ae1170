package main

import (
	"context"
	"errors"
	"fmt"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"marketSignals/config"
	"marketSignals/internal/adapters/logger"
	"marketSignals/internal/adapters/pricingclient"
	"marketSignals/internal/app"
	"marketSignals/internal/httpapi"
	"marketSignals/internal/metrics"
	"marketSignals/internal/ports"
	"marketSignals/internal/warmup"
	"marketSignals/internal/wiring"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.New(cfg.LogLevel, cfg.LogConsole)
	appLogger.Info(ctx, "Logger initialized", ports.Fields{"level": cfg.LogLevel.String()})
	if cfg.LogLevel != logger.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Application stopped with an error")
		stop()
		log.Fatalf("FATAL: %v", err)
	}
	appLogger.Info(context.Background(), "Application finished gracefully.")
}

// run wires the service and serves until ctx ends or the server fails.
// Resources opened here are released before it returns.
func run(ctx context.Context, cfg *config.Config, appLogger *logger.ZeroLogger) error {
	// 3. Metrics
	m := metrics.New()

	// 4. Price source (remote pricing service, or a local provider behind a cache)
	var (
		source  ports.PriceSource
		pricing *app.PricingService
	)
	switch cfg.PriceSource {
	case config.SourceRemote:
		client, err := pricingclient.New(pricingclient.Config{
			BaseURL: cfg.PriceSvcURL,
			Timeout: cfg.FetchTimeout,
			Logger:  appLogger,
		})
		if err != nil {
			return fmt.Errorf("initialize pricing client: %w", err)
		}
		source = client

	default:
		provider, closeProvider, err := wiring.NewProvider(ctx, cfg, appLogger)
		if err != nil {
			return fmt.Errorf("initialize bar provider: %w", err)
		}
		defer closeWith(appLogger, "bar provider", closeProvider)

		cache, closeCache, err := wiring.NewCache(ctx, cfg, appLogger)
		if err != nil {
			return fmt.Errorf("initialize bar cache: %w", err)
		}
		defer closeWith(appLogger, "bar cache", closeCache)

		pricing, err = app.NewPricingService(app.PricingConfig{
			Provider: provider,
			Cache:    cache,
			CacheTTL: cfg.CacheTTL,
			Logger:   appLogger,
			Metrics:  m,
		})
		if err != nil {
			return fmt.Errorf("initialize pricing service: %w", err)
		}
		source = pricing
	}
	appLogger.Info(ctx, "Price source initialized", ports.Fields{"source": source.Name(), "cache": cfg.CacheBackend})

	// 5. Signal service
	signals, err := app.NewSignalService(source, appLogger, m)
	if err != nil {
		return fmt.Errorf("initialize signal service: %w", err)
	}

	// 6. Cache warm-up
	if pricing != nil && len(cfg.WarmSymbols) > 0 {
		warmer, err := warmup.New(pricing, warmup.Config{
			Symbols:  cfg.WarmSymbols,
			Schedule: cfg.WarmCron,
			Timeout:  cfg.FetchTimeout,
			Logger:   appLogger,
			Metrics:  m,
		})
		if err != nil {
			return fmt.Errorf("initialize cache warm-up: %w", err)
		}
		warmer.Start(ctx)
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			warmer.Stop(stopCtx)
		}()
	}

	// 7. HTTP server
	deps := httpapi.Deps{
		Signals: signals,
		Metrics: m,
		Logger:  appLogger.Zerolog(),
	}
	if pricing != nil {
		deps.Series = pricing
	}
	router, err := httpapi.NewRouter(httpapi.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		RateLimit: httpapi.RateLimitConfig{
			Enabled: cfg.RateLimitEnabled,
			RPS:     cfg.RateLimitRPS,
			Burst:   cfg.RateLimitBurst,
		},
	}, deps)
	if err != nil {
		return fmt.Errorf("initialize router: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info(ctx, "HTTP server listening", ports.Fields{"addr": cfg.HTTPAddr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// 8. Wait for a signal or a server failure, then drain
	var serveErr error
	select {
	case <-ctx.Done():
		appLogger.Info(context.Background(), "Shutdown signal received")
	case serveErr = <-errCh:
		if serveErr != nil {
			serveErr = fmt.Errorf("http server: %w", serveErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(shutdownCtx, err, "HTTP server shutdown did not complete cleanly")
	}
	return serveErr
}

func closeWith(l ports.Logger, what string, fn wiring.CloseFunc) {
	if err := fn(); err != nil {
		l.Error(context.Background(), err, "Error closing "+what)
	}
}
