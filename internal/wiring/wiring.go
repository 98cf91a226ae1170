// Package wiring builds configured adapters for the service and the CLI tools.
package wiring

import (
	"context"
	"fmt"
	"time"

	"marketSignals/config"
	"marketSignals/internal/adapters/alphavantage"
	"marketSignals/internal/adapters/binanceclient"
	"marketSignals/internal/adapters/memcache"
	"marketSignals/internal/adapters/rediscache"
	"marketSignals/internal/adapters/sqlite"
	"marketSignals/internal/ports"
)

// CloseFunc releases resources held by an adapter.
type CloseFunc func() error

func noopClose() error { return nil }

// NewProvider builds the bar provider selected by cfg.Provider.
func NewProvider(ctx context.Context, cfg *config.Config, logger ports.Logger) (ports.BarProvider, CloseFunc, error) {
	switch cfg.Provider {
	case config.ProviderAlphaVantage:
		c, err := alphavantage.New(alphavantage.Config{
			APIKey:     cfg.AlphaVantageAPIKey,
			BaseURL:    cfg.AlphaVantageBaseURL,
			OutputSize: cfg.AlphaVantageOutputSize,
			Timeout:    cfg.FetchTimeout,
			Logger:     logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return c, noopClose, nil

	case config.ProviderBinance:
		c, err := binanceclient.New(binanceclient.Config{
			APIKey:     cfg.APIKey,
			SecretKey:  cfg.SecretKey,
			UseTestnet: cfg.IsTestnet,
			Limit:      cfg.KlineLimit,
			Logger:     logger,
		})
		if err != nil {
			return nil, nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
		defer cancel()
		if err := c.Ping(pingCtx); err != nil {
			// Startup continues; requests report their own errors.
			logger.Warn(ctx, "Binance ping failed", ports.Fields{"error": err.Error()})
		}
		return c, noopClose, nil

	case config.ProviderArchive:
		repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: logger})
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown provider %q: %w", cfg.Provider, ports.ErrConfigurationError)
}

// NewCache builds the bar cache selected by cfg.CacheBackend. The cache is nil
// for the "none" backend.
func NewCache(ctx context.Context, cfg *config.Config, logger ports.Logger) (ports.BarCache, CloseFunc, error) {
	switch cfg.CacheBackend {
	case config.CacheMemory:
		return memcache.New(cfg.CacheTTL, 2*cfg.CacheTTL+time.Minute), noopClose, nil
	case config.CacheRedis:
		c, err := rediscache.New(ctx, rediscache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Logger:   logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	case config.CacheNone:
		return nil, noopClose, nil
	}
	return nil, nil, fmt.Errorf("unknown cache backend %q: %w", cfg.CacheBackend, ports.ErrConfigurationError)
}
