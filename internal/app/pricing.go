package app

import (
	"context"
	"fmt"
	"time"

	"marketSignals/internal/domain"
	"marketSignals/internal/metrics"
	"marketSignals/internal/ports"
)

// DefaultCacheTTL matches how long a provider response stays fresh.
const DefaultCacheTTL = 60 * time.Second

// PricingConfig holds the dependencies of a PricingService.
type PricingConfig struct {
	Provider ports.BarProvider
	Cache    ports.BarCache // optional
	CacheTTL time.Duration
	Logger   ports.Logger
	Metrics  *metrics.Metrics
}

// PricingService serves time-ordered daily bars from a provider, fronted by an
// optional per-symbol cache. It also acts as an in-process ports.PriceSource.
type PricingService struct {
	provider ports.BarProvider
	cache    ports.BarCache
	ttl      time.Duration
	logger   ports.Logger
	metrics  *metrics.Metrics
}

var _ ports.PriceSource = (*PricingService)(nil)

// NewPricingService creates a new pricing service instance.
func NewPricingService(cfg PricingConfig) (*PricingService, error) {
	if cfg.Provider == nil || cfg.Logger == nil || cfg.Metrics == nil {
		return nil, fmt.Errorf("missing required dependencies for PricingService")
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &PricingService{
		provider: cfg.Provider,
		cache:    cfg.Cache,
		ttl:      ttl,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
	}, nil
}

// Series returns the bars for symbol sorted ascending by time, from cache when fresh.
func (p *PricingService) Series(ctx context.Context, symbol string) ([]domain.OHLCV, error) {
	if p.cache != nil {
		bars, ok := p.cache.Get(ctx, symbol)
		p.metrics.ObserveCache(ok)
		if ok {
			return bars, nil
		}
	}
	return p.Refresh(ctx, symbol)
}

// Refresh fetches bars from the provider regardless of the cache and stores them.
func (p *PricingService) Refresh(ctx context.Context, symbol string) ([]domain.OHLCV, error) {
	start := time.Now()
	bars, err := p.provider.DailyBars(ctx, symbol)
	p.metrics.ObserveFetch(p.provider.Name(), start)
	if err != nil {
		return nil, fmt.Errorf("%s daily bars for %s: %w", p.provider.Name(), symbol, err)
	}

	domain.SortOHLCV(bars)

	if p.cache != nil {
		if err := p.cache.Set(ctx, symbol, bars, p.ttl); err != nil {
			p.logger.Warn(ctx, "Failed to cache bars", ports.Fields{"symbol": symbol, "error": err.Error()})
		}
	}
	p.logger.Debug(ctx, "Fetched daily bars", ports.Fields{"symbol": symbol, "provider": p.provider.Name(), "count": len(bars)})
	return bars, nil
}

// FetchBars implements ports.PriceSource.
func (p *PricingService) FetchBars(ctx context.Context, symbol string) ([]domain.Bar, error) {
	bars, err := p.Series(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return domain.BarsFromOHLCV(bars), nil
}

// Name implements ports.PriceSource.
func (p *PricingService) Name() string {
	return "local:" + p.provider.Name()
}
