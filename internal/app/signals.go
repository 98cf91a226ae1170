package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketSignals/internal/domain"
	"marketSignals/internal/indicators"
	"marketSignals/internal/metrics"
	"marketSignals/internal/ports"
	"marketSignals/internal/series"
)

// SignalService fetches bars for a symbol and turns them into indicator series.
type SignalService struct {
	source  ports.PriceSource
	engine  *indicators.Engine
	logger  ports.Logger
	metrics *metrics.Metrics
}

// NewSignalService creates a new signal service instance.
func NewSignalService(source ports.PriceSource, logger ports.Logger, m *metrics.Metrics) (*SignalService, error) {
	if source == nil || logger == nil || m == nil {
		return nil, fmt.Errorf("missing required dependencies for SignalService")
	}
	return &SignalService{
		source:  source,
		engine:  indicators.NewEngine(),
		logger:  logger,
		metrics: m,
	}, nil
}

// Signals fetches the bars for symbol and computes SMA(20) and RSI(14).
// The symbol is expected to be validated by the caller.
func (s *SignalService) Signals(ctx context.Context, symbol string) (*domain.Signals, error) {
	fields := ports.Fields{"symbol": symbol, "source": s.source.Name()}

	fetchStart := time.Now()
	bars, err := s.source.FetchBars(ctx, symbol)
	s.metrics.ObserveFetch(s.source.Name(), fetchStart)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to fetch bars", fields)
		return nil, fmt.Errorf("fetch bars for %s: %w", symbol, err)
	}

	computeStart := time.Now()
	signals, err := ComputeSignals(s.engine, symbol, bars)
	s.metrics.IndicatorComputeDur.Observe(time.Since(computeStart).Seconds())
	if err != nil {
		if errors.Is(err, ports.ErrMalformedInput) {
			s.metrics.MalformedInputTotal.Inc()
		}
		s.logger.Warn(ctx, "Rejected bar sequence", ports.Fields{"symbol": symbol, "bars": len(bars), "error": err.Error()})
		return nil, err
	}

	s.metrics.IndicatorPoints.WithLabelValues("sma20").Set(float64(len(signals.SMA20)))
	s.metrics.IndicatorPoints.WithLabelValues("rsi14").Set(float64(len(signals.RSI14)))
	s.logger.Debug(ctx, "Computed signals", ports.Fields{
		"symbol": symbol,
		"bars":   len(bars),
		"sma20":  len(signals.SMA20),
		"rsi14":  len(signals.RSI14),
	})
	return signals, nil
}

// ComputeSignals normalizes bars and runs the indicator engine. It performs no
// I/O and fails as a whole when normalization fails.
func ComputeSignals(engine *indicators.Engine, symbol string, bars []domain.Bar) (*domain.Signals, error) {
	s, err := series.Normalize(bars)
	if err != nil {
		return nil, fmt.Errorf("normalize bars for %s: %w", symbol, err)
	}
	res := engine.Compute(s)
	return &domain.Signals{
		Symbol: symbol,
		SMA20:  res.SMA,
		RSI14:  res.RSI,
	}, nil
}
