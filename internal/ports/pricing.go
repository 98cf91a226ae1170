package ports

import (
	"context"
	"time"

	"marketSignals/internal/domain"
)

// PriceSource returns the raw bar sequence for a symbol. It is the only
// collaborator the signal computation consumes.
type PriceSource interface {
	// FetchBars retrieves the bars for symbol in whatever order the source provides.
	FetchBars(ctx context.Context, symbol string) ([]domain.Bar, error)
	// Name identifies the source in logs and metrics.
	Name() string
}

// BarProvider retrieves typed daily bars from a market data vendor or archive.
type BarProvider interface {
	// DailyBars retrieves daily bars for the symbol. Order is not guaranteed.
	DailyBars(ctx context.Context, symbol string) ([]domain.OHLCV, error)
	// Name identifies the provider in logs and metrics.
	Name() string
}

// BarCache stores provider responses per symbol for a limited time.
type BarCache interface {
	// Get returns the cached bars and true on a hit.
	Get(ctx context.Context, symbol string) ([]domain.OHLCV, bool)
	// Set stores bars for the symbol with the given time to live.
	Set(ctx context.Context, symbol string, bars []domain.OHLCV, ttl time.Duration) error
}

// BarArchive persists daily bars for offline use.
type BarArchive interface {
	// SaveBars upserts bars for symbol, keyed by bar time.
	SaveBars(ctx context.Context, symbol string, bars []domain.OHLCV) (int, error)
	// LoadBars returns all archived bars for symbol ordered by time.
	LoadBars(ctx context.Context, symbol string) ([]domain.OHLCV, error)
	// Symbols lists the archived symbols.
	Symbols(ctx context.Context) ([]string, error)
}
