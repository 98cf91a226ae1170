package memcache

import (
	"context"
	"strings"
	"time"

	"marketSignals/internal/domain"

	"github.com/patrickmn/go-cache"
)

// Cache is an in-process ports.BarCache backed by go-cache.
type Cache struct {
	store *cache.Cache
}

// New creates a cache whose entries default to ttl and are swept every cleanup.
func New(ttl, cleanup time.Duration) *Cache {
	return &Cache{store: cache.New(ttl, cleanup)}
}

func key(symbol string) string {
	return "bars:" + strings.ToUpper(symbol)
}

// Get returns a copy of the cached bars for symbol.
func (c *Cache) Get(ctx context.Context, symbol string) ([]domain.OHLCV, bool) {
	val, found := c.store.Get(key(symbol))
	if !found {
		return nil, false
	}
	bars, ok := val.([]domain.OHLCV)
	if !ok {
		return nil, false
	}
	out := make([]domain.OHLCV, len(bars))
	copy(out, bars)
	return out, true
}

// Set stores a copy of bars. A non-positive ttl uses the cache default.
func (c *Cache) Set(ctx context.Context, symbol string, bars []domain.OHLCV, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	stored := make([]domain.OHLCV, len(bars))
	copy(stored, bars)
	c.store.Set(key(symbol), stored, ttl)
	return nil
}
