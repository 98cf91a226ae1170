package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketSignals/internal/domain"
	"marketSignals/internal/ports"

	goredis "github.com/go-redis/redis/v8"
)

const keyPrefix = "marketsignals:bars:"

// Config configures the Redis cache.
type Config struct {
	Addr     string
	Password string
	DB       int
	Logger   ports.Logger
}

// Cache is a ports.BarCache shared between instances through Redis.
// Bars are stored as JSON strings with a per-key expiry.
type Cache struct {
	client *goredis.Client
	logger ports.Logger
}

// New creates a Redis cache and pings the server.
func New(ctx context.Context, cfg Config) (*Cache, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Redis cache")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w: %w", cfg.Addr, ports.ErrDBConnection, err)
	}

	cfg.Logger.Info(ctx, "Redis cache connected", ports.Fields{"addr": cfg.Addr, "db": cfg.DB})
	return &Cache{client: client, logger: cfg.Logger}, nil
}

// Close releases the underlying connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}

func key(symbol string) string {
	return keyPrefix + strings.ToUpper(symbol)
}

// Get returns cached bars. Redis and decode failures are reported as misses.
func (c *Cache) Get(ctx context.Context, symbol string) ([]domain.OHLCV, bool) {
	raw, err := c.client.Get(ctx, key(symbol)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.logger.Warn(ctx, "Redis cache read failed", ports.Fields{"symbol": symbol, "error": err.Error()})
		}
		return nil, false
	}
	bars, err := decodeBars(raw)
	if err != nil {
		c.logger.Warn(ctx, "Discarding undecodable cache entry", ports.Fields{"symbol": symbol, "error": err.Error()})
		return nil, false
	}
	return bars, true
}

// Set stores bars under symbol for ttl.
func (c *Cache) Set(ctx context.Context, symbol string, bars []domain.OHLCV, ttl time.Duration) error {
	raw, err := encodeBars(bars)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key(symbol), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w: %w", key(symbol), ports.ErrQueryFailed, err)
	}
	return nil
}

func encodeBars(bars []domain.OHLCV) ([]byte, error) {
	if bars == nil {
		bars = []domain.OHLCV{}
	}
	raw, err := json.Marshal(bars)
	if err != nil {
		return nil, fmt.Errorf("encode bars: %w", err)
	}
	return raw, nil
}

func decodeBars(raw []byte) ([]domain.OHLCV, error) {
	var bars []domain.OHLCV
	if err := json.Unmarshal(raw, &bars); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	return bars, nil
}
