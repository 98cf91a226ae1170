package binanceclient

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"marketSignals/internal/domain"
	"marketSignals/internal/ports"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
)

const (
	// Base URLs
	baseURLProduction = "https://fapi.binance.com"
	baseURLTestnet    = "https://testnet.binancefuture.com"

	dailyInterval = "1d"
	defaultLimit  = 100
	maxLimit      = 1500
)

// Client implements ports.BarProvider on top of Binance USD-M futures daily klines.
type Client struct {
	futuresClient *futures.Client
	logger        ports.Logger
	limit         int
}

// Config holds configuration specific to the Binance client adapter.
type Config struct {
	APIKey     string
	SecretKey  string
	UseTestnet bool
	Limit      int // Number of daily klines per request, capped at 1500
	Logger     ports.Logger
	BaseURL    string // Overrides the production/testnet URL when set
}

// New creates a new Binance client adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance client")
	}
	if cfg.APIKey == "" || cfg.SecretKey == "" {
		// Klines are a public endpoint.
		cfg.Logger.Debug(context.Background(), "Binance API credentials not set, using public endpoints only")
	}

	client := futures.NewClient(cfg.APIKey, cfg.SecretKey)

	switch {
	case cfg.BaseURL != "":
		client.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	case cfg.UseTestnet:
		client.BaseURL = baseURLTestnet
	default:
		client.BaseURL = baseURLProduction
	}
	cfg.Logger.Info(context.Background(), "Binance client configured", ports.Fields{"baseURL": client.BaseURL, "testnet": cfg.UseTestnet})

	limit := cfg.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return &Client{
		futuresClient: client,
		logger:        cfg.Logger,
		limit:         limit,
	}, nil
}

// Name identifies the provider in logs and metrics.
func (c *Client) Name() string { return "binance" }

// handleError translates Binance API and transport errors into ports errors.
func (c *Client) handleError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	fields := ports.Fields{"operation": operation, "originalError": err.Error()}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		fields["apiErrorCode"] = apiErr.Code
		fields["apiErrorMessage"] = apiErr.Message

		var mappedErr error
		switch apiErr.Code {
		case -1003: // Too many requests
			mappedErr = ports.ErrRateLimited
		case -1021: // Timestamp outside of recvWindow
			mappedErr = ports.ErrTimeout
		case -1022, -2014, -2015: // Signature or API key rejected
			mappedErr = ports.ErrAuthenticationFailed
		case -1121: // Invalid symbol
			mappedErr = ports.ErrNotFound
		case -1100, -1101, -1102, -1103, -1104, -1105, -1106, -1111, -1115, -1116, -1117, -1120, -1125, -1127, -1128, -1130:
			mappedErr = ports.ErrInvalidRequest
		default:
			mappedErr = ports.ErrUpstreamStatus
		}
		c.logger.Error(ctx, err, fmt.Sprintf("%s failed with API error", operation), fields)
		return fmt.Errorf("%s failed: %w: %w", operation, mappedErr, err)
	}

	var finalErr error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		finalErr = fmt.Errorf("%s operation canceled: %w: %w", operation, ports.ErrContextCanceled, err)
	case errors.Is(err, errKlineFormat):
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrUpstreamDecode, err)
	default:
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrUpstreamUnavailable, err)
	}

	c.logger.Error(ctx, err, fmt.Sprintf("%s failed", operation), fields)
	return finalErr
}

// Ping checks the connectivity to the exchange API.
func (c *Client) Ping(ctx context.Context) error {
	op := "Ping"
	if err := c.futuresClient.NewPingService().Do(ctx); err != nil {
		return c.handleError(ctx, err, op)
	}
	c.logger.Debug(ctx, op+" successful")
	return nil
}

// DailyBars retrieves the most recent daily klines for symbol, oldest first.
func (c *Client) DailyBars(ctx context.Context, symbol string) ([]domain.OHLCV, error) {
	op := "DailyBars"
	klines, err := c.futuresClient.NewKlinesService().
		Symbol(strings.ToUpper(symbol)).
		Interval(dailyInterval).
		Limit(c.limit).
		Do(ctx)
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	bars := make([]domain.OHLCV, 0, len(klines))
	for _, k := range klines {
		bar, err := translateKline(k)
		if err != nil {
			return nil, c.handleError(ctx, err, op)
		}
		bars = append(bars, bar)
	}

	c.logger.Debug(ctx, op+" successful", ports.Fields{"symbol": symbol, "count": len(bars)})
	return bars, nil
}

var errKlineFormat = errors.New("invalid kline")

func translateKline(k *futures.Kline) (domain.OHLCV, error) {
	if k == nil {
		return domain.OHLCV{}, fmt.Errorf("%w: nil kline", errKlineFormat)
	}
	bar := domain.OHLCV{Time: time.UnixMilli(k.OpenTime).UTC()}
	fields := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"open", k.Open, &bar.Open},
		{"high", k.High, &bar.High},
		{"low", k.Low, &bar.Low},
		{"close", k.Close, &bar.Close},
		{"volume", k.Volume, &bar.Volume},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(f.raw, 64)
		if err != nil {
			return domain.OHLCV{}, fmt.Errorf("%w: parsing %s '%s': %w", errKlineFormat, f.name, f.raw, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.OHLCV{}, fmt.Errorf("%w: %s '%s' is not finite", errKlineFormat, f.name, f.raw)
		}
		*f.dst = v
	}
	return bar, nil
}
