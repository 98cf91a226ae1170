package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"strconv"
	"strings"
	"time"

	"marketSignals/internal/domain"
	"marketSignals/internal/ports"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL    = "https://www.alphavantage.co"
	defaultOutputSize = "compact"
	defaultTimeout    = 20 * time.Second

	dailyFunction = "TIME_SERIES_DAILY_ADJUSTED"
	dateLayout    = "2006-01-02"
)

// Config configures the Alpha Vantage client.
type Config struct {
	APIKey     string
	BaseURL    string
	OutputSize string // compact (latest 100 days) or full
	Timeout    time.Duration
	Logger     ports.Logger
}

// Client implements ports.BarProvider with Alpha Vantage daily adjusted bars.
type Client struct {
	client     *resty.Client
	apiKey     string
	outputSize string
	logger     ports.Logger
}

// dailyResponse captures the parts of the query response used here. Alpha
// Vantage reports errors and throttling with HTTP 200 and a message field.
type dailyResponse struct {
	Series       map[string]dailyBar `json:"Time Series (Daily)"`
	ErrorMessage string              `json:"Error Message"`
	Note         string              `json:"Note"`
	Information  string              `json:"Information"`
}

type dailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"6. volume"`
}

// New creates an Alpha Vantage client.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Alpha Vantage client")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("alpha vantage API key is required: %w", ports.ErrConfigurationError)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	outputSize := cfg.OutputSize
	if outputSize == "" {
		outputSize = defaultOutputSize
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		client:     client,
		apiKey:     cfg.APIKey,
		outputSize: outputSize,
		logger:     cfg.Logger,
	}, nil
}

// Name identifies the provider in logs and metrics.
func (c *Client) Name() string { return "alphavantage" }

// DailyBars fetches the daily adjusted series for symbol, oldest first.
func (c *Client) DailyBars(ctx context.Context, symbol string) ([]domain.OHLCV, error) {
	var payload dailyResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function":   dailyFunction,
			"symbol":     symbol,
			"outputsize": c.outputSize,
			"apikey":     c.apiKey,
		}).
		Get("/query")
	if err != nil {
		return nil, c.transportError(ctx, symbol, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("alpha vantage status %d for %s: %w", resp.StatusCode(), symbol, ports.ErrUpstreamStatus)
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("decode alpha vantage response for %s: %w: %w", symbol, ports.ErrUpstreamDecode, err)
	}

	if payload.ErrorMessage != "" {
		c.logger.Warn(ctx, "Alpha Vantage rejected symbol", ports.Fields{"symbol": symbol, "message": payload.ErrorMessage})
		return nil, fmt.Errorf("alpha vantage: unknown symbol %s: %w", symbol, ports.ErrNotFound)
	}
	if payload.Series == nil {
		msg := payload.Note
		if msg == "" {
			msg = payload.Information
		}
		c.logger.Warn(ctx, "Alpha Vantage returned no time series", ports.Fields{"symbol": symbol, "message": msg})
		return nil, fmt.Errorf("alpha vantage: no time series for %s (rate-limited?): %w", symbol, ports.ErrRateLimited)
	}

	bars, err := translateSeries(payload.Series)
	if err != nil {
		return nil, fmt.Errorf("alpha vantage series for %s: %w: %w", symbol, ports.ErrUpstreamDecode, err)
	}
	c.logger.Debug(ctx, "Fetched Alpha Vantage daily bars", ports.Fields{"symbol": symbol, "count": len(bars)})
	return bars, nil
}

func (c *Client) transportError(ctx context.Context, symbol string, err error) error {
	var kind error
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		kind = ports.ErrContextCanceled
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		kind = ports.ErrTimeout
	default:
		kind = ports.ErrUpstreamUnavailable
	}
	c.logger.Error(ctx, err, "Alpha Vantage request failed", ports.Fields{"symbol": symbol})
	return fmt.Errorf("alpha vantage request for %s: %w: %w", symbol, kind, err)
}

// translateSeries converts the date-keyed series into bars at UTC midnight,
// sorted by date.
func translateSeries(series map[string]dailyBar) ([]domain.OHLCV, error) {
	bars := make([]domain.OHLCV, 0, len(series))
	for date, raw := range series {
		ts, err := time.ParseInLocation(dateLayout, date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("date %q: %w", date, err)
		}
		bar := domain.OHLCV{Time: ts}
		fields := []struct {
			name string
			raw  string
			dst  *float64
		}{
			{"open", raw.Open, &bar.Open},
			{"high", raw.High, &bar.High},
			{"low", raw.Low, &bar.Low},
			{"close", raw.Close, &bar.Close},
			{"volume", raw.Volume, &bar.Volume},
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f.raw, 64)
			if err != nil {
				return nil, fmt.Errorf("%s %s %q: %w", date, f.name, f.raw, err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%s %s %q: not a finite number", date, f.name, f.raw)
			}
			*f.dst = v
		}
		bars = append(bars, bar)
	}
	domain.SortOHLCV(bars)
	return bars, nil
}
