package pricingclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"marketSignals/internal/domain"
	"marketSignals/internal/ports"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 20 * time.Second

// Config configures the remote pricing service client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  ports.Logger
}

// Client fetches raw daily bars from a remote pricing service's /series endpoint.
// It implements ports.PriceSource.
type Client struct {
	client *resty.Client
	logger ports.Logger
}

// New creates a pricing service client.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for pricing client")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("pricing service URL is required: %w", ports.ErrConfigurationError)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeaders(map[string]string{
			"Accept": "application/json",
		})

	return &Client{client: client, logger: cfg.Logger}, nil
}

// Name identifies the source in logs and metrics.
func (c *Client) Name() string { return "remote" }

// FetchBars requests the bar series for symbol. Bars are returned undecoded
// beyond the record level; interpreting t and c is the normalizer's job.
func (c *Client) FetchBars(ctx context.Context, symbol string) ([]domain.Bar, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("symbol", symbol).
		Get("/series")
	if err != nil {
		return nil, c.transportError(ctx, symbol, err)
	}

	if !resp.IsSuccess() {
		var kind error
		switch resp.StatusCode() {
		case http.StatusNotFound:
			kind = ports.ErrNotFound
		case http.StatusTooManyRequests:
			kind = ports.ErrRateLimited
		case http.StatusBadRequest:
			kind = ports.ErrInvalidRequest
		default:
			kind = ports.ErrUpstreamStatus
		}
		c.logger.Warn(ctx, "Pricing service returned non-success status", ports.Fields{
			"symbol": symbol,
			"status": resp.StatusCode(),
		})
		return nil, fmt.Errorf("pricing service status %d for %s: %w", resp.StatusCode(), symbol, kind)
	}

	var bars []domain.Bar
	if err := json.Unmarshal(resp.Body(), &bars); err != nil {
		return nil, fmt.Errorf("decode pricing response for %s: %w: %w", symbol, ports.ErrUpstreamDecode, err)
	}
	c.logger.Debug(ctx, "Fetched bars from pricing service", ports.Fields{"symbol": symbol, "count": len(bars)})
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
	c.logger.Error(ctx, err, "Pricing service request failed", ports.Fields{"symbol": symbol})
	return fmt.Errorf("pricing service request for %s: %w: %w", symbol, kind, err)
}
