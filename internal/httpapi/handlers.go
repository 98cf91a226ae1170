package httpapi

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"

	"marketSignals/internal/domain"
	"marketSignals/internal/metrics"
	"marketSignals/internal/ports"

	"github.com/gin-gonic/gin"
)

// SignalsProvider computes indicator signals for a symbol.
type SignalsProvider interface {
	Signals(ctx context.Context, symbol string) (*domain.Signals, error)
}

// SeriesProvider serves ordered daily bars for a symbol.
type SeriesProvider interface {
	Series(ctx context.Context, symbol string) ([]domain.OHLCV, error)
}

// symbolParam reads the required symbol query parameter.
func symbolParam(c *gin.Context) (string, error) {
	symbol := strings.TrimSpace(c.Query("symbol"))
	if symbol == "" {
		return "", fmt.Errorf("query parameter 'symbol' is required: %w", ports.ErrInvalidRequest)
	}
	return symbol, nil
}

// SignalsController serves GET /signals.
type SignalsController struct {
	svc     SignalsProvider
	metrics *metrics.Metrics
}

func NewSignalsController(svc SignalsProvider, m *metrics.Metrics) *SignalsController {
	return &SignalsController{svc: svc, metrics: m}
}

func (ctrl *SignalsController) RegisterRoutes(r gin.IRoutes) {
	r.GET("/signals", ctrl.GetSignals)
}

// GetSignals responds with {"symbol", "sma20", "rsi14"} for ?symbol=.
func (ctrl *SignalsController) GetSignals(c *gin.Context) {
	signals, err := ctrl.getSignals(c)
	ctrl.metrics.RequestsTotal.WithLabelValues("signals", outcomeFor(err)).Inc()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, signals)
}

func (ctrl *SignalsController) getSignals(c *gin.Context) (*domain.Signals, error) {
	symbol, err := symbolParam(c)
	if err != nil {
		return nil, err
	}
	return ctrl.svc.Signals(c.Request.Context(), symbol)
}

// SeriesController serves GET /series.
type SeriesController struct {
	svc     SeriesProvider
	metrics *metrics.Metrics
}

func NewSeriesController(svc SeriesProvider, m *metrics.Metrics) *SeriesController {
	return &SeriesController{svc: svc, metrics: m}
}

func (ctrl *SeriesController) RegisterRoutes(r gin.IRoutes) {
	r.GET("/series", ctrl.GetSeries)
}

// GetSeries responds with the ordered bar list for ?symbol=.
func (ctrl *SeriesController) GetSeries(c *gin.Context) {
	bars, err := ctrl.getSeries(c)
	ctrl.metrics.RequestsTotal.WithLabelValues("series", outcomeFor(err)).Inc()
	if err != nil {
		writeError(c, err)
		return
	}
	if bars == nil {
		bars = []domain.OHLCV{}
	}
	c.JSON(http.StatusOK, bars)
}

func (ctrl *SeriesController) getSeries(c *gin.Context) ([]domain.OHLCV, error) {
	symbol, err := symbolParam(c)
	if err != nil {
		return nil, err
	}
	bars, err := ctrl.svc.Series(c.Request.Context(), symbol)
	if err != nil {
		return nil, err
	}
	if err := checkFinite(bars); err != nil {
		return nil, fmt.Errorf("series for %s: %w: %w", symbol, ports.ErrUpstreamDecode, err)
	}
	return bars, nil
}

// checkFinite rejects bars that encoding/json cannot represent.
func checkFinite(bars []domain.OHLCV) error {
	for _, b := range bars {
		for _, v := range [...]float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("bar %s: non-finite value %v", b.Time.Format("2006-01-02"), v)
			}
		}
	}
	return nil
}
