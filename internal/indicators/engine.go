package indicators

import "marketSignals/internal/domain"

// Window sizes of the two published indicators.
const (
	SMAWindow = 20
	RSIWindow = 14
)

// Result holds the independent outputs of one engine run.
type Result struct {
	SMA domain.IndicatorSeries
	RSI domain.IndicatorSeries
}

// Engine computes SMA(20) and RSI(14) over a normalized series.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	sma Indicator
	rsi Indicator
}

// NewEngine creates an engine with the published window sizes.
func NewEngine() *Engine {
	return &Engine{
		sma: NewMovingAverage(MovingAverageConfig{IndicatorConfig: IndicatorConfig{Period: SMAWindow}}),
		rsi: NewRSI(RSIConfig{IndicatorConfig: IndicatorConfig{Period: RSIWindow}}),
	}
}

// Compute runs both indicators. A series shorter than a window yields an
// empty (non-nil) output for that indicator.
func (e *Engine) Compute(series domain.Series) Result {
	return Result{
		SMA: e.sma.Compute(series),
		RSI: e.rsi.Compute(series),
	}
}
