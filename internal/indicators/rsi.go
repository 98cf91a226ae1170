package indicators

import (
	"fmt"
	"math"

	"marketSignals/internal/domain"
)

// RSIConfig holds configuration for the RSI indicator
type RSIConfig struct {
	IndicatorConfig
}

// RSI implements the Relative Strength Index with simple (non-smoothed)
// rolling means of gains and losses.
type RSI struct {
	BaseIndicator
}

// NewRSI creates a new RSI indicator instance
func NewRSI(config RSIConfig) *RSI {
	return &RSI{
		BaseIndicator: BaseIndicator{Config: config.IndicatorConfig},
	}
}

// Name returns the name of the indicator, e.g. "rsi14".
func (r *RSI) Name() string {
	return fmt.Sprintf("rsi%d", r.Config.Period)
}

// RequiredDataPoints is one more than the period: the first close has no delta.
func (r *RSI) RequiredDataPoints() int {
	return r.Config.Period + 1
}

// Compute emits RSI at every series index i >= period. The gain and loss
// windows cover the period deltas ending at i.
func (r *RSI) Compute(series domain.Series) domain.IndicatorSeries {
	out := domain.IndicatorSeries{}
	if r.Config.Period <= 0 || series.Len() < r.RequiredDataPoints() {
		return out
	}

	closes := series.Values()
	ups := make([]float64, len(closes)-1)
	downs := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		ups[i-1], downs[i-1] = splitDelta(closes[i] - closes[i-1])
	}

	upWin := newWindow(ups, r.Config.Period)
	downWin := newWindow(downs, r.Config.Period)
	for upWin.Next() && downWin.Next() {
		avgUp, okUp := mean(upWin.Samples())
		avgDown, okDown := mean(downWin.Samples())
		if !okUp || !okDown {
			continue
		}
		value, ok := relativeStrengthIndex(avgUp, avgDown)
		if !ok {
			continue
		}
		// delta k belongs to close k+1
		out = append(out, domain.IndicatorPoint{Time: series.At(upWin.End() + 1).Time, Value: value})
	}
	return out
}

// splitDelta returns the gain and loss parts of a price change. A NaN change
// yields NaN for both so that any window containing it is undefined.
func splitDelta(delta float64) (up, down float64) {
	if math.IsNaN(delta) {
		return math.NaN(), math.NaN()
	}
	if delta > 0 {
		return delta, 0
	}
	return 0, -delta
}

// relativeStrengthIndex maps average gain and loss onto [0, 100].
// It reports false when the value is undefined.
func relativeStrengthIndex(avgUp, avgDown float64) (float64, bool) {
	switch {
	case math.IsNaN(avgUp) || math.IsNaN(avgDown):
		return 0, false
	case avgDown == 0 && avgUp == 0:
		// Flat window: 0/0 has no signal.
		return 0, false
	case avgDown == 0:
		// Only gains: RS is +Inf.
		return 100, true
	case math.IsInf(avgUp, 1) && math.IsInf(avgDown, 1):
		return 0, false
	case math.IsInf(avgUp, 1):
		return 100, true
	}

	rs := avgUp / avgDown
	rsi := 100 - 100/(1+rs)
	if !isFinite(rsi) {
		return 0, false
	}
	return rsi, true
}
