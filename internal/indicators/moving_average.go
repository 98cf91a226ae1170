package indicators

import (
	"fmt"

	"marketSignals/internal/domain"
)

// MovingAverageConfig holds configuration for moving average indicators
type MovingAverageConfig struct {
	IndicatorConfig
}

// MovingAverage implements the simple moving average over a trailing sample window.
type MovingAverage struct {
	BaseIndicator
}

// NewMovingAverage creates a new simple moving average indicator instance
func NewMovingAverage(config MovingAverageConfig) *MovingAverage {
	return &MovingAverage{
		BaseIndicator: BaseIndicator{Config: config.IndicatorConfig},
	}
}

// Name returns the name of the indicator, e.g. "sma20".
func (m *MovingAverage) Name() string {
	return fmt.Sprintf("sma%d", m.Config.Period)
}

// Compute emits the mean close of every full window, stamped with the time of
// the window's last sample. Windows containing NaN or producing a non-finite
// mean are skipped.
func (m *MovingAverage) Compute(series domain.Series) domain.IndicatorSeries {
	out := domain.IndicatorSeries{}
	if m.Config.Period <= 0 || series.Len() < m.Config.Period {
		return out
	}

	w := newWindow(series.Values(), m.Config.Period)
	for w.Next() {
		avg, ok := mean(w.Samples())
		if !ok || !isFinite(avg) {
			continue
		}
		out = append(out, domain.IndicatorPoint{Time: series.At(w.End()).Time, Value: avg})
	}
	return out
}
