package indicators

import "marketSignals/internal/domain"

// Indicator represents a technical indicator computed over a normalized close series.
type Indicator interface {
	// Compute returns one point per index whose trailing window is fully
	// populated and yields a finite value. It never mutates the series.
	Compute(series domain.Series) domain.IndicatorSeries

	// RequiredDataPoints returns the minimum series length that can produce a point.
	RequiredDataPoints() int

	// Name returns the name of the indicator
	Name() string
}

// IndicatorConfig holds common configuration for indicators
type IndicatorConfig struct {
	Period int
}

// BaseIndicator provides common functionality for indicators
type BaseIndicator struct {
	Config IndicatorConfig
}

// RequiredDataPoints returns the minimum number of points needed for one output value.
func (b *BaseIndicator) RequiredDataPoints() int {
	return b.Config.Period
}
