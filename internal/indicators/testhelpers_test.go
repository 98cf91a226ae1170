package indicators

import (
	"time"

	"marketSignals/internal/domain"
)

var seriesStart = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// dailySeries builds a series with one close per consecutive calendar day.
func dailySeries(closes ...float64) domain.Series {
	pts := make([]domain.TimePoint, len(closes))
	for i, c := range closes {
		pts[i] = domain.TimePoint{Time: seriesStart.AddDate(0, 0, i), Value: c}
	}
	return domain.NewSeries(pts)
}

// ramp returns n closes start, start+step, ...
func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func almostEqual(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
