// Package series turns untrusted upstream bars into a strictly ordered close series.
package series

import (
	"fmt"
	"sort"

	"marketSignals/internal/domain"
	"marketSignals/internal/ports"
)

// Normalize parses every bar, sorts by timestamp and collapses duplicate
// timestamps so that the bar appearing last in the input wins.
//
// Any bar whose timestamp or close cannot be parsed fails the whole call with
// an error wrapping ports.ErrMalformedInput. Non-finite closes are kept as is.
func Normalize(bars []domain.Bar) (domain.Series, error) {
	points := make([]domain.TimePoint, 0, len(bars))
	for i, b := range bars {
		ts, err := ParseTimestamp(b.T)
		if err != nil {
			return domain.Series{}, fmt.Errorf("bar %d: %w: %w", i, ports.ErrMalformedInput, err)
		}
		c, err := ParseClose(b.C)
		if err != nil {
			return domain.Series{}, fmt.Errorf("bar %d: %w: %w", i, ports.ErrMalformedInput, err)
		}
		points = append(points, domain.TimePoint{Time: ts, Value: c})
	}

	// Stable sort keeps input order among equal timestamps, so the last
	// element of each run is the authoritative one.
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Time.Before(points[j].Time)
	})

	deduped := points[:0]
	for _, p := range points {
		if n := len(deduped); n > 0 && deduped[n-1].Time.Equal(p.Time) {
			deduped[n-1] = p
			continue
		}
		deduped = append(deduped, p)
	}

	return domain.NewSeries(deduped), nil
}
