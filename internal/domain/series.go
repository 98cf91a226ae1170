package domain

import "time"

// TimePoint is a single (timestamp, value) observation.
type TimePoint struct {
	Time  time.Time
	Value float64
}

// Series is a strictly ascending, duplicate-free sequence of closes.
// It owns its points; callers must not retain or modify the backing slice.
type Series struct {
	points []TimePoint
}

// NewSeries wraps points that are already strictly ascending by time.
// The slice is copied so the Series never aliases caller memory.
func NewSeries(points []TimePoint) Series {
	cp := make([]TimePoint, len(points))
	copy(cp, points)
	return Series{points: cp}
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.points) }

// At returns the i-th point.
func (s Series) At(i int) TimePoint { return s.points[i] }

// Points returns a copy of the points.
func (s Series) Points() []TimePoint {
	cp := make([]TimePoint, len(s.points))
	copy(cp, s.points)
	return cp
}

// Values returns a copy of the values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Value
	}
	return out
}
