package indicators

import "math"

// window walks every run of size consecutive samples in values, from the
// first full run to the last. Samples are counted, not calendar days.
type window struct {
	values []float64
	size   int
	end    int
}

func newWindow(values []float64, size int) *window {
	return &window{values: values, size: size, end: size - 2}
}

// Next advances to the next full window and reports whether one exists.
func (w *window) Next() bool {
	if w.size <= 0 {
		return false
	}
	w.end++
	return w.end < len(w.values)
}

// End is the index of the last sample in the current window.
func (w *window) End() int { return w.end }

// Samples returns the current window. The slice aliases the input.
func (w *window) Samples() []float64 {
	return w.values[w.end-w.size+1 : w.end+1]
}

// mean returns the arithmetic mean of samples. It reports false when the
// window is empty or holds a NaN, in which case no value is defined.
func mean(samples []float64) (float64, bool) {
	if len(samples) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range samples {
		if math.IsNaN(v) {
			return 0, false
		}
		sum += v
	}
	return sum / float64(len(samples)), true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
