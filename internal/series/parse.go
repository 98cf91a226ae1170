package series

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Epoch magnitude thresholds used to guess the unit of numeric timestamps.
const (
	maxEpochSeconds = 1e11
	maxEpochMillis  = 1e14

	// maxEpochNanos is the first float64 that no longer fits an int64.
	maxEpochNanos = float64(math.MaxInt64)
)

// timestampLayouts are tried in order for string timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var errMissing = errors.New("field is missing or null")

// ParseTimestamp accepts a JSON string in one of the supported date layouts or a
// JSON number holding a Unix epoch in seconds, milliseconds or nanoseconds.
func ParseTimestamp(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, fmt.Errorf("timestamp: %w", errMissing)
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}, fmt.Errorf("timestamp %s: %w", raw, err)
		}
		s = strings.TrimSpace(s)
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("timestamp %q: unsupported format", s)
	}

	n, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %s: %w", raw, err)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return time.Time{}, fmt.Errorf("timestamp %s: non-finite epoch", raw)
	}
	if n < 0 {
		return time.Time{}, fmt.Errorf("timestamp %s: negative epoch", raw)
	}
	switch {
	case n < maxEpochSeconds:
		ns := n * float64(time.Second)
		if ns >= maxEpochNanos {
			return time.Time{}, fmt.Errorf("timestamp %s: epoch seconds out of range", raw)
		}
		return time.Unix(0, int64(ns)).UTC(), nil
	case n < maxEpochMillis:
		if n*float64(time.Millisecond) >= maxEpochNanos {
			return time.Time{}, fmt.Errorf("timestamp %s: epoch milliseconds out of range", raw)
		}
		return time.UnixMilli(int64(n)).UTC(), nil
	default:
		if n >= maxEpochNanos {
			return time.Time{}, fmt.Errorf("timestamp %s: epoch nanoseconds out of range", raw)
		}
		return time.Unix(0, int64(n)).UTC(), nil
	}
}

// ParseClose accepts a JSON number or a numeric JSON string. Strings such as
// "NaN" or "Inf" parse to non-finite values and are returned unchanged.
func ParseClose(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("close: %w", errMissing)
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, fmt.Errorf("close %s: %w", raw, err)
		}
		text = strings.TrimSpace(text)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("close %s: %w", raw, err)
	}
	return v, nil
}
