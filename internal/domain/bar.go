package domain

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"time"
)

// Bar is one upstream price record as it arrives on the wire. Only the
// timestamp and the close are consumed; both are kept raw so the series
// normalizer can decide whether they are usable.
type Bar struct {
	T json.RawMessage `json:"t"` // Timestamp: date string, RFC3339 string or Unix epoch number
	C json.RawMessage `json:"c"` // Closing price: number or numeric string
}

// OHLCV is a typed daily bar produced by a price provider.
type OHLCV struct {
	Time   time.Time `json:"t"`
	Open   float64   `json:"o"`
	High   float64   `json:"h"`
	Low    float64   `json:"l"`
	Close  float64   `json:"c"`
	Volume float64   `json:"v"`
}

// Bar converts the typed bar into its wire form. Non-finite closes are
// encoded as strings since JSON numbers cannot carry them.
func (o OHLCV) Bar() Bar {
	return NewBar(o.Time, o.Close)
}

// NewBar builds a wire Bar from a timestamp and a closing price.
func NewBar(t time.Time, closePrice float64) Bar {
	ts, _ := json.Marshal(t.Format(time.RFC3339Nano))

	var c []byte
	if math.IsNaN(closePrice) || math.IsInf(closePrice, 0) {
		c, _ = json.Marshal(strconv.FormatFloat(closePrice, 'g', -1, 64))
	} else {
		c = []byte(strconv.FormatFloat(closePrice, 'g', -1, 64))
	}
	return Bar{T: ts, C: c}
}

// BarsFromOHLCV converts provider bars into wire bars, preserving order.
func BarsFromOHLCV(bars []OHLCV) []Bar {
	out := make([]Bar, len(bars))
	for i, b := range bars {
		out[i] = b.Bar()
	}
	return out
}

// SortOHLCV orders bars ascending by time, keeping the input order of equal times.
func SortOHLCV(bars []OHLCV) {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
}
