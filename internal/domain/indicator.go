package domain

import (
	"encoding/json"
	"time"
)

// DateLayout is the output format for indicator timestamps. Time of day is dropped.
const DateLayout = "2006-01-02"

// IndicatorPoint is one emitted indicator value.
type IndicatorPoint struct {
	Time  time.Time
	Value float64
}

type indicatorPointJSON struct {
	T     string  `json:"t"`
	Value float64 `json:"value"`
}

// MarshalJSON renders the point as {"t": "YYYY-MM-DD", "value": v}.
func (p IndicatorPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(indicatorPointJSON{T: p.Date(), Value: p.Value})
}

// Date returns the calendar date of the point in its own location.
func (p IndicatorPoint) Date() string {
	return p.Time.Format(DateLayout)
}

// IndicatorSeries is an ordered sequence of indicator points.
type IndicatorSeries []IndicatorPoint

// MarshalJSON always renders an array, never null.
func (s IndicatorSeries) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]IndicatorPoint(s))
}

// Signals is the response assembled for one symbol.
type Signals struct {
	Symbol string          `json:"symbol"`
	SMA20  IndicatorSeries `json:"sma20"`
	RSI14  IndicatorSeries `json:"rsi14"`
}
