package series

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{name: "date only", raw: `"2024-03-05"`, want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{name: "rfc3339 utc", raw: `"2024-03-05T14:30:00Z"`, want: time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)},
		{name: "rfc3339 nano", raw: `"2024-03-05T14:30:00.123456789Z"`, want: time.Date(2024, 3, 5, 14, 30, 0, 123456789, time.UTC)},
		{name: "space separated", raw: `"2024-03-05 09:15:00"`, want: time.Date(2024, 3, 5, 9, 15, 0, 0, time.UTC)},
		{name: "no zone", raw: `"2024-03-05T09:15:00"`, want: time.Date(2024, 3, 5, 9, 15, 0, 0, time.UTC)},
		{name: "epoch seconds", raw: `1709647200`, want: time.Unix(1709647200, 0)},
		{name: "epoch millis", raw: `1709647200000`, want: time.Unix(1709647200, 0)},
		{name: "epoch nanos", raw: `1709647200000000000`, want: time.Unix(1709647200, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestParseTimestamp_KeepsOffset(t *testing.T) {
	got, err := ParseTimestamp(json.RawMessage(`"2024-03-05T23:30:00-05:00"`))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", got.Format("2006-01-02"))
}

func TestParseTimestamp_Errors(t *testing.T) {
	for _, raw := range []string{``, `null`, `"not a date"`, `"2024/03/05"`, `-5`, `{}`, `[1]`,
		`2e10`, `99999999999`, `9.3e12`, `1e19`, `1e300`} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseTimestamp(json.RawMessage(raw))
			assert.Error(t, err)
		})
	}
}

func TestParseClose(t *testing.T) {
	v, err := ParseClose(json.RawMessage(`101.25`))
	require.NoError(t, err)
	assert.Equal(t, 101.25, v)

	v, err = ParseClose(json.RawMessage(`" 99.5 "`))
	require.NoError(t, err)
	assert.Equal(t, 99.5, v)

	v, err = ParseClose(json.RawMessage(`"NaN"`))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))

	for _, raw := range []string{``, `null`, `"x"`, `true`} {
		_, err := ParseClose(json.RawMessage(raw))
		assert.Error(t, err, "raw %q", raw)
	}
}
