package series

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketSignals/internal/domain"
	"marketSignals/internal/ports"
)

func rawBar(t, c string) domain.Bar {
	return domain.Bar{T: json.RawMessage(t), C: json.RawMessage(c)}
}

func day(d int) time.Time {
	return time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

func TestNormalize_SortsAndKeepsValues(t *testing.T) {
	bars := []domain.Bar{
		rawBar(`"2024-01-03"`, `103`),
		rawBar(`"2024-01-01"`, `101`),
		rawBar(`"2024-01-02"`, `"102.5"`),
	}

	s, err := Normalize(bars)
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())

	assert.Equal(t, []float64{101, 102.5, 103}, s.Values())
	for i := 0; i < s.Len(); i++ {
		assert.True(t, s.At(i).Time.Equal(day(i)), "point %d at %s", i, s.At(i).Time)
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	s, err := Normalize(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	s, err = Normalize([]domain.Bar{})
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestNormalize_DuplicateTimestampLastWins(t *testing.T) {
	tests := []struct {
		name string
		bars []domain.Bar
		want []float64
	}{
		{
			name: "adjacent duplicates",
			bars: []domain.Bar{
				rawBar(`"2024-01-01"`, `1`),
				rawBar(`"2024-01-02"`, `10`),
				rawBar(`"2024-01-02"`, `20`),
			},
			want: []float64{1, 20},
		},
		{
			name: "duplicates separated by other bars",
			bars: []domain.Bar{
				rawBar(`"2024-01-02"`, `10`),
				rawBar(`"2024-01-01"`, `1`),
				rawBar(`"2024-01-03"`, `3`),
				rawBar(`"2024-01-02"`, `20`),
			},
			want: []float64{1, 20, 3},
		},
		{
			name: "same instant in different notations",
			bars: []domain.Bar{
				rawBar(`"2024-01-01T00:00:00Z"`, `5`),
				rawBar(`1704067200`, `6`),
			},
			want: []float64{6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Normalize(tt.bars)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Values())
		})
	}
}

func TestNormalize_OrderInvariance(t *testing.T) {
	sorted := make([]domain.Bar, 40)
	for i := range sorted {
		sorted[i] = domain.NewBar(day(i), float64(100+i*3%7))
	}
	want, err := Normalize(sorted)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 5; round++ {
		shuffled := append([]domain.Bar(nil), sorted...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got, err := Normalize(shuffled)
		require.NoError(t, err)
		assert.Equal(t, want.Values(), got.Values())
		for i := 0; i < want.Len(); i++ {
			assert.True(t, want.At(i).Time.Equal(got.At(i).Time))
		}
	}
}

func TestNormalize_MalformedInput(t *testing.T) {
	tests := []struct {
		name string
		bars []domain.Bar
	}{
		{name: "unparseable timestamp", bars: []domain.Bar{rawBar(`"yesterday"`, `1`)}},
		{name: "missing timestamp", bars: []domain.Bar{{C: json.RawMessage(`1`)}}},
		{name: "null timestamp", bars: []domain.Bar{rawBar(`null`, `1`)}},
		{name: "boolean timestamp", bars: []domain.Bar{rawBar(`true`, `1`)}},
		{name: "missing close", bars: []domain.Bar{{T: json.RawMessage(`"2024-01-01"`)}}},
		{name: "non-numeric close", bars: []domain.Bar{rawBar(`"2024-01-01"`, `"abc"`)}},
		{
			name: "epoch beyond int64 nanoseconds",
			bars: []domain.Bar{rawBar(`"2024-01-02"`, `1`), rawBar(`1e300`, `2`)},
		},
		{name: "epoch seconds overflow", bars: []domain.Bar{rawBar(`20000000000`, `1`)}},
		{
			name: "one bad bar among good ones",
			bars: []domain.Bar{
				rawBar(`"2024-01-01"`, `1`),
				rawBar(`"2024-13-45"`, `2`),
				rawBar(`"2024-01-03"`, `3`),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Normalize(tt.bars)
			require.Error(t, err)
			assert.ErrorIs(t, err, ports.ErrMalformedInput)
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestNormalize_NonFiniteClosePassesThrough(t *testing.T) {
	bars := []domain.Bar{
		rawBar(`"2024-01-01"`, `1`),
		rawBar(`"2024-01-02"`, `"NaN"`),
		domain.NewBar(day(2), math.Inf(1)),
	}

	s, err := Normalize(bars)
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())
	assert.True(t, math.IsNaN(s.At(1).Value))
	assert.True(t, math.IsInf(s.At(2).Value, 1))
}

func TestNormalize_DoesNotAliasInput(t *testing.T) {
	bars := []domain.Bar{rawBar(`"2024-01-02"`, `2`), rawBar(`"2024-01-01"`, `1`)}
	s, err := Normalize(bars)
	require.NoError(t, err)

	pts := s.Points()
	pts[0].Value = 999
	assert.Equal(t, 1.0, s.At(0).Value)
	assert.Equal(t, `"2024-01-02"`, string(bars[0].T))
}
