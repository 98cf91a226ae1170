package memcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketSignals/internal/domain"
)

func sampleBars() []domain.OHLCV {
	t0 := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	return []domain.OHLCV{
		{Time: t0, Close: 1},
		{Time: t0.AddDate(0, 0, 1), Close: 2},
	}
}

func TestCache_GetSet(t *testing.T) {
	c := New(time.Minute, time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, "AAPL")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "aapl", sampleBars(), 0))
	got, ok := c.Get(ctx, "AAPL")
	require.True(t, ok)
	assert.Equal(t, sampleBars(), got)
}

func TestCache_CopiesOnReadAndWrite(t *testing.T) {
	c := New(time.Minute, time.Minute)
	ctx := context.Background()

	in := sampleBars()
	require.NoError(t, c.Set(ctx, "AAPL", in, time.Minute))
	in[0].Close = 999

	got, ok := c.Get(ctx, "AAPL")
	require.True(t, ok)
	assert.Equal(t, 1.0, got[0].Close)

	got[1].Close = 555
	again, _ := c.Get(ctx, "AAPL")
	assert.Equal(t, 2.0, again[1].Close)
}

func TestCache_Expiry(t *testing.T) {
	c := New(time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "AAPL", sampleBars(), 20*time.Millisecond))
	time.Sleep(50 * time.Millisecond)

	_, ok := c.Get(ctx, "AAPL")
	assert.False(t, ok)
}
