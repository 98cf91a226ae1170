package rediscache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketSignals/internal/domain"
	"marketSignals/internal/ports"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...ports.Fields)            {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...ports.Fields)             {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...ports.Fields)             {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...ports.Fields) {}

func TestKey(t *testing.T) {
	assert.Equal(t, "marketsignals:bars:AAPL", key("aapl"))
}

func TestEncodeDecodeBars(t *testing.T) {
	bars := []domain.OHLCV{
		{Time: time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
	}
	raw, err := encodeBars(bars)
	require.NoError(t, err)

	got, err := decodeBars(raw)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, bars[0].Time.Equal(got[0].Time))
	assert.Equal(t, bars[0].Close, got[0].Close)

	raw, err = encodeBars(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	_, err = decodeBars([]byte("{"))
	assert.Error(t, err)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(context.Background(), Config{Addr: "127.0.0.1:1"})
	assert.Error(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = New(ctx, Config{Addr: "127.0.0.1:1", Logger: &mockLogger{}})
	assert.ErrorIs(t, err, ports.ErrDBConnection)
}

// newIntegrationCache connects to REDIS_TEST_ADDR or skips the test.
func newIntegrationCache(t *testing.T) *Cache {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	c, err := New(context.Background(), Config{Addr: addr, DB: 15, Logger: &mockLogger{}})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_Integration(t *testing.T) {
	c := newIntegrationCache(t)
	ctx := context.Background()
	symbol := fmt.Sprintf("TEST%d", time.Now().UnixNano())

	_, ok := c.Get(ctx, symbol)
	assert.False(t, ok)

	bars := []domain.OHLCV{{Time: time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC), Close: 3}}
	require.NoError(t, c.Set(ctx, symbol, bars, time.Minute))

	got, ok := c.Get(ctx, symbol)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, 3.0, got[0].Close)

	require.NoError(t, c.Set(ctx, symbol+"X", bars, 50*time.Millisecond))
	time.Sleep(150 * time.Millisecond)
	_, ok = c.Get(ctx, symbol+"X")
	assert.False(t, ok)
}
