package wiring

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketSignals/config"
	"marketSignals/internal/adapters/alphavantage"
	"marketSignals/internal/adapters/memcache"
	"marketSignals/internal/adapters/sqlite"
	"marketSignals/internal/ports"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...ports.Fields)            {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...ports.Fields)             {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...ports.Fields)             {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...ports.Fields) {}

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	p, closeFn, err := NewProvider(ctx, &config.Config{
		Provider:           config.ProviderAlphaVantage,
		AlphaVantageAPIKey: "demo",
		FetchTimeout:       time.Second,
	}, &mockLogger{})
	require.NoError(t, err)
	assert.IsType(t, &alphavantage.Client{}, p)
	assert.NoError(t, closeFn())

	p, closeFn, err = NewProvider(ctx, &config.Config{
		Provider: config.ProviderArchive,
		DBPath:   filepath.Join(t.TempDir(), "bars.db"),
	}, &mockLogger{})
	require.NoError(t, err)
	assert.IsType(t, &sqlite.Repository{}, p)
	assert.NoError(t, closeFn())

	_, _, err = NewProvider(ctx, &config.Config{Provider: "yahoo"}, &mockLogger{})
	assert.ErrorIs(t, err, ports.ErrConfigurationError)
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()

	c, _, err := NewCache(ctx, &config.Config{CacheBackend: config.CacheMemory, CacheTTL: time.Minute}, &mockLogger{})
	require.NoError(t, err)
	assert.IsType(t, &memcache.Cache{}, c)

	c, _, err = NewCache(ctx, &config.Config{CacheBackend: config.CacheNone}, &mockLogger{})
	require.NoError(t, err)
	assert.Nil(t, c)

	_, _, err = NewCache(ctx, &config.Config{CacheBackend: "memcached"}, &mockLogger{})
	assert.ErrorIs(t, err, ports.ErrConfigurationError)
}
