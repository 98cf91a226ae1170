package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketSignals/config"
	"marketSignals/internal/adapters/logger"
	"marketSignals/internal/ports"
)

func archiveConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		HTTPAddr:     "127.0.0.1:0",
		PriceSource:  config.SourceLocal,
		Provider:     config.ProviderArchive,
		FetchTimeout: time.Second,
		DBPath:       filepath.Join(t.TempDir(), "bars.db"),
		CacheBackend: config.CacheMemory,
		CacheTTL:     time.Minute,
	}
}

func TestRun_ReturnsSetupErrorAfterClosingProvider(t *testing.T) {
	cfg := archiveConfig(t)
	cfg.WarmSymbols = []string{"AAPL"}
	cfg.WarmCron = "not a cron"

	err := run(context.Background(), cfg, logger.New(logger.LevelError, false))
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrConfigurationError)
	assert.NoFileExists(t, cfg.DBPath+"-wal")
}

func TestRun_ReturnsServerError(t *testing.T) {
	cfg := archiveConfig(t)
	cfg.HTTPAddr = "127.0.0.1:-1"

	done := make(chan error, 1)
	go func() { done <- run(context.Background(), cfg, logger.New(logger.LevelError, false)) }()

	select {
	case err := <-done:
		assert.ErrorContains(t, err, "http server")
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after the listener failed")
	}
	assert.NoFileExists(t, cfg.DBPath+"-wal")
}

func TestRun_StopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, run(ctx, archiveConfig(t), logger.New(logger.LevelError, false)))
}
