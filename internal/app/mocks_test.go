package app

import (
	"context"
	"sync"
	"time"

	"marketSignals/internal/domain"
	"marketSignals/internal/ports"
)

// Mock implementations
type mockLogger struct {
	mu        sync.Mutex
	debugMsgs []string
	infoMsgs  []string
	warnMsgs  []string
	errorMsgs []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...ports.Fields) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debugMsgs = append(m.debugMsgs, msg)
}

func (m *mockLogger) Info(ctx context.Context, msg string, fields ...ports.Fields) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infoMsgs = append(m.infoMsgs, msg)
}

func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...ports.Fields) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnMsgs = append(m.warnMsgs, msg)
}

func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...ports.Fields) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorMsgs = append(m.errorMsgs, msg)
}

type mockSource struct {
	bars  []domain.Bar
	err   error
	calls int
}

func (m *mockSource) FetchBars(ctx context.Context, symbol string) ([]domain.Bar, error) {
	m.calls++
	return m.bars, m.err
}

func (m *mockSource) Name() string { return "mock" }

type mockProvider struct {
	bars  []domain.OHLCV
	err   error
	calls int
}

func (m *mockProvider) DailyBars(ctx context.Context, symbol string) ([]domain.OHLCV, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.OHLCV, len(m.bars))
	copy(out, m.bars)
	return out, nil
}

func (m *mockProvider) Name() string { return "mockprovider" }

type mockCache struct {
	entries map[string][]domain.OHLCV
	ttls    map[string]time.Duration
	setErr  error
}

func newMockCache() *mockCache {
	return &mockCache{entries: map[string][]domain.OHLCV{}, ttls: map[string]time.Duration{}}
}

func (m *mockCache) Get(ctx context.Context, symbol string) ([]domain.OHLCV, bool) {
	bars, ok := m.entries[symbol]
	return bars, ok
}

func (m *mockCache) Set(ctx context.Context, symbol string, bars []domain.OHLCV, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.entries[symbol] = bars
	m.ttls[symbol] = ttl
	return nil
}

func dailyOHLCV(closes ...float64) []domain.OHLCV {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	out := make([]domain.OHLCV, len(closes))
	for i, c := range closes {
		out[i] = domain.OHLCV{Time: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}
	return out
}

func rampCloses(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}
