package app

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketSignals/internal/domain"
	"marketSignals/internal/indicators"
	"marketSignals/internal/metrics"
	"marketSignals/internal/ports"
)

func TestNewSignalService_RequiresDependencies(t *testing.T) {
	_, err := NewSignalService(nil, &mockLogger{}, metrics.New())
	assert.Error(t, err)
	_, err = NewSignalService(&mockSource{}, nil, metrics.New())
	assert.Error(t, err)
	_, err = NewSignalService(&mockSource{}, &mockLogger{}, nil)
	assert.Error(t, err)
}

func TestSignalService_EndToEnd(t *testing.T) {
	src := &mockSource{bars: domain.BarsFromOHLCV(dailyOHLCV(rampCloses(20)...))}
	svc, err := NewSignalService(src, &mockLogger{}, metrics.New())
	require.NoError(t, err)

	sig, err := svc.Signals(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", sig.Symbol)
	require.Len(t, sig.SMA20, 1)
	assert.Equal(t, "2024-01-20", sig.SMA20[0].Date())
	assert.Equal(t, 10.5, sig.SMA20[0].Value)
	require.Len(t, sig.RSI14, 6)
	for _, p := range sig.RSI14 {
		assert.Equal(t, 100.0, p.Value)
	}
}

func TestSignalService_UpstreamErrorPropagates(t *testing.T) {
	upstream := fmt.Errorf("remote: %w", ports.ErrUpstreamUnavailable)
	log := &mockLogger{}
	svc, err := NewSignalService(&mockSource{err: upstream}, log, metrics.New())
	require.NoError(t, err)

	sig, err := svc.Signals(context.Background(), "AAPL")
	assert.Nil(t, sig)
	assert.ErrorIs(t, err, ports.ErrUpstreamUnavailable)
	assert.NotErrorIs(t, err, ports.ErrMalformedInput)
	assert.Len(t, log.errorMsgs, 1)
}

func TestSignalService_MalformedInputFailsWholeRequest(t *testing.T) {
	bars := domain.BarsFromOHLCV(dailyOHLCV(rampCloses(30)...))
	bars[7].T = json.RawMessage(`"not-a-date"`)

	m := metrics.New()
	svc, err := NewSignalService(&mockSource{bars: bars}, &mockLogger{}, m)
	require.NoError(t, err)

	sig, err := svc.Signals(context.Background(), "AAPL")
	assert.Nil(t, sig)
	assert.ErrorIs(t, err, ports.ErrMalformedInput)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MalformedInputTotal))
}

func TestSignalService_EmptyBarsIsNotAnError(t *testing.T) {
	svc, err := NewSignalService(&mockSource{bars: nil}, &mockLogger{}, metrics.New())
	require.NoError(t, err)

	sig, err := svc.Signals(context.Background(), "NEW")
	require.NoError(t, err)

	out, err := json.Marshal(sig)
	require.NoError(t, err)
	assert.JSONEq(t, `{"symbol":"NEW","sma20":[],"rsi14":[]}`, string(out))
}

func TestComputeSignals_SerializesDatesWithoutTime(t *testing.T) {
	bars := []domain.Bar{}
	for i := 0; i < 20; i++ {
		ts := fmt.Sprintf(`"2024-02-%02dT15:30:00Z"`, i+1)
		bars = append(bars, domain.Bar{T: json.RawMessage(ts), C: json.RawMessage(fmt.Sprintf("%d", i+1))})
	}

	sig, err := ComputeSignals(indicators.NewEngine(), "MSFT", bars)
	require.NoError(t, err)

	out, err := json.Marshal(sig.SMA20)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"t":"2024-02-20","value":10.5}]`, string(out))
}

func TestComputeSignals_DeterministicBytes(t *testing.T) {
	closes := []float64{44, 44.3, 44.1, 43.6, 44.3, 44.8, 45.1, 45.4, 45.8, 46.1, 45.9, 46.2, 45.6, 46.2, 46.2, 46.3, 46.3, 45.8, 46.0, 46.4, 46.9}
	bars := domain.BarsFromOHLCV(dailyOHLCV(closes...))
	engine := indicators.NewEngine()

	first, err := ComputeSignals(engine, "X", bars)
	require.NoError(t, err)
	want, err := json.Marshal(first)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := ComputeSignals(engine, "X", bars)
		require.NoError(t, err)
		got, err := json.Marshal(again)
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got))
	}
}

func TestComputeSignals_DuplicateCorrectionWins(t *testing.T) {
	ohlcv := dailyOHLCV(rampCloses(20)...)
	bars := domain.BarsFromOHLCV(ohlcv)
	// same-day correction for the last bar, appearing later in the input
	bars = append(bars, domain.NewBar(ohlcv[19].Time, 40))

	sig, err := ComputeSignals(indicators.NewEngine(), "X", bars)
	require.NoError(t, err)
	require.Len(t, sig.SMA20, 1)
	assert.Equal(t, (190.0+40.0)/20.0, sig.SMA20[0].Value)
}
