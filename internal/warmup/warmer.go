package warmup

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"marketSignals/internal/domain"
	"marketSignals/internal/metrics"
	"marketSignals/internal/ports"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule refreshes every five minutes (cron with a seconds field).
const DefaultSchedule = "0 */5 * * * *"

// Refresher re-fetches bars for a symbol and stores them in the cache.
type Refresher interface {
	Refresh(ctx context.Context, symbol string) ([]domain.OHLCV, error)
}

// Warmer keeps the bar cache hot for a fixed set of symbols.
type Warmer struct {
	cron      *cron.Cron
	refresher Refresher
	symbols   []string
	timeout   time.Duration
	logger    ports.Logger
	metrics   *metrics.Metrics

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup // initial pass started by Start
}

// Config configures a Warmer.
type Config struct {
	Symbols  []string
	Schedule string
	Timeout  time.Duration // Per-symbol refresh timeout
	Logger   ports.Logger
	Metrics  *metrics.Metrics
}

// New creates a Warmer and registers its job. The scheduler is not started.
func New(refresher Refresher, cfg Config) (*Warmer, error) {
	if refresher == nil || cfg.Logger == nil || cfg.Metrics == nil {
		return nil, fmt.Errorf("missing required dependencies for Warmer")
	}
	symbols := make([]string, 0, len(cfg.Symbols))
	for _, s := range cfg.Symbols {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols to warm: %w", ports.ErrConfigurationError)
	}
	schedule := cfg.Schedule
	if schedule == "" {
		schedule = DefaultSchedule
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	w := &Warmer{
		cron:      cron.New(cron.WithSeconds()),
		refresher: refresher,
		symbols:   symbols,
		timeout:   timeout,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
	}
	if _, err := w.cron.AddFunc(schedule, func() { w.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("register warm-up schedule %q: %w: %w", schedule, ports.ErrConfigurationError, err)
	}
	return w, nil
}

// Start runs an immediate pass in the background and starts the scheduler.
func (w *Warmer) Start(ctx context.Context) {
	w.logger.Info(ctx, "Cache warm-up scheduled", ports.Fields{"symbols": w.symbols})
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.RunOnce(ctx)
	}()
	w.cron.Start()
}

// Stop halts the scheduler and waits for running passes, the initial one
// included, to finish or for ctx to end.
func (w *Warmer) Stop(ctx context.Context) {
	cronDone := w.cron.Stop().Done()
	done := make(chan struct{})
	go func() {
		<-cronDone
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// RunOnce refreshes every symbol sequentially. Overlapping passes are skipped.
// It returns the number of symbols refreshed successfully.
func (w *Warmer) RunOnce(ctx context.Context) int {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		w.logger.Debug(ctx, "Warm-up pass still running, skipping")
		return 0
	}
	w.running = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	ok := 0
	for _, symbol := range w.symbols {
		if ctx.Err() != nil {
			break
		}
		fetchCtx, cancel := context.WithTimeout(ctx, w.timeout)
		bars, err := w.refresher.Refresh(fetchCtx, symbol)
		cancel()
		if err != nil {
			w.metrics.WarmupRunsTotal.WithLabelValues("error").Inc()
			w.logger.Warn(ctx, "Warm-up refresh failed", ports.Fields{"symbol": symbol, "error": err.Error()})
			continue
		}
		ok++
		w.metrics.WarmupRunsTotal.WithLabelValues("ok").Inc()
		w.logger.Debug(ctx, "Warm-up refreshed symbol", ports.Fields{"symbol": symbol, "bars": len(bars)})
	}
	return ok
}
