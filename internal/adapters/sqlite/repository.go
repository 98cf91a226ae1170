package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"marketSignals/internal/domain"
	"marketSignals/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository archives daily bars in SQLite. It implements ports.BarArchive and
// can serve as a ports.BarProvider for offline operation.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

var (
	_ ports.BarArchive  = (*Repository)(nil)
	_ ports.BarProvider = (*Repository)(nil)
)

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/bars.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w: %w", filepath.Dir(dbPath), ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}
	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "SQLite bar archive ready", ports.Fields{"path": dbPath})

	return repo, nil
}

func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS daily_bars (
		symbol TEXT NOT NULL,
		ts INTEGER NOT NULL, -- unix seconds, UTC
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume REAL NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (symbol, ts)
	);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w: %w", ports.ErrQueryFailed, err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// Name identifies the archive when it is used as a bar provider.
func (r *Repository) Name() string { return "archive" }

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// SaveBars upserts bars for symbol. A bar for an already archived day replaces
// the stored one. It returns the number of rows written.
func (r *Repository) SaveBars(ctx context.Context, symbol string, bars []domain.OHLCV) (int, error) {
	const query = `
	INSERT INTO daily_bars (symbol, ts, open, high, low, close, volume, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (symbol, ts) DO UPDATE SET
		open = excluded.open, high = excluded.high, low = excluded.low,
		close = excluded.close, volume = excluded.volume, updated_at = excluded.updated_at`

	sym := normalizeSymbol(symbol)
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for %s: %w: %w", sym, ports.ErrDBConnection, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare bar upsert: %w: %w", ports.ErrQueryFailed, err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, sym, b.Time.Unix(), b.Open, b.High, b.Low, b.Close, b.Volume, now); err != nil {
			return 0, fmt.Errorf("failed to upsert bar %s for %s: %w: %w", b.Time.Format(time.RFC3339), sym, ports.ErrQueryFailed, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit bars for %s: %w: %w", sym, ports.ErrQueryFailed, err)
	}

	r.logger.Debug(ctx, "Bars archived", ports.Fields{"symbol": sym, "count": len(bars)})
	return len(bars), nil
}

// LoadBars returns every archived bar for symbol, oldest first. An unknown
// symbol yields an empty slice.
func (r *Repository) LoadBars(ctx context.Context, symbol string) ([]domain.OHLCV, error) {
	const query = `
	SELECT ts, open, high, low, close, volume
	FROM daily_bars
	WHERE symbol = ?
	ORDER BY ts ASC`

	sym := normalizeSymbol(symbol)
	rows, err := r.db.QueryContext(ctx, query, sym)
	if err != nil {
		return nil, fmt.Errorf("failed to query bars for %s: %w: %w", sym, ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	bars := make([]domain.OHLCV, 0)
	for rows.Next() {
		bar, err := scanBar(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bar for %s: %w: %w", sym, ports.ErrQueryFailed, err)
		}
		bars = append(bars, bar)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bar rows: %w: %w", ports.ErrQueryFailed, err)
	}
	return bars, nil
}

// DailyBars serves archived bars; a symbol with nothing archived is not found.
func (r *Repository) DailyBars(ctx context.Context, symbol string) ([]domain.OHLCV, error) {
	bars, err := r.LoadBars(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no archived bars for %s: %w", normalizeSymbol(symbol), ports.ErrNotFound)
	}
	return bars, nil
}

// Symbols lists archived symbols in ascending order.
func (r *Repository) Symbols(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT symbol FROM daily_bars ORDER BY symbol`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w: %w", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	symbols := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w: %w", ports.ErrQueryFailed, err)
		}
		symbols = append(symbols, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating symbol rows: %w: %w", ports.ErrQueryFailed, err)
	}
	return symbols, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBar(s scanner) (domain.OHLCV, error) {
	var (
		ts  int64
		bar domain.OHLCV
	)
	if err := s.Scan(&ts, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
		return domain.OHLCV{}, err
	}
	bar.Time = time.Unix(ts, 0).UTC()
	return bar, nil
}
