package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"marketSignals/config"
	"marketSignals/internal/adapters/logger"
	"marketSignals/internal/adapters/sqlite"
	"marketSignals/internal/domain"
	"marketSignals/internal/ports"
	"marketSignals/internal/utils"
	"marketSignals/internal/wiring"
)

func main() {
	symbol := flag.String("symbol", "", "symbol to fetch (required)")
	csvPath := flag.String("csv", "", "write the bars to this CSV file")
	toArchive := flag.Bool("archive", false, "store the bars in the SQLite archive (DB_PATH)")
	importPath := flag.String("import", "", "read bars from this CSV file instead of the provider")
	flag.Parse()

	sym := strings.ToUpper(strings.TrimSpace(*symbol))
	if sym == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *csvPath == "" && !*toArchive {
		*csvPath = fmt.Sprintf("data/%s_1d_%s.csv", sym, time.Now().Format("20060102"))
	}

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.New(cfg.LogLevel, true)
	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.FetchTimeout)
	defer cancel()

	// 3. Obtain bars
	bars, source, err := loadBars(ctx, cfg, appLogger, sym, *importPath)
	if err != nil {
		appLogger.Error(ctx, err, "Error fetching bars")
		log.Fatalf("Error fetching bars: %v", err)
	}
	domain.SortOHLCV(bars)
	appLogger.Info(ctx, "Fetched bars", ports.Fields{"symbol": sym, "source": source, "count": len(bars)})

	// 4. Write outputs
	if *csvPath != "" {
		if err := utils.WriteBarsToCSV(sym, bars, *csvPath); err != nil {
			appLogger.Error(ctx, err, "Error writing CSV")
			log.Fatalf("Error writing CSV: %v", err)
		}
		appLogger.Info(ctx, "Saved to", ports.Fields{"filename": *csvPath})
	}

	if *toArchive {
		repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
		if err != nil {
			log.Fatalf("Error opening archive: %v", err)
		}
		defer repo.Close()

		n, err := repo.SaveBars(ctx, sym, bars)
		if err != nil {
			appLogger.Error(ctx, err, "Error archiving bars")
			log.Fatalf("Error archiving bars: %v", err)
		}
		appLogger.Info(ctx, "Archived bars", ports.Fields{"symbol": sym, "count": n, "db": cfg.DBPath})
	}
}

func loadBars(ctx context.Context, cfg *config.Config, l ports.Logger, symbol, importPath string) ([]domain.OHLCV, string, error) {
	if importPath != "" {
		bars, err := utils.ReadBarsFromCSV(importPath)
		return bars, "csv:" + importPath, err
	}

	provider, closeProvider, err := wiring.NewProvider(ctx, cfg, l)
	if err != nil {
		return nil, "", err
	}
	defer closeProvider()

	bars, err := provider.DailyBars(ctx, symbol)
	return bars, provider.Name(), err
}
