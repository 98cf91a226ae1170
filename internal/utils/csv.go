package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"marketSignals/internal/domain"
)

var csvHeader = []string{"time", "symbol", "open", "high", "low", "close", "volume"}

// WriteBarsToCSV writes bars for symbol to filename, creating parent directories.
func WriteBarsToCSV(symbol string, bars []domain.OHLCV, filename string) error {
	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range bars {
		if err := writer.Write([]string{
			b.Time.Format(time.RFC3339),
			symbol,
			strconv.FormatFloat(b.Open, 'f', -1, 64),
			strconv.FormatFloat(b.High, 'f', -1, 64),
			strconv.FormatFloat(b.Low, 'f', -1, 64),
			strconv.FormatFloat(b.Close, 'f', -1, 64),
			strconv.FormatFloat(b.Volume, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadBarsFromCSV reads a file produced by WriteBarsToCSV.
func ReadBarsFromCSV(filename string) ([]domain.OHLCV, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(csvHeader)

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.OHLCV{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	bars := make([]domain.OHLCV, 0)
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		bar, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func parseRecord(rec []string) (domain.OHLCV, error) {
	ts, err := time.Parse(time.RFC3339, rec[0])
	if err != nil {
		return domain.OHLCV{}, err
	}
	bar := domain.OHLCV{Time: ts}
	for i, dst := range []*float64{&bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume} {
		v, err := strconv.ParseFloat(rec[i+2], 64)
		if err != nil {
			return domain.OHLCV{}, fmt.Errorf("column %s: %w", csvHeader[i+2], err)
		}
		*dst = v
	}
	return bar, nil
}
