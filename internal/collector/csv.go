package collector

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"MarketPulse/internal/model"
)

// CSVFetcher loads bars from <Dir>/<SYMBOL>.csv files in the common
// Date,Open,High,Low,Close[,Adj Close],Volume layout. interval and range
// are ignored; the file is used as-is.
type CSVFetcher struct {
	Dir string
}

func (f *CSVFetcher) Name() string { return "csv" }

func (f *CSVFetcher) FetchBars(_ context.Context, symbol, _, _ string) (model.Series, error) {
	bars, err := LoadCSV(filepath.Join(f.Dir, symbol+".csv"))
	if err != nil {
		return nil, fmt.Errorf("csv %s: %w", symbol, err)
	}
	return bars, nil
}

// LoadCSV opens path and parses it with ParseCSV.
func LoadCSV(path string) (model.Series, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseCSV(file)
}

var csvTimeLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07:00",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
}

// ParseCSV reads a header row followed by bars. Column names are matched
// case-insensitively; a Close column is required, the others are optional.
// Cells that do not parse as numbers become NaN and unparsable dates
// leave the bar time zero. Row order is preserved.
func ParseCSV(r io.Reader) (model.Series, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		switch key {
		case "date", "datetime", "time", "timestamp":
			cols["time"] = i
		case "open", "high", "low", "close", "volume":
			cols[key] = i
		case "adj close", "adj_close", "adjclose":
			cols["adj"] = i
		}
	}
	if _, ok := cols["close"]; !ok {
		if adj, ok := cols["adj"]; ok {
			cols["close"] = adj
		} else {
			return nil, fmt.Errorf("csv header has no Close column: %v", header)
		}
	}

	var bars model.Series
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(bars)+2, err)
		}
		bars = append(bars, model.OHLCV{
			Time:   parseTime(cell(rec, cols, "time")),
			Open:   parseNumber(cell(rec, cols, "open")),
			High:   parseNumber(cell(rec, cols, "high")),
			Low:    parseNumber(cell(rec, cols, "low")),
			Close:  parseNumber(cell(rec, cols, "close")),
			Volume: parseNumber(cell(rec, cols, "volume")),
		})
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}
	return bars, nil
}

func cell(rec []string, cols map[string]int, key string) string {
	i, ok := cols[key]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func parseNumber(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range csvTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC()
	}
	return time.Time{}
}
