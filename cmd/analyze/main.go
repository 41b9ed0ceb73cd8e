// Command analyze runs the indicator and signal engine once over a CSV file
// or a fetched symbol and prints the result as tables.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"MarketPulse/internal/collector"
	"MarketPulse/internal/config"
	"MarketPulse/internal/engine"
	"MarketPulse/internal/logger"
	"MarketPulse/internal/model"
)

func main() {
	var (
		csvPath  = flag.String("csv", "", "path to a Date,Open,High,Low,Close[,Adj Close],Volume CSV file")
		symbol   = flag.String("symbol", "", "symbol to fetch from the configured data source")
		interval = flag.String("interval", "", "bar interval override (1d, 1wk, ...)")
		rng      = flag.String("range", "", "history range override (6mo, 1y, 2y, ...)")
		cfgPath  = flag.String("config", "configs/config.yaml", "config file")
		tail     = flag.Int("tail", 10, "number of trailing bars in the signal table")
		describe = flag.Bool("describe", false, "print descriptive statistics of the input columns")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Log.Level, true)

	if (*csvPath == "") == (*symbol == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -csv or -symbol is required")
		flag.Usage()
		os.Exit(2)
	}
	if err := cfg.Engine.Validate(); err != nil {
		log.Fatal().Err(err).Msg("engine config")
	}

	bars, name, err := loadBars(cfg, *csvPath, strings.ToUpper(*symbol), *interval, *rng)
	if err != nil {
		log.Fatal().Err(err).Msg("load bars")
	}

	a, err := engine.Analyze(name, bars, cfg.Engine)
	if err != nil {
		log.Fatal().Err(err).Msg("analyze")
	}

	w := os.Stdout
	if *describe {
		writeDescribe(w, bars)
	}
	writeLatest(w, a)
	writeSignals(w, a, *tail)
	writePivots(w, a)
	writePatterns(w, a)
}

func loadBars(cfg *config.Config, csvPath, symbol, interval, rng string) (model.Series, string, error) {
	if csvPath != "" {
		bars, err := collector.LoadCSV(csvPath)
		if err != nil {
			return nil, "", err
		}
		return bars, symbolFromPath(csvPath), nil
	}

	if interval == "" {
		interval = cfg.DataSource.Interval
	}
	if rng == "" {
		rng = cfg.DataSource.Range
	}
	fetcher, err := collector.NewFetcher(collector.SourceOptions{
		Provider:       cfg.DataSource.Provider,
		BaseURL:        cfg.DataSource.BaseURL,
		APIKey:         cfg.DataSource.APIKey,
		CSVDir:         cfg.DataSource.CSVDir,
		ProxyURL:       cfg.Proxy,
		RequestsPerSec: cfg.DataSource.RequestsPerSec,
		MaxRetries:     cfg.DataSource.MaxRetries,
	})
	if err != nil {
		return nil, "", err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	bars, err := fetcher.FetchBars(ctx, symbol, interval, rng)
	return bars, symbol, err
}

// symbolFromPath names a CSV series after its file, e.g. data/spy.csv -> SPY.
func symbolFromPath(path string) string {
	return strings.ToUpper(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}
