package collector

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"MarketPulse/internal/engine"
	"MarketPulse/internal/model"
)

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher  Fetcher
	Engine   engine.Config
	Interval string
	Range    string
	logger   zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, cfg engine.Config, interval, rng string) *Collector {
	return &Collector{
		Fetcher:  fetcher,
		Engine:   cfg,
		Interval: interval,
		Range:    rng,
		logger:   log.With().Str("component", "collector").Str("source", fetcher.Name()).Logger(),
	}
}

// Collect fetches bars for symbol and runs the engine over them.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.Analysis, error) {
	bars, err := c.Fetcher.FetchBars(ctx, symbol, c.Interval, c.Range)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("fetch %s: %w", symbol, ErrNoData)
	}

	invalid := 0
	for _, b := range bars {
		if !b.Valid() {
			invalid++
		}
	}
	if invalid > 0 {
		c.logger.Warn().Str("symbol", symbol).Int("bars", len(bars)).Int("incomplete", invalid).
			Msg("series contains missing prices")
	}

	analysis, err := engine.Analyze(symbol, bars, c.Engine)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", symbol, err)
	}
	c.logger.Debug().Str("symbol", symbol).Int("bars", analysis.Bars).
		Str("signal", string(analysis.Latest.Label)).Msg("analysis complete")
	return analysis, nil
}
