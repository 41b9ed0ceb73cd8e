package calculator

import (
	"errors"
	"math"

	"MarketPulse/internal/model"
)

// CalculateRange scans the most recent lookback bars and returns the high,
// the low and the position of the last close. Missing prices are skipped.
func CalculateRange(bars model.Series, lookback int) (model.RangeStats, error) {
	if lookback <= 0 {
		return model.RangeStats{}, ErrInvalidPeriod
	}
	if len(bars) == 0 {
		return model.RangeStats{}, errors.New("no bars provided")
	}
	n := len(bars)
	start := n - lookback
	if start < 0 {
		start = 0
	}
	high := math.Inf(-1)
	low := math.Inf(1)
	for i := start; i < n; i++ {
		if !math.IsNaN(bars[i].High) && bars[i].High > high {
			high = bars[i].High
		}
		if !math.IsNaN(bars[i].Low) && bars[i].Low < low {
			low = bars[i].Low
		}
	}
	if math.IsInf(high, 0) || math.IsInf(low, 0) {
		return model.RangeStats{}, errors.New("no valid prices in range")
	}
	stats := model.RangeStats{Available: true, Lookback: lookback, High: high, Low: low, Position: math.NaN()}
	if pos, err := rangePosition(bars[n-1].Close, high, low); err == nil {
		stats.Position = pos
	}
	return stats, nil
}

// rangePosition returns where current sits within [low, high] (0.0~1.0).
func rangePosition(current, high, low float64) (float64, error) {
	if math.IsNaN(current) {
		return 0, errors.New("current price missing")
	}
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
