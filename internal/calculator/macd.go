package calculator

import (
	"errors"
	"fmt"
)

// MACDResult holds the MACD line, its signal line and the histogram.
type MACDResult struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// CalculateMACD computes EMA(fast) - EMA(slow) and an EMA(signal) of that
// difference. The signal line has its own warm-up on top of the slow EMA.
func CalculateMACD(closes []float64, fast, slow, signal int) (*MACDResult, error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return nil, ErrInvalidPeriod
	}
	if fast >= slow {
		return nil, errors.New("macd fast period must be shorter than slow period")
	}
	fastEMA, err := CalculateEMA(closes, fast)
	if err != nil {
		return nil, fmt.Errorf("fast ema: %w", err)
	}
	slowEMA, err := CalculateEMA(closes, slow)
	if err != nil {
		return nil, fmt.Errorf("slow ema: %w", err)
	}

	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fastEMA[i] - slowEMA[i] // NaN if either side is NaN
	}
	sig, err := CalculateEMA(line, signal)
	if err != nil {
		return nil, fmt.Errorf("signal ema: %w", err)
	}
	hist := make([]float64, len(closes))
	for i := range closes {
		hist[i] = line[i] - sig[i]
	}
	return &MACDResult{Line: line, Signal: sig, Histogram: hist}, nil
}
