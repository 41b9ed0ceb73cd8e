package calculator

import (
	"errors"
	"math"
)

// BollingerResult holds the three bands, each aligned with the input.
type BollingerResult struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// CalculateBollinger computes SMA(period) +/- k population standard deviations.
func CalculateBollinger(closes []float64, period int, k float64) (*BollingerResult, error) {
	if period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if k <= 0 || math.IsNaN(k) {
		return nil, errors.New("bollinger multiplier must be positive")
	}
	n := len(closes)
	res := &BollingerResult{Upper: nanSeries(n), Middle: nanSeries(n), Lower: nanSeries(n)}

	for _, r := range definedRuns(closes) {
		for i := r.start + period - 1; i < r.end; i++ {
			window := closes[i-period+1 : i+1]
			sum := 0.0
			for _, v := range window {
				sum += v
			}
			mean := sum / float64(period)
			sq := 0.0
			for _, v := range window {
				d := v - mean
				sq += d * d
			}
			std := math.Sqrt(sq / float64(period))
			res.Middle[i] = mean
			res.Upper[i] = mean + k*std
			res.Lower[i] = mean - k*std
		}
	}
	return res, nil
}
