package calculator

import "github.com/markcheno/go-talib"

// CalculateSMA computes the simple moving average of values over period.
// The result has one entry per input; entries whose window is incomplete or
// contains a NaN are NaN.
func CalculateSMA(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, ErrInvalidPeriod
	}
	return perRun(values, period, talib.Sma), nil
}

// CalculateEMA computes the exponential moving average with alpha 2/(period+1),
// seeded by the SMA of the first period values. A NaN input restarts the
// recursion, so the next period outputs after it are NaN again.
func CalculateEMA(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, ErrInvalidPeriod
	}
	return perRun(values, period, talib.Ema), nil
}

// perRun applies a talib kernel to every NaN-free run of at least period
// values. talib fills its warm-up with zeros, so only outputs from index
// period-1 of each run are kept.
func perRun(values []float64, period int, kernel func([]float64, int) []float64) []float64 {
	out := nanSeries(len(values))
	for _, r := range definedRuns(values) {
		if r.len() < period {
			continue
		}
		res := kernel(values[r.start:r.end], period)
		copy(out[r.start+period-1:r.end], res[period-1:])
	}
	return out
}
