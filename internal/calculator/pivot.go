package calculator

import (
	"math"

	"MarketPulse/internal/model"
)

// CalculatePivots derives classic and Fibonacci pivot levels from one bar.
// A zero-range bar collapses every level to the close; a bar with a
// missing high, low or close yields unavailable levels.
func CalculatePivots(bar model.OHLCV) model.PivotLevels {
	h, l, c := bar.High, bar.Low, bar.Close
	if math.IsNaN(h) || math.IsNaN(l) || math.IsNaN(c) {
		return model.PivotLevels{}
	}
	if h == l {
		flat := model.Levels{Pivot: c, R1: c, R2: c, R3: c, S1: c, S2: c, S3: c}
		return model.PivotLevels{Available: true, Classic: flat, Fibonacci: flat}
	}
	return model.PivotLevels{
		Available: true,
		Classic:   ClassicPivots(h, l, c),
		Fibonacci: FibonacciPivots(h, l, c),
	}
}

// ClassicPivots returns floor-trader pivot levels.
func ClassicPivots(high, low, close float64) model.Levels {
	p := (high + low + close) / 3
	return model.Levels{
		Pivot: p,
		R1:    2*p - low,
		S1:    2*p - high,
		R2:    p + (high - low),
		S2:    p - (high - low),
		R3:    high + 2*(p-low),
		S3:    low - 2*(high-p),
	}
}

// FibonacciPivots returns pivot levels spaced by 0.382, 0.618 and 1.0 of the range.
func FibonacciPivots(high, low, close float64) model.Levels {
	p := (high + low + close) / 3
	rng := high - low
	return model.Levels{
		Pivot: p,
		R1:    p + 0.382*rng,
		R2:    p + 0.618*rng,
		R3:    p + rng,
		S1:    p - 0.382*rng,
		S2:    p - 0.618*rng,
		S3:    p - rng,
	}
}
