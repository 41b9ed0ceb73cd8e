package calculator

import (
	"math"

	"MarketPulse/internal/model"
)

const (
	dojiBodyRatio   = 0.1
	hammerBodyRatio = 0.3
)

// DetectPatterns classifies a bar by its body-to-range ratio. Every matching
// pattern is returned; an empty result means no pattern, which is also the
// answer for zero-range or incomplete bars.
func DetectPatterns(bar model.OHLCV) []model.Pattern {
	patterns := []model.Pattern{}
	if !bar.Valid() {
		return patterns
	}
	rng := bar.High - bar.Low
	if rng == 0 {
		return patterns
	}
	body := math.Abs(bar.Close - bar.Open)
	ratio := body / rng

	if body <= dojiBodyRatio*rng {
		patterns = append(patterns, model.PatternDoji)
	}
	if bar.Close > bar.Open && ratio < hammerBodyRatio {
		patterns = append(patterns, model.PatternHammer)
	}
	if bar.Open > bar.Close && ratio < hammerBodyRatio {
		patterns = append(patterns, model.PatternHangingMan)
	}
	return patterns
}
