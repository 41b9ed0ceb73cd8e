package model

import "math"

// Indicator series names.
const (
	MACDLine      = "MACD"
	MACDSignal    = "MACD_SIGNAL"
	MACDHistogram = "MACD_HIST"
	BBUpper       = "BB_UPPER"
	BBMiddle      = "BB_MIDDLE"
	BBLower       = "BB_LOWER"
)

// IndicatorSet holds named indicator series aligned 1:1 with the input bars.
// Missing values are NaN.
type IndicatorSet struct {
	Len    int
	Names  []string
	Series map[string][]float64
}

// NewIndicatorSet creates an empty set for a series of n bars.
func NewIndicatorSet(n int) *IndicatorSet {
	return &IndicatorSet{Len: n, Series: make(map[string][]float64)}
}

// Add stores a series under name, keeping insertion order for display.
func (s *IndicatorSet) Add(name string, values []float64) {
	if _, ok := s.Series[name]; !ok {
		s.Names = append(s.Names, name)
	}
	s.Series[name] = values
}

// Get returns the series for name.
func (s *IndicatorSet) Get(name string) ([]float64, bool) {
	v, ok := s.Series[name]
	return v, ok
}

// At returns the value of name at bar i and whether it is defined.
func (s *IndicatorSet) At(name string, i int) (float64, bool) {
	v, ok := s.Series[name]
	if !ok || i < 0 || i >= len(v) || math.IsNaN(v[i]) {
		return math.NaN(), false
	}
	return v[i], true
}

// Latest returns the last value of every series, NaN where missing.
func (s *IndicatorSet) Latest() map[string]float64 {
	out := make(map[string]float64, len(s.Names))
	for _, name := range s.Names {
		v := s.Series[name]
		if len(v) == 0 {
			out[name] = math.NaN()
			continue
		}
		out[name] = v[len(v)-1]
	}
	return out
}

// Levels is one set of pivot support/resistance levels.
type Levels struct {
	Pivot float64
	R1    float64
	R2    float64
	R3    float64
	S1    float64
	S2    float64
	S3    float64
}

// PivotLevels holds classic and Fibonacci pivots derived from the latest bar.
type PivotLevels struct {
	Available bool
	Classic   Levels
	Fibonacci Levels
}

// RangeStats is the high/low envelope of the most recent bars.
type RangeStats struct {
	Available bool
	Lookback  int
	High      float64
	Low       float64
	Position  float64 // 0.0 ~ 1.0, where the last close sits in the range
}
