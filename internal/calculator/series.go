package calculator

import (
	"errors"
	"math"
)

// ErrInvalidPeriod is returned when a window length is not positive.
var ErrInvalidPeriod = errors.New("period must be positive")

// run is a half-open index range [start, end) of consecutive defined inputs.
type run struct {
	start, end int
}

func (r run) len() int { return r.end - r.start }

// validRuns splits [0, n) into maximal runs where ok reports true.
func validRuns(n int, ok func(i int) bool) []run {
	var runs []run
	start := -1
	for i := 0; i < n; i++ {
		if ok(i) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, run{start, i})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, run{start, n})
	}
	return runs
}

func definedRuns(values []float64) []run {
	return validRuns(len(values), func(i int) bool { return !math.IsNaN(values[i]) })
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// LastValue returns the final element of a series and whether it is defined.
func LastValue(values []float64) (float64, bool) {
	if len(values) == 0 {
		return math.NaN(), false
	}
	v := values[len(values)-1]
	return v, !math.IsNaN(v)
}

// CountDefined returns how many entries of a series are not NaN.
func CountDefined(values []float64) int {
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}
