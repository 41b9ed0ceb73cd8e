package calculator

import (
	"math"
	"sort"

	"MarketPulse/internal/model"
)

// Stats is a column summary: count, mean, sample std-dev, min, quartiles, max.
type Stats struct {
	Count   int
	Missing int
	Mean    float64
	Std     float64
	Min     float64
	P25     float64
	P50     float64
	P75     float64
	Max     float64
}

// Describe summarizes the defined values of a column. Statistics that need
// more values than are available are NaN.
func Describe(values []float64) Stats {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	st := Stats{
		Count: len(valid), Missing: len(values) - len(valid),
		Mean: math.NaN(), Std: math.NaN(), Min: math.NaN(),
		P25: math.NaN(), P50: math.NaN(), P75: math.NaN(), Max: math.NaN(),
	}
	if len(valid) == 0 {
		return st
	}
	sort.Float64s(valid)

	sum := 0.0
	for _, v := range valid {
		sum += v
	}
	st.Mean = sum / float64(len(valid))
	if len(valid) > 1 {
		sq := 0.0
		for _, v := range valid {
			d := v - st.Mean
			sq += d * d
		}
		st.Std = math.Sqrt(sq / float64(len(valid)-1))
	}
	st.Min = valid[0]
	st.Max = valid[len(valid)-1]
	st.P25 = quantile(valid, 0.25)
	st.P50 = quantile(valid, 0.50)
	st.P75 = quantile(valid, 0.75)
	return st
}

// quantile uses linear interpolation between closest ranks of a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// DescribeSeries summarizes every OHLCV column of bars.
func DescribeSeries(bars model.Series) map[string]Stats {
	cols := map[string][]float64{
		"Open":   make([]float64, len(bars)),
		"High":   make([]float64, len(bars)),
		"Low":    make([]float64, len(bars)),
		"Close":  make([]float64, len(bars)),
		"Volume": make([]float64, len(bars)),
	}
	for i, b := range bars {
		cols["Open"][i] = b.Open
		cols["High"][i] = b.High
		cols["Low"][i] = b.Low
		cols["Close"][i] = b.Close
		cols["Volume"][i] = b.Volume
	}
	out := make(map[string]Stats, len(cols))
	for name, values := range cols {
		out[name] = Describe(values)
	}
	return out
}

// DescribeColumns lists the column order used by DescribeSeries.
var DescribeColumns = []string{"Open", "High", "Low", "Close", "Volume"}
