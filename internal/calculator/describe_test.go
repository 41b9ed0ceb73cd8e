package calculator

import (
	"math"
	"testing"
)

func TestDescribe(t *testing.T) {
	st := Describe([]float64{4, 1, math.NaN(), 3, 2})
	if st.Count != 4 || st.Missing != 1 {
		t.Fatalf("count=%d missing=%d, want 4/1", st.Count, st.Missing)
	}
	assertClose(t, "mean", st.Mean, 2.5, 1e-12)
	assertClose(t, "std", st.Std, math.Sqrt(5.0/3.0), 1e-12)
	assertClose(t, "min", st.Min, 1, 0)
	assertClose(t, "p25", st.P25, 1.75, 1e-12)
	assertClose(t, "p50", st.P50, 2.5, 1e-12)
	assertClose(t, "p75", st.P75, 3.25, 1e-12)
	assertClose(t, "max", st.Max, 4, 0)
}

func TestDescribe_Empty(t *testing.T) {
	st := Describe([]float64{math.NaN()})
	if st.Count != 0 || st.Missing != 1 || !math.IsNaN(st.Mean) || !math.IsNaN(st.Std) {
		t.Errorf("unexpected stats for all-missing column: %+v", st)
	}
}

func TestDescribeSeries(t *testing.T) {
	bars := barsFromCloses([]float64{10, 20, 30})
	bars[1].Volume = math.NaN()
	out := DescribeSeries(bars)
	for _, col := range DescribeColumns {
		if _, ok := out[col]; !ok {
			t.Errorf("missing column %s", col)
		}
	}
	assertClose(t, "close mean", out["Close"].Mean, 20, 1e-12)
	if out["Volume"].Missing != 1 {
		t.Errorf("volume missing=%d, want 1", out["Volume"].Missing)
	}
}

func TestCalculateRange(t *testing.T) {
	bars := barsFromCloses([]float64{10, 30, 20, 15})
	rs, err := CalculateRange(bars, 3)
	if err != nil {
		t.Fatal(err)
	}
	// last 3 bars: highs 31, 21, 16; lows 29, 19, 14
	assertClose(t, "high", rs.High, 31, 0)
	assertClose(t, "low", rs.Low, 14, 0)
	assertClose(t, "position", rs.Position, 1.0/17.0, 1e-12)

	if _, err := CalculateRange(nil, 3); err == nil {
		t.Error("expected error for empty bars")
	}
	if _, err := CalculateRange(bars, 0); err == nil {
		t.Error("expected error for lookback 0")
	}
}
