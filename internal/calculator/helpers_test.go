package calculator

import (
	"math"
	"testing"
	"time"

	"MarketPulse/internal/model"
)

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.6f, want %.6f (tol=%.6f, diff=%.6f)", label, got, want, tol, math.Abs(got-want))
	}
}

func assertMissing(t *testing.T, label string, values []float64, idx ...int) {
	t.Helper()
	for _, i := range idx {
		if !math.IsNaN(values[i]) {
			t.Errorf("%s[%d]: expected missing, got %.6f", label, i, values[i])
		}
	}
}

// wave returns a deterministic, non-monotonic price path.
func wave(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 0.3*float64(i) + 5*math.Sin(float64(i)/3) + 2*math.Cos(float64(i)/7)
	}
	return out
}

func barsFromCloses(closes []float64) model.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make(model.Series, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}
