package calculator

import (
	"math"
	"testing"

	"github.com/markcheno/go-talib"
)

func TestRSI_WarmUp(t *testing.T) {
	got, _ := CalculateRSI(wave(14), 14)
	if c := CountDefined(got); c != 0 {
		t.Errorf("14 closes: %d defined values, want 0", c)
	}
	got, _ = CalculateRSI(wave(15), 14)
	if c := CountDefined(got); c != 1 || math.IsNaN(got[14]) {
		t.Errorf("15 closes: expected exactly index 14 defined, got %v", got)
	}
}

func TestRSI_AlwaysInRange(t *testing.T) {
	values := wave(300)
	for i := range values {
		if i%17 == 0 {
			values[i] *= 1.3
		}
		if i%23 == 0 {
			values[i] *= 0.7
		}
	}
	for _, p := range []int{2, 5, 14, 30} {
		got, _ := CalculateRSI(values, p)
		for i, v := range got {
			if math.IsNaN(v) {
				continue
			}
			if v < 0 || v > 100 {
				t.Fatalf("RSI(%d)[%d]=%.4f out of [0,100]", p, i, v)
			}
		}
	}
}

func TestRSI_Extremes(t *testing.T) {
	up := make([]float64, 30)
	flat := make([]float64, 30)
	for i := range up {
		up[i] = 100 + float64(i)
		flat[i] = 42
	}
	rsiUp, _ := CalculateRSI(up, 14)
	if v, _ := LastValue(rsiUp); v != 100 {
		t.Errorf("monotonic rise: RSI=%.2f, want 100", v)
	}
	rsiFlat, _ := CalculateRSI(flat, 14)
	if v, _ := LastValue(rsiFlat); v != 50 {
		t.Errorf("flat series: RSI=%.2f, want 50", v)
	}
}

func TestRSI_MatchesTalib(t *testing.T) {
	values := wave(200)
	got, _ := CalculateRSI(values, 14)
	ref := talib.Rsi(values, 14)
	for i := 14; i < len(values); i++ {
		assertClose(t, "RSI vs talib", got[i], ref[i], 1e-8)
	}
}

func TestRSI_NaNRestartsWarmUp(t *testing.T) {
	values := wave(60)
	values[30] = math.NaN()
	got, _ := CalculateRSI(values, 14)
	if math.IsNaN(got[29]) {
		t.Error("RSI before the gap should be defined")
	}
	for i := 30; i < 45; i++ {
		if !math.IsNaN(got[i]) {
			t.Errorf("RSI[%d] should be missing during warm-up after the gap", i)
		}
	}
	if math.IsNaN(got[45]) {
		t.Error("RSI should be defined again 14 changes after the gap")
	}
}
