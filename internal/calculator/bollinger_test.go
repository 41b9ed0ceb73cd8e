package calculator

import (
	"math"
	"testing"

	"github.com/markcheno/go-talib"
)

func TestBollinger_Correctness(t *testing.T) {
	// mean 3, population variance 2
	got, err := CalculateBollinger([]float64{1, 2, 3, 4, 5}, 5, 2)
	if err != nil {
		t.Fatal(err)
	}
	assertMissing(t, "middle", got.Middle, 0, 3)
	assertClose(t, "middle", got.Middle[4], 3, 1e-12)
	assertClose(t, "upper", got.Upper[4], 3+2*math.Sqrt2, 1e-12)
	assertClose(t, "lower", got.Lower[4], 3-2*math.Sqrt2, 1e-12)
}

func TestBollinger_MatchesTalib(t *testing.T) {
	values := wave(100)
	got, _ := CalculateBollinger(values, 20, 2)
	upper, middle, lower := talib.BBands(values, 20, 2, 2, talib.SMA)
	for i := 19; i < len(values); i++ {
		assertClose(t, "upper vs talib", got.Upper[i], upper[i], 1e-6)
		assertClose(t, "middle vs talib", got.Middle[i], middle[i], 1e-6)
		assertClose(t, "lower vs talib", got.Lower[i], lower[i], 1e-6)
	}
}

func TestBollinger_InvalidMultiplier(t *testing.T) {
	for _, k := range []float64{0, -1, math.NaN()} {
		if _, err := CalculateBollinger(wave(30), 20, k); err == nil {
			t.Errorf("k=%v: expected error", k)
		}
	}
}
