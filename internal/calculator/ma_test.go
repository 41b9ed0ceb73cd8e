package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/markcheno/go-talib"
)

func TestSMA_Correctness_Period3(t *testing.T) {
	// (100+102+104)/3 = 102, (102+104+103)/3 = 103, (104+103+105)/3 = 104
	got, err := CalculateSMA([]float64{100, 102, 104, 103, 105}, 3)
	if err != nil {
		t.Fatal(err)
	}
	assertMissing(t, "SMA(3)", got, 0, 1)
	assertClose(t, "SMA(3)[2]", got[2], 102, 1e-9)
	assertClose(t, "SMA(3)[3]", got[3], 103, 1e-9)
	assertClose(t, "SMA(3)[4]", got[4], 104, 1e-9)
}

func TestSMA_ShorterThanWindowIsAllMissing(t *testing.T) {
	for n := 0; n < 20; n++ {
		got, err := CalculateSMA(wave(n), 20)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != n {
			t.Fatalf("len=%d, want %d", len(got), n)
		}
		if c := CountDefined(got); c != 0 {
			t.Errorf("n=%d: %d defined values, want 0", n, c)
		}
	}
}

func TestSMA_ExactlyWindowHasOneValue(t *testing.T) {
	values := wave(20)
	got, _ := CalculateSMA(values, 20)
	if c := CountDefined(got); c != 1 {
		t.Fatalf("defined=%d, want 1", c)
	}
	if math.IsNaN(got[19]) {
		t.Fatal("last value should be defined")
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	assertClose(t, "SMA(20)[19]", got[19], sum/20, 1e-9)
}

func TestSMA_NaNOnlyAffectsWindowsContainingIt(t *testing.T) {
	values := wave(10)
	values[5] = math.NaN()
	got, _ := CalculateSMA(values, 3)

	for _, i := range []int{2, 3, 4, 8, 9} {
		if math.IsNaN(got[i]) {
			t.Errorf("SMA[%d] should be defined", i)
		}
	}
	assertMissing(t, "SMA", got, 0, 1, 5, 6, 7)
}

func TestSMA_InvalidPeriod(t *testing.T) {
	for _, p := range []int{0, -3} {
		if _, err := CalculateSMA(wave(10), p); !errors.Is(err, ErrInvalidPeriod) {
			t.Errorf("period %d: expected ErrInvalidPeriod, got %v", p, err)
		}
	}
}

func TestSMA_MatchesTalib(t *testing.T) {
	values := wave(120)
	got, _ := CalculateSMA(values, 10)
	ref := talib.Sma(values, 10)
	for i := 9; i < len(values); i++ {
		assertClose(t, "SMA vs talib", got[i], ref[i], 1e-9)
	}
}

func TestEMA_Correctness_Period3(t *testing.T) {
	// seed = (1+2+3)/3 = 2, alpha = 0.5: 3, 4
	got, err := CalculateEMA([]float64{1, 2, 3, 4, 5}, 3)
	if err != nil {
		t.Fatal(err)
	}
	assertMissing(t, "EMA(3)", got, 0, 1)
	assertClose(t, "EMA(3)[2]", got[2], 2, 1e-12)
	assertClose(t, "EMA(3)[3]", got[3], 3, 1e-12)
	assertClose(t, "EMA(3)[4]", got[4], 4, 1e-12)
}

func TestEMA_ReseedsAfterNaN(t *testing.T) {
	got, _ := CalculateEMA([]float64{1, 2, 3, math.NaN(), 5, 6, 7, 8}, 3)
	assertClose(t, "EMA[2]", got[2], 2, 1e-12)
	assertMissing(t, "EMA", got, 3, 4, 5)
	assertClose(t, "EMA[6]", got[6], 6, 1e-12)
	assertClose(t, "EMA[7]", got[7], 7, 1e-12)
}

func TestEMA_MatchesTalib(t *testing.T) {
	values := wave(150)
	for _, p := range []int{5, 12, 26} {
		got, _ := CalculateEMA(values, p)
		ref := talib.Ema(values, p)
		for i := p - 1; i < len(values); i++ {
			assertClose(t, "EMA vs talib", got[i], ref[i], 1e-9)
		}
	}
}
