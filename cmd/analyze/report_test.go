package main

import (
	"bytes"
	"strings"
	"testing"

	"MarketPulse/internal/collector"
	"MarketPulse/internal/engine"
)

const csvInput = `Date,Open,High,Low,Close,Volume
2024-01-02,10,11,9,10.5,100
2024-01-03,10.5,12,10,11.5,120
2024-01-04,11.5,12,11,11.6,bad
2024-01-05,11.6,13,11,12.9,130
2024-01-08,12.9,13,12.8,12.95,90
`

func TestReport(t *testing.T) {
	bars, err := collector.ParseCSV(strings.NewReader(csvInput))
	if err != nil {
		t.Fatal(err)
	}
	cfg := engine.DefaultConfig()
	cfg.MAWindows = []int{3}
	cfg.Crosses = []engine.CrossPair{{Kind: "sma", Short: 2, Long: 3}}
	cfg.RSIWindow = 3
	a, err := engine.Analyze("TEST", bars, cfg)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	writeDescribe(&buf, bars)
	writeLatest(&buf, a)
	writeSignals(&buf, a, 2)
	writePivots(&buf, a)
	writePatterns(&buf, a)
	out := buf.String()

	for _, want := range []string{"== Summary ==", "Volume", "== TEST: 5 bars", "SMA_3", "== Pivots ==", "classic", "== Patterns =="} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// tail=2 keeps only the last two dates
	if strings.Contains(out, "2024-01-04") || !strings.Contains(out, "2024-01-08") {
		t.Errorf("unexpected signal tail:\n%s", out)
	}
	// last bar: a 0.05 up body on a 0.2 range is a hammer
	if !strings.Contains(out, "HAMMER") {
		t.Errorf("expected HAMMER on the last bar:\n%s", out)
	}
}

func TestSymbolFromPath(t *testing.T) {
	tests := map[string]string{
		"data/prices/SPY.csv": "SPY",
		"spy.csv":             "SPY",
		"qqq":                 "QQQ",
	}
	for path, want := range tests {
		if got := symbolFromPath(path); got != want {
			t.Errorf("symbolFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
