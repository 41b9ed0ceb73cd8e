package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"MarketPulse/internal/model"
)

func TestObserveAnalysis(t *testing.T) {
	m := New()
	m.ObserveAnalysis(&model.Analysis{Symbol: "SPY", Bars: 250, Latest: model.BarSignal{Label: model.SignalSell}})
	m.ObserveAnalysis(&model.Analysis{Symbol: "QQQ", Bars: 10, Latest: model.BarSignal{Label: model.SignalBuy}})

	if got := testutil.ToFloat64(m.SignalLabel.WithLabelValues("SPY")); got != -1 {
		t.Errorf("SPY signal gauge = %v, want -1", got)
	}
	if got := testutil.ToFloat64(m.SignalLabel.WithLabelValues("QQQ")); got != 1 {
		t.Errorf("QQQ signal gauge = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.BarsAnalyzed.WithLabelValues("SPY")); got != 250 {
		t.Errorf("bars gauge = %v", got)
	}
}

func TestCounters(t *testing.T) {
	m := New()
	m.CyclesTotal.Inc()
	m.FetchErrors.WithLabelValues("X").Add(2)
	if got := testutil.ToFloat64(m.CyclesTotal); got != 1 {
		t.Errorf("cycles = %v", got)
	}
	if got := testutil.ToFloat64(m.FetchErrors.WithLabelValues("X")); got != 2 {
		t.Errorf("fetch errors = %v", got)
	}
}
