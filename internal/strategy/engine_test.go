package strategy

import (
	"math"
	"testing"

	"MarketPulse/internal/model"
)

func votes(labels ...model.SignalLabel) []model.Vote {
	out := make([]model.Vote, len(labels))
	for i, l := range labels {
		out[i] = model.Vote{Indicator: "V", Label: l}
	}
	return out
}

const (
	buy     = model.SignalBuy
	sell    = model.SignalSell
	neutral = model.SignalNeutral
)

func TestTally_AllBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		votes []model.Vote
		label model.SignalLabel
	}{
		{"no votes", nil, neutral},
		{"3-1-1 buy", votes(buy, buy, buy, sell, neutral), buy},
		{"2-2-1 tie", votes(buy, buy, sell, sell, neutral), neutral},
		{"1-3-1 sell", votes(buy, sell, sell, sell, neutral), sell},
		{"2-1-2 tie with neutral", votes(buy, buy, sell, neutral, neutral), neutral},
		{"1-1-3 neutral majority", votes(buy, sell, neutral, neutral, neutral), neutral},
		{"single buy", votes(buy), buy},
		{"1-1 tie", votes(buy, sell), neutral},
		{"2-1 sell", votes(sell, sell, buy), sell},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := Tally(tt.votes)
			if sig.Label != tt.label {
				t.Errorf("expected %s, got %s (buy=%d sell=%d neutral=%d)", tt.label, sig.Label, sig.Buy, sig.Sell, sig.Neutral)
			}
			if sig.Buy+sig.Sell+sig.Neutral != len(tt.votes) {
				t.Errorf("counts do not add up to %d votes", len(tt.votes))
			}
		})
	}
}

func TestVoteRSI_Thresholds(t *testing.T) {
	tests := []struct {
		rsi   float64
		label model.SignalLabel
	}{
		{10, buy},
		{29.99, buy},
		{30, neutral},
		{50, neutral},
		{70, neutral},
		{70.01, sell},
		{95, sell},
	}
	for _, tt := range tests {
		if got := voteRSI(tt.rsi, DefaultThresholds); got != tt.label {
			t.Errorf("rsi %.2f: expected %s, got %s", tt.rsi, tt.label, got)
		}
	}
}

func TestVoteBollinger(t *testing.T) {
	if voteBollinger(79, 120, 80) != buy {
		t.Error("close below lower band should be a buy")
	}
	if voteBollinger(121, 120, 80) != sell {
		t.Error("close above upper band should be a sell")
	}
	if voteBollinger(80, 120, 80) != neutral {
		t.Error("close on the band should be neutral")
	}
}

// syntheticInputs builds a single-bar scenario with hand-picked indicator values.
func syntheticInputs(bar model.OHLCV, values map[string]float64) *Inputs {
	set := model.NewIndicatorSet(1)
	for _, name := range []string{"SMA_5", "SMA_10", "RSI_14", model.MACDLine, model.MACDSignal, model.BBUpper, model.BBLower, "ADX_14"} {
		v, ok := values[name]
		if !ok {
			v = math.NaN()
		}
		set.Add(name, []float64{v})
	}
	return &Inputs{
		Bars:       model.Series{bar},
		Indicators: set,
		Crosses:    []CrossRule{{Name: "SMA_5/SMA_10", Short: "SMA_5", Long: "SMA_10"}},
		RSI:        "RSI_14",
		MACD:       true,
		Bollinger:  true,
		Pivot:      true,
		ADX:        "ADX_14",
		Thresholds: DefaultThresholds,
	}
}

func TestEvaluateBar_ThreeOfFiveBuy(t *testing.T) {
	// pivot = (110+90+95)/3 = 98.33, close 95 below it -> sell
	bar := model.OHLCV{Open: 96, High: 110, Low: 90, Close: 95}
	in := syntheticInputs(bar, map[string]float64{
		"SMA_5": 101, "SMA_10": 100, // buy
		"RSI_14":         25,       // buy
		model.MACDLine:   1.2,      // buy
		model.MACDSignal: 0.8,
		model.BBUpper:    120, // neutral
		model.BBLower:    80,
	})
	sig := EvaluateBar(in, 0)
	if len(sig.Votes) != 5 {
		t.Fatalf("expected 5 votes, got %d", len(sig.Votes))
	}
	if sig.Buy != 3 || sig.Sell != 1 || sig.Neutral != 1 {
		t.Fatalf("expected 3-1-1, got %d-%d-%d", sig.Buy, sig.Sell, sig.Neutral)
	}
	if sig.Label != buy {
		t.Errorf("expected BUY, got %s", sig.Label)
	}
}

func TestEvaluateBar_TwoTwoOneIsNeutral(t *testing.T) {
	bar := model.OHLCV{Open: 96, High: 110, Low: 90, Close: 95}
	in := syntheticInputs(bar, map[string]float64{
		"SMA_5": 101, "SMA_10": 100, // buy
		"RSI_14":         80,       // sell
		model.MACDLine:   1.2,      // buy
		model.MACDSignal: 0.8,
		model.BBUpper:    120, // neutral
		model.BBLower:    80,
	})
	sig := EvaluateBar(in, 0)
	if sig.Label != neutral {
		t.Errorf("expected NEUTRAL for a 2-2-1 split, got %s (%d-%d-%d)", sig.Label, sig.Buy, sig.Sell, sig.Neutral)
	}
}

func TestVotes_MissingValuesAreExcluded(t *testing.T) {
	bar := model.OHLCV{Open: 96, High: 110, Low: 90, Close: 95}
	in := syntheticInputs(bar, map[string]float64{
		"SMA_5":  101, // SMA_10 missing -> no cross vote
		"RSI_14": 25,
	})
	got := Votes(in, 0)
	names := make(map[string]bool)
	for _, v := range got {
		names[v.Indicator] = true
	}
	if len(got) != 2 || !names["RSI_14"] || !names["PIVOT"] {
		t.Errorf("expected only RSI and PIVOT votes, got %+v", got)
	}
}

func TestTrendAdvisory(t *testing.T) {
	bar := model.OHLCV{Open: 96, High: 110, Low: 90, Close: 95}
	strong := TrendAdvisory(syntheticInputs(bar, map[string]float64{"ADX_14": 31}), 0)
	if !strong.Available || strong.Label != buy {
		t.Errorf("ADX 31: expected available BUY, got %+v", strong)
	}
	weak := TrendAdvisory(syntheticInputs(bar, map[string]float64{"ADX_14": 25}), 0)
	if weak.Label != neutral {
		t.Errorf("ADX 25: expected NEUTRAL, got %s", weak.Label)
	}
	missing := TrendAdvisory(syntheticInputs(bar, nil), 0)
	if missing.Available {
		t.Error("missing ADX should not be available")
	}
}

func TestEvaluateSeries_MatchesEvaluateBar(t *testing.T) {
	bars := model.Series{
		{Open: 10, High: 12, Low: 9, Close: 11},
		{Open: 11, High: 11.5, Low: 8, Close: 8.5},
		{Open: 8, High: 9, Low: 7, Close: 8.9},
	}
	set := model.NewIndicatorSet(len(bars))
	set.Add("RSI_14", []float64{math.NaN(), 20, 75})
	in := &Inputs{Bars: bars, Indicators: set, RSI: "RSI_14", Pivot: true, Thresholds: DefaultThresholds}
	series := EvaluateSeries(in)
	if len(series) != len(bars) {
		t.Fatalf("expected %d signals, got %d", len(bars), len(series))
	}
	for i := range bars {
		if series[i].Label != EvaluateBar(in, i).Label {
			t.Errorf("bar %d: series and single-bar evaluation disagree", i)
		}
	}
}

func TestPivotVote_FollowsMidRange(t *testing.T) {
	tests := []struct {
		name string
		bar  model.OHLCV
		want model.SignalLabel
	}{
		{"close above mid-range", model.OHLCV{Open: 95, High: 110, Low: 90, Close: 104}, buy},
		{"close at mid-range", model.OHLCV{Open: 95, High: 110, Low: 90, Close: 100}, neutral},
		{"close below mid-range", model.OHLCV{Open: 95, High: 110, Low: 90, Close: 92}, model.SignalSell},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []model.Vote
			for _, v := range Votes(syntheticInputs(tt.bar, nil), 0) {
				if v.Indicator == "PIVOT" {
					got = append(got, v)
				}
			}
			if len(got) != 1 || got[0].Label != tt.want {
				t.Errorf("pivot votes = %+v, want one %s", got, tt.want)
			}
		})
	}
}
