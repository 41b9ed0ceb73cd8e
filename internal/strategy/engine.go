package strategy

import (
	"math"

	"MarketPulse/internal/calculator"
	"MarketPulse/internal/model"
)

// Thresholds configures the RSI vote and the ADX advisory.
type Thresholds struct {
	Oversold   float64
	Overbought float64
	TrendADX   float64
}

// DefaultThresholds are the conventional 30/70 RSI bounds and ADX 25.
var DefaultThresholds = Thresholds{Oversold: 30, Overbought: 70, TrendADX: 25}

// CrossRule compares two moving-average series by name.
type CrossRule struct {
	Name  string
	Short string
	Long  string
}

// Inputs names the indicator series that take part in the vote. An empty
// name or a false flag leaves that indicator out.
type Inputs struct {
	Bars       model.Series
	Indicators *model.IndicatorSet
	Crosses    []CrossRule
	RSI        string
	MACD       bool
	Bollinger  bool
	Pivot      bool
	ADX        string
	Thresholds Thresholds
}

// Tally counts votes per label. A label wins only with strictly more votes
// than each of the other two; every other outcome is Neutral.
func Tally(votes []model.Vote) model.BarSignal {
	sig := model.BarSignal{Votes: votes, Label: model.SignalNeutral}
	for _, v := range votes {
		switch v.Label {
		case model.SignalBuy:
			sig.Buy++
		case model.SignalSell:
			sig.Sell++
		default:
			sig.Neutral++
		}
	}
	switch {
	case sig.Buy > sig.Sell && sig.Buy > sig.Neutral:
		sig.Label = model.SignalBuy
	case sig.Sell > sig.Buy && sig.Sell > sig.Neutral:
		sig.Label = model.SignalSell
	}
	return sig
}

// Votes collects the votes of every participating indicator at bar i.
// Indicators whose value is missing at i do not vote.
func Votes(in *Inputs, i int) []model.Vote {
	votes := make([]model.Vote, 0, len(in.Crosses)+4)
	ind := in.Indicators
	price := math.NaN()
	if i >= 0 && i < len(in.Bars) {
		price = in.Bars[i].Close
	}

	for _, c := range in.Crosses {
		short, ok1 := ind.At(c.Short, i)
		long, ok2 := ind.At(c.Long, i)
		if ok1 && ok2 {
			votes = append(votes, model.Vote{Indicator: c.Name, Label: voteCross(short, long)})
		}
	}

	if in.RSI != "" {
		if rsi, ok := ind.At(in.RSI, i); ok {
			votes = append(votes, model.Vote{Indicator: in.RSI, Label: voteRSI(rsi, in.Thresholds)})
		}
	}

	if in.MACD {
		line, ok1 := ind.At(model.MACDLine, i)
		signal, ok2 := ind.At(model.MACDSignal, i)
		if ok1 && ok2 {
			votes = append(votes, model.Vote{Indicator: model.MACDLine, Label: voteMACD(line, signal)})
		}
	}

	if in.Bollinger {
		upper, ok1 := ind.At(model.BBUpper, i)
		lower, ok2 := ind.At(model.BBLower, i)
		if ok1 && ok2 && defined(price) {
			votes = append(votes, model.Vote{Indicator: "BOLLINGER", Label: voteBollinger(price, upper, lower)})
		}
	}

	if in.Pivot && i >= 0 && i < len(in.Bars) {
		if pv := calculator.CalculatePivots(in.Bars[i]); pv.Available {
			votes = append(votes, model.Vote{Indicator: "PIVOT", Label: votePivot(price, pv.Classic.Pivot)})
		}
	}
	return votes
}

// EvaluateBar returns the tallied signal for bar i.
func EvaluateBar(in *Inputs, i int) model.BarSignal {
	return Tally(Votes(in, i))
}

// EvaluateSeries returns one tallied signal per bar.
func EvaluateSeries(in *Inputs) []model.BarSignal {
	out := make([]model.BarSignal, len(in.Bars))
	for i := range in.Bars {
		out[i] = EvaluateBar(in, i)
	}
	return out
}

// TrendAdvisory reports ADX trend strength at bar i as a standalone row.
func TrendAdvisory(in *Inputs, i int) model.Advisory {
	adv := model.Advisory{Indicator: in.ADX, Value: math.NaN(), Label: model.SignalNeutral}
	if in.ADX == "" {
		return adv
	}
	if adx, ok := in.Indicators.At(in.ADX, i); ok {
		adv.Available = true
		adv.Value = adx
		adv.Label = trendLabel(adx, in.Thresholds)
	}
	return adv
}
