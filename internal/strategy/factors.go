package strategy

import (
	"math"

	"MarketPulse/internal/model"
)

// compare votes Buy when a > b, Sell when a < b, Neutral when equal.
func compare(a, b float64) model.SignalLabel {
	switch {
	case a > b:
		return model.SignalBuy
	case a < b:
		return model.SignalSell
	default:
		return model.SignalNeutral
	}
}

// voteCross compares a short moving average against a longer one.
func voteCross(short, long float64) model.SignalLabel {
	return compare(short, long)
}

// voteRSI: oversold is a Buy, overbought a Sell.
func voteRSI(rsi float64, th Thresholds) model.SignalLabel {
	switch {
	case rsi < th.Oversold:
		return model.SignalBuy
	case rsi > th.Overbought:
		return model.SignalSell
	default:
		return model.SignalNeutral
	}
}

// voteMACD compares the MACD line against its signal line.
func voteMACD(line, signal float64) model.SignalLabel {
	return compare(line, signal)
}

// voteBollinger: a close below the lower band is a Buy, above the upper band a Sell.
func voteBollinger(close, upper, lower float64) model.SignalLabel {
	switch {
	case close < lower:
		return model.SignalBuy
	case close > upper:
		return model.SignalSell
	default:
		return model.SignalNeutral
	}
}

// votePivot: a close above the pivot is read as bullish bias. Against the
// bar's own classic pivot P=(H+L+C)/3, C > P holds exactly when C is above
// the bar's mid-range (H+L)/2, so the vote measures where the close sits in
// the bar's range.
func votePivot(close, pivot float64) model.SignalLabel {
	return compare(close, pivot)
}

// trendLabel reports Buy ("trend present") when ADX exceeds the threshold.
func trendLabel(adx float64, th Thresholds) model.SignalLabel {
	if adx > th.TrendADX {
		return model.SignalBuy
	}
	return model.SignalNeutral
}

func defined(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}
