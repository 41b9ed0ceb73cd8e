package model

import "time"

// SignalLabel is the discrete three-way signal.
type SignalLabel string

const (
	SignalBuy     SignalLabel = "BUY"
	SignalSell    SignalLabel = "SELL"
	SignalNeutral SignalLabel = "NEUTRAL"
)

// Pattern is a single-candle pattern name.
type Pattern string

const (
	PatternDoji       Pattern = "DOJI"
	PatternHammer     Pattern = "HAMMER"
	PatternHangingMan Pattern = "HANGING_MAN"
)

// Vote is one indicator's directional opinion for a bar.
type Vote struct {
	Indicator string
	Label     SignalLabel
}

// BarSignal is the tallied signal for one bar.
type BarSignal struct {
	Label   SignalLabel
	Votes   []Vote
	Buy     int
	Sell    int
	Neutral int
}

// Advisory is a standalone indicator row that does not take part in the tally.
type Advisory struct {
	Indicator string
	Available bool
	Value     float64
	Label     SignalLabel
}

// Analysis is the complete engine output for one series.
type Analysis struct {
	Symbol     string
	Bars       int
	LastTime   time.Time
	LastClose  float64
	Times      []time.Time
	Indicators *IndicatorSet
	Signals    []BarSignal
	Latest     BarSignal
	Trend      Advisory
	Pivots     PivotLevels
	Patterns   []Pattern
	Range      RangeStats
}
