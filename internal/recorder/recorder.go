package recorder

import (
	"math"
	"strings"
	"time"

	"MarketPulse/internal/model"
)

// SignalSnapshot is the headline of one analysis. Missing values are NaN.
type SignalSnapshot struct {
	Symbol   string
	BarTime  time.Time
	Close    float64
	Label    model.SignalLabel
	Buy      int
	Sell     int
	Neutral  int
	RSI      float64
	MACD     float64
	ADX      float64
	Pivot    float64
	Patterns []model.Pattern
}

// SignalChange records a headline label flip for a symbol.
type SignalChange struct {
	Symbol  string
	BarTime time.Time
	From    model.SignalLabel
	To      model.SignalLabel
	Close   float64
}

// SnapshotFromAnalysis extracts the recorded fields from an analysis.
func SnapshotFromAnalysis(a *model.Analysis) *SignalSnapshot {
	s := &SignalSnapshot{
		Symbol:   a.Symbol,
		BarTime:  a.LastTime,
		Close:    a.LastClose,
		Label:    a.Latest.Label,
		Buy:      a.Latest.Buy,
		Sell:     a.Latest.Sell,
		Neutral:  a.Latest.Neutral,
		RSI:      math.NaN(),
		MACD:     math.NaN(),
		ADX:      a.Trend.Value,
		Pivot:    math.NaN(),
		Patterns: a.Patterns,
	}
	if a.Indicators != nil {
		latest := a.Indicators.Latest()
		for _, name := range a.Indicators.Names {
			if strings.HasPrefix(name, "RSI_") {
				s.RSI = latest[name]
				break
			}
		}
		if v, ok := latest[model.MACDLine]; ok {
			s.MACD = v
		}
	}
	if a.Pivots.Available {
		s.Pivot = a.Pivots.Classic.Pivot
	}
	return s
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordSnapshot(snap *SignalSnapshot) error
	RecordSignalChange(evt *SignalChange) error
	History(symbol string, limit int) ([]SignalSnapshot, error)
	Close() error
}
