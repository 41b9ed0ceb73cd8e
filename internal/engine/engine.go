// Package engine turns an OHLC series into indicator series, a per-bar
// Buy/Sell/Neutral signal, pivot levels and candle patterns for the latest
// bar. Analyze is pure: it keeps no state between calls and is safe to call
// from multiple goroutines.
package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"MarketPulse/internal/calculator"
	"MarketPulse/internal/model"
	"MarketPulse/internal/strategy"
)

// SMAName, EMAName etc. build indicator series names.
func SMAName(n int) string     { return fmt.Sprintf("SMA_%d", n) }
func EMAName(n int) string     { return fmt.Sprintf("EMA_%d", n) }
func RSIName(n int) string     { return fmt.Sprintf("RSI_%d", n) }
func ADXName(n int) string     { return fmt.Sprintf("ADX_%d", n) }
func PlusDIName(n int) string  { return fmt.Sprintf("PLUS_DI_%d", n) }
func MinusDIName(n int) string { return fmt.Sprintf("MINUS_DI_%d", n) }

// Analyze validates cfg and computes the full analysis of bars. Only
// configuration problems are errors; short or malformed data produces NaN
// entries and fewer votes.
func Analyze(symbol string, bars model.Series, cfg Config) (*model.Analysis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	set, err := computeIndicators(bars, cfg)
	if err != nil {
		return nil, err
	}

	in := votingInputs(bars, set, cfg)
	signals := strategy.EvaluateSeries(in)

	a := &model.Analysis{
		Symbol:     symbol,
		Bars:       len(bars),
		LastClose:  math.NaN(),
		Times:      make([]time.Time, len(bars)),
		Indicators: set,
		Signals:    signals,
		Latest:     strategy.Tally(nil),
		Trend:      strategy.TrendAdvisory(in, len(bars)-1),
		Patterns:   []model.Pattern{},
		Range:      model.RangeStats{High: math.NaN(), Low: math.NaN(), Position: math.NaN()},
	}

	for i, b := range bars {
		a.Times[i] = b.Time
	}

	last, ok := bars.Last()
	if !ok {
		return a, nil
	}
	a.LastTime = last.Time
	a.LastClose = last.Close
	a.Latest = signals[len(signals)-1]
	if cfg.Families.Pivot {
		a.Pivots = calculator.CalculatePivots(last)
	}
	if cfg.Families.Patterns {
		a.Patterns = calculator.DetectPatterns(last)
	}
	if cfg.RangeLookback > 0 {
		if rs, err := calculator.CalculateRange(bars, cfg.RangeLookback); err == nil {
			a.Range = rs
		}
	}
	return a, nil
}

func computeIndicators(bars model.Series, cfg Config) (*model.IndicatorSet, error) {
	closes := bars.Closes()
	set := model.NewIndicatorSet(len(bars))

	if cfg.Families.SMA {
		for _, w := range maWindows(cfg, "sma") {
			sma, err := calculator.CalculateSMA(closes, w)
			if err != nil {
				return nil, fmt.Errorf("sma %d: %w", w, err)
			}
			set.Add(SMAName(w), sma)
		}
	}

	if cfg.Families.EMA {
		for _, w := range maWindows(cfg, "ema") {
			ema, err := calculator.CalculateEMA(closes, w)
			if err != nil {
				return nil, fmt.Errorf("ema %d: %w", w, err)
			}
			set.Add(EMAName(w), ema)
		}
	}

	if cfg.Families.RSI {
		rsi, err := calculator.CalculateRSI(closes, cfg.RSIWindow)
		if err != nil {
			return nil, fmt.Errorf("rsi: %w", err)
		}
		set.Add(RSIName(cfg.RSIWindow), rsi)
	}

	if cfg.Families.MACD {
		m, err := calculator.CalculateMACD(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
		if err != nil {
			return nil, fmt.Errorf("macd: %w", err)
		}
		set.Add(model.MACDLine, m.Line)
		set.Add(model.MACDSignal, m.Signal)
		set.Add(model.MACDHistogram, m.Histogram)
	}

	if cfg.Families.Bollinger {
		bb, err := calculator.CalculateBollinger(closes, cfg.BollingerWindow, cfg.BollingerK)
		if err != nil {
			return nil, fmt.Errorf("bollinger: %w", err)
		}
		set.Add(model.BBUpper, bb.Upper)
		set.Add(model.BBMiddle, bb.Middle)
		set.Add(model.BBLower, bb.Lower)
	}

	if cfg.Families.ADX {
		adx, err := calculator.CalculateADX(bars, cfg.ADXWindow)
		if err != nil {
			return nil, fmt.Errorf("adx: %w", err)
		}
		set.Add(ADXName(cfg.ADXWindow), adx.ADX)
		set.Add(PlusDIName(cfg.ADXWindow), adx.PlusDI)
		set.Add(MinusDIName(cfg.ADXWindow), adx.MinusDI)
	}
	return set, nil
}

// maWindows merges the configured MA windows with the ones a cross pair of
// the given kind needs, sorted ascending and without duplicates.
func maWindows(cfg Config, kind string) []int {
	seen := make(map[int]bool)
	var out []int
	add := func(w int) {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	for _, w := range cfg.MAWindows {
		add(w)
	}
	for _, p := range cfg.Crosses {
		if strings.EqualFold(p.Kind, kind) {
			add(p.Short)
			add(p.Long)
		}
	}
	sort.Ints(out)
	return out
}

func votingInputs(bars model.Series, set *model.IndicatorSet, cfg Config) *strategy.Inputs {
	in := &strategy.Inputs{
		Bars:       bars,
		Indicators: set,
		MACD:       cfg.Families.MACD,
		Bollinger:  cfg.Families.Bollinger,
		Pivot:      cfg.Families.Pivot,
		Thresholds: strategy.Thresholds{
			Oversold:   cfg.Oversold,
			Overbought: cfg.Overbought,
			TrendADX:   cfg.TrendADX,
		},
	}
	for _, p := range cfg.Crosses {
		var short, long string
		switch strings.ToLower(p.Kind) {
		case "sma":
			if !cfg.Families.SMA {
				continue
			}
			short, long = SMAName(p.Short), SMAName(p.Long)
		case "ema":
			if !cfg.Families.EMA {
				continue
			}
			short, long = EMAName(p.Short), EMAName(p.Long)
		}
		in.Crosses = append(in.Crosses, strategy.CrossRule{Name: short + "/" + long, Short: short, Long: long})
	}
	if cfg.Families.RSI {
		in.RSI = RSIName(cfg.RSIWindow)
	}
	if cfg.Families.ADX {
		in.ADX = ADXName(cfg.ADXWindow)
	}
	return in
}
