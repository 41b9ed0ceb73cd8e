package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid engine configuration")

// CrossPair compares a short moving average against a longer one.
type CrossPair struct {
	Kind  string `yaml:"kind"` // "sma" or "ema"
	Short int    `yaml:"short"`
	Long  int    `yaml:"long"`
}

// Families toggles which indicator families are computed and vote.
type Families struct {
	SMA       bool `yaml:"sma"`
	EMA       bool `yaml:"ema"`
	RSI       bool `yaml:"rsi"`
	MACD      bool `yaml:"macd"`
	Bollinger bool `yaml:"bollinger"`
	ADX       bool `yaml:"adx"`
	Pivot     bool `yaml:"pivot"`
	Patterns  bool `yaml:"patterns"`
}

// Config holds window lengths and thresholds for one engine call.
type Config struct {
	MAWindows       []int       `yaml:"ma_windows"`
	Crosses         []CrossPair `yaml:"crosses"`
	RSIWindow       int         `yaml:"rsi_window"`
	MACDFast        int         `yaml:"macd_fast"`
	MACDSlow        int         `yaml:"macd_slow"`
	MACDSignal      int         `yaml:"macd_signal"`
	BollingerWindow int         `yaml:"bollinger_window"`
	BollingerK      float64     `yaml:"bollinger_k"`
	ADXWindow       int         `yaml:"adx_window"`
	RangeLookback   int         `yaml:"range_lookback"`
	Oversold        float64     `yaml:"rsi_oversold"`
	Overbought      float64     `yaml:"rsi_overbought"`
	TrendADX        float64     `yaml:"adx_trend"`
	Families        Families    `yaml:"families"`
}

// DefaultConfig returns the conventional parameter set: MAs 5/10/20/50/200,
// RSI 14, MACD 12/26/9, Bollinger 20/2, ADX 14, with SMA5/10 and EMA5/10 crosses.
func DefaultConfig() Config {
	return Config{
		MAWindows: []int{5, 10, 20, 50, 200},
		Crosses: []CrossPair{
			{Kind: "sma", Short: 5, Long: 10},
			{Kind: "ema", Short: 5, Long: 10},
		},
		RSIWindow:       14,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
		BollingerWindow: 20,
		BollingerK:      2,
		ADXWindow:       14,
		RangeLookback:   252,
		Oversold:        30,
		Overbought:      70,
		TrendADX:        25,
		Families: Families{
			SMA: true, EMA: true, RSI: true, MACD: true,
			Bollinger: true, ADX: true, Pivot: true, Patterns: true,
		},
	}
}

// Validate rejects non-positive windows and inconsistent thresholds.
func (c Config) Validate() error {
	for _, w := range c.MAWindows {
		if w <= 0 {
			return fmt.Errorf("%w: ma window must be positive, got %d", ErrInvalidConfig, w)
		}
	}
	for _, p := range c.Crosses {
		kind := strings.ToLower(p.Kind)
		if kind != "sma" && kind != "ema" {
			return fmt.Errorf("%w: cross kind must be sma or ema, got %q", ErrInvalidConfig, p.Kind)
		}
		if p.Short <= 0 || p.Long <= 0 {
			return fmt.Errorf("%w: cross windows must be positive, got %d/%d", ErrInvalidConfig, p.Short, p.Long)
		}
		if p.Short >= p.Long {
			return fmt.Errorf("%w: cross short window %d must be below long window %d", ErrInvalidConfig, p.Short, p.Long)
		}
	}
	if c.Families.RSI && c.RSIWindow <= 0 {
		return fmt.Errorf("%w: rsi_window must be positive, got %d", ErrInvalidConfig, c.RSIWindow)
	}
	if c.Families.MACD {
		if c.MACDFast <= 0 || c.MACDSlow <= 0 || c.MACDSignal <= 0 {
			return fmt.Errorf("%w: macd periods must be positive, got %d/%d/%d", ErrInvalidConfig, c.MACDFast, c.MACDSlow, c.MACDSignal)
		}
		if c.MACDFast >= c.MACDSlow {
			return fmt.Errorf("%w: macd_fast %d must be below macd_slow %d", ErrInvalidConfig, c.MACDFast, c.MACDSlow)
		}
	}
	if c.Families.Bollinger {
		if c.BollingerWindow <= 0 {
			return fmt.Errorf("%w: bollinger_window must be positive, got %d", ErrInvalidConfig, c.BollingerWindow)
		}
		if !(c.BollingerK > 0) {
			return fmt.Errorf("%w: bollinger_k must be positive, got %v", ErrInvalidConfig, c.BollingerK)
		}
	}
	if c.Families.ADX && c.ADXWindow <= 0 {
		return fmt.Errorf("%w: adx_window must be positive, got %d", ErrInvalidConfig, c.ADXWindow)
	}
	if c.RangeLookback < 0 {
		return fmt.Errorf("%w: range_lookback must not be negative, got %d", ErrInvalidConfig, c.RangeLookback)
	}
	if !inPercent(c.Oversold) || !inPercent(c.Overbought) || c.Oversold >= c.Overbought {
		return fmt.Errorf("%w: rsi thresholds must satisfy 0 <= oversold < overbought <= 100, got %v/%v", ErrInvalidConfig, c.Oversold, c.Overbought)
	}
	if !inPercent(c.TrendADX) {
		return fmt.Errorf("%w: adx_trend must be within [0,100], got %v", ErrInvalidConfig, c.TrendADX)
	}
	return nil
}

func inPercent(v float64) bool {
	return v >= 0 && v <= 100
}
