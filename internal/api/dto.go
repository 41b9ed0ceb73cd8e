package api

import (
	"math"
	"time"

	"MarketPulse/internal/model"
	"MarketPulse/internal/recorder"
)

// JSON has no NaN, so missing values are encoded as null through *float64.
func num(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func nums(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		out[i] = num(v)
	}
	return out
}

type voteDTO struct {
	Indicator string            `json:"indicator"`
	Label     model.SignalLabel `json:"label"`
}

type signalDTO struct {
	Time    *time.Time        `json:"time,omitempty"`
	Label   model.SignalLabel `json:"label"`
	Buy     int               `json:"buy"`
	Sell    int               `json:"sell"`
	Neutral int               `json:"neutral"`
	Votes   []voteDTO         `json:"votes,omitempty"`
}

type levelsDTO struct {
	Pivot *float64 `json:"pivot"`
	R1    *float64 `json:"r1"`
	R2    *float64 `json:"r2"`
	R3    *float64 `json:"r3"`
	S1    *float64 `json:"s1"`
	S2    *float64 `json:"s2"`
	S3    *float64 `json:"s3"`
}

type pivotsDTO struct {
	Available bool       `json:"available"`
	Classic   *levelsDTO `json:"classic,omitempty"`
	Fibonacci *levelsDTO `json:"fibonacci,omitempty"`
}

type advisoryDTO struct {
	Indicator string            `json:"indicator,omitempty"`
	Available bool              `json:"available"`
	Value     *float64          `json:"value"`
	Label     model.SignalLabel `json:"label"`
}

type rangeDTO struct {
	Available bool     `json:"available"`
	Lookback  int      `json:"lookback"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Position  *float64 `json:"position"`
}

type latestDTO struct {
	Symbol     string              `json:"symbol"`
	Bars       int                 `json:"bars"`
	LastTime   *time.Time          `json:"last_time,omitempty"`
	LastClose  *float64            `json:"last_close"`
	Signal     signalDTO           `json:"signal"`
	Trend      advisoryDTO         `json:"trend"`
	Pivots     pivotsDTO           `json:"pivots"`
	Patterns   []model.Pattern     `json:"patterns"`
	Range      rangeDTO            `json:"range"`
	Indicators map[string]*float64 `json:"indicators"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

type analysisDTO struct {
	latestDTO
	Times   []time.Time           `json:"times"`
	Order   []string              `json:"order"`
	Series  map[string][]*float64 `json:"series"`
	Signals []signalDTO           `json:"signals"`
}

func levels(l model.Levels) *levelsDTO {
	return &levelsDTO{
		Pivot: num(l.Pivot),
		R1:    num(l.R1),
		R2:    num(l.R2),
		R3:    num(l.R3),
		S1:    num(l.S1),
		S2:    num(l.S2),
		S3:    num(l.S3),
	}
}

func signal(s model.BarSignal, withVotes bool) signalDTO {
	out := signalDTO{Label: s.Label, Buy: s.Buy, Sell: s.Sell, Neutral: s.Neutral}
	if withVotes {
		out.Votes = make([]voteDTO, len(s.Votes))
		for i, v := range s.Votes {
			out.Votes[i] = voteDTO{Indicator: v.Indicator, Label: v.Label}
		}
	}
	return out
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func newLatest(a *model.Analysis, updated time.Time) latestDTO {
	out := latestDTO{
		Symbol:    a.Symbol,
		Bars:      a.Bars,
		LastTime:  timePtr(a.LastTime),
		LastClose: num(a.LastClose),
		Signal:    signal(a.Latest, true),
		Trend: advisoryDTO{
			Indicator: a.Trend.Indicator,
			Available: a.Trend.Available,
			Value:     num(a.Trend.Value),
			Label:     a.Trend.Label,
		},
		Pivots:   pivotsDTO{Available: a.Pivots.Available},
		Patterns: a.Patterns,
		Range: rangeDTO{
			Available: a.Range.Available,
			Lookback:  a.Range.Lookback,
			High:      num(a.Range.High),
			Low:       num(a.Range.Low),
			Position:  num(a.Range.Position),
		},
		Indicators: map[string]*float64{},
		UpdatedAt:  updated,
	}
	if out.Patterns == nil {
		out.Patterns = []model.Pattern{}
	}
	if a.Pivots.Available {
		out.Pivots.Classic = levels(a.Pivots.Classic)
		out.Pivots.Fibonacci = levels(a.Pivots.Fibonacci)
	}
	if a.Indicators != nil {
		for name, v := range a.Indicators.Latest() {
			out.Indicators[name] = num(v)
		}
	}
	return out
}

// newAnalysis renders the last tail bars of every series; tail <= 0 means all.
func newAnalysis(a *model.Analysis, updated time.Time, tail int) analysisDTO {
	out := analysisDTO{latestDTO: newLatest(a, updated), Series: map[string][]*float64{}}
	start := 0
	if tail > 0 && tail < a.Bars {
		start = a.Bars - tail
	}
	if start < len(a.Times) {
		out.Times = a.Times[start:]
	}
	if a.Indicators != nil {
		out.Order = a.Indicators.Names
		for _, name := range a.Indicators.Names {
			out.Series[name] = nums(a.Indicators.Series[name][start:])
		}
	}
	out.Signals = make([]signalDTO, 0, len(a.Signals)-start)
	for i := start; i < len(a.Signals); i++ {
		s := signal(a.Signals[i], false)
		if i < len(a.Times) {
			s.Time = timePtr(a.Times[i])
		}
		out.Signals = append(out.Signals, s)
	}
	return out
}

type historyEntryDTO struct {
	Time     time.Time         `json:"time"`
	Close    *float64          `json:"close"`
	Label    model.SignalLabel `json:"label"`
	Buy      int               `json:"buy"`
	Sell     int               `json:"sell"`
	Neutral  int               `json:"neutral"`
	RSI      *float64          `json:"rsi"`
	MACD     *float64          `json:"macd"`
	ADX      *float64          `json:"adx"`
	Pivot    *float64          `json:"pivot"`
	Patterns []model.Pattern   `json:"patterns"`
}

type historyDTO struct {
	Symbol  string            `json:"symbol"`
	Entries []historyEntryDTO `json:"entries"`
}

func newHistory(symbol string, snaps []recorder.SignalSnapshot) historyDTO {
	out := historyDTO{Symbol: symbol, Entries: make([]historyEntryDTO, 0, len(snaps))}
	for _, s := range snaps {
		patterns := s.Patterns
		if patterns == nil {
			patterns = []model.Pattern{}
		}
		out.Entries = append(out.Entries, historyEntryDTO{
			Time:     s.BarTime,
			Close:    num(s.Close),
			Label:    s.Label,
			Buy:      s.Buy,
			Sell:     s.Sell,
			Neutral:  s.Neutral,
			RSI:      num(s.RSI),
			MACD:     num(s.MACD),
			ADX:      num(s.ADX),
			Pivot:    num(s.Pivot),
			Patterns: patterns,
		})
	}
	return out
}
