package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"time"

	"MarketPulse/internal/model"
	platformhttp "MarketPulse/internal/platform/http"
)

// RESTFetcher implements Fetcher against a generic bars endpoint:
// GET {base}/api/v1/bars/{daily|weekly}?symbol=..&limit=.. returning a JSON array.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *platformhttp.Client
}

// NewRESTFetcher creates a new fetcher for a self-hosted bars API.
func NewRESTFetcher(baseURL, apiKey string, client *platformhttp.Client) *RESTFetcher {
	return &RESTFetcher{BaseURL: baseURL, APIKey: apiKey, Client: client}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape from the bars API. Pointers let
// missing fields decode as NaN instead of zero.
type restBar struct {
	Timestamp int64    `json:"timestamp"`
	Open      *float64 `json:"open"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Close     *float64 `json:"close"`
	Volume    *float64 `json:"volume"`
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func (f *RESTFetcher) FetchBars(ctx context.Context, symbol, interval, rng string) (model.Series, error) {
	days := rangeDays(rng)
	switch interval {
	case "1wk":
		bars, err := f.fetchBars(ctx, "weekly", symbol, days/7+1)
		if err == nil {
			return bars, nil
		}
		// Fallback: fetch daily bars and aggregate to weekly
		daily, dailyErr := f.fetchBars(ctx, "daily", symbol, days)
		if dailyErr != nil {
			return nil, fmt.Errorf("weekly fetch failed: %w; daily fallback also failed: %w", err, dailyErr)
		}
		return aggregateDailyToWeekly(daily), nil
	case "1d", "":
		return f.fetchBars(ctx, "daily", symbol, days)
	default:
		return nil, fmt.Errorf("rest: interval %q not supported", interval)
	}
}

func (f *RESTFetcher) fetchBars(ctx context.Context, kind, symbol string, limit int) (model.Series, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars/%s?symbol=%s&limit=%d", f.BaseURL, kind, url.QueryEscape(symbol), limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.DoRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()

	var raw []restBar
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("rest %s: %w", symbol, ErrNoData)
	}
	bars := make(model.Series, len(raw))
	for i, rb := range raw {
		bars[i] = model.OHLCV{
			Time:   time.Unix(rb.Timestamp, 0).UTC(),
			Open:   orNaN(rb.Open),
			High:   orNaN(rb.High),
			Low:    orNaN(rb.Low),
			Close:  orNaN(rb.Close),
			Volume: orNaN(rb.Volume),
		}
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// rangeDays converts a chart range such as "6mo" or "2y" to calendar days.
func rangeDays(rng string) int {
	switch rng {
	case "1mo":
		return 30
	case "3mo":
		return 90
	case "6mo":
		return 180
	case "1y":
		return 365
	case "5y":
		return 5 * 365
	default:
		return 2 * 365
	}
}

// aggregateDailyToWeekly converts daily bars into ISO-week bars. NaN values
// are skipped: the open is the first valid open, the close the last valid
// close and the volume the sum of valid volumes. A field stays NaN only
// when no bar of the week has it.
func aggregateDailyToWeekly(daily model.Series) model.Series {
	if len(daily) == 0 {
		return nil
	}
	var weekly model.Series
	week := daily[0]
	wy, ww := week.Time.ISOWeek()

	for _, d := range daily[1:] {
		y, w := d.Time.ISOWeek()
		if y != wy || w != ww {
			weekly = append(weekly, week)
			week, wy, ww = d, y, w
			continue
		}
		if math.IsNaN(week.Open) {
			week.Open = d.Open
		}
		if d.High > week.High || math.IsNaN(week.High) {
			week.High = d.High
		}
		if d.Low < week.Low || math.IsNaN(week.Low) {
			week.Low = d.Low
		}
		if !math.IsNaN(d.Close) {
			week.Close = d.Close
		}
		switch {
		case math.IsNaN(d.Volume):
		case math.IsNaN(week.Volume):
			week.Volume = d.Volume
		default:
			week.Volume += d.Volume
		}
	}
	return append(weekly, week)
}
