package collector

import (
	"context"
	"errors"
	"fmt"

	"MarketPulse/internal/model"
	platformhttp "MarketPulse/internal/platform/http"
)

// ErrNoData is returned when a source has no bars for a symbol.
var ErrNoData = errors.New("no data returned")

// Fetcher defines the interface for fetching market data.
// interval and rng use the Yahoo chart vocabulary ("1d", "1wk", "6mo", "2y").
type Fetcher interface {
	FetchBars(ctx context.Context, symbol, interval, rng string) (model.Series, error)
	Name() string
}

// SourceOptions selects and configures a Fetcher.
type SourceOptions struct {
	Provider       string // yahoo, rest or csv
	BaseURL        string
	APIKey         string
	CSVDir         string
	ProxyURL       string
	RequestsPerSec int
	MaxRetries     int
}

// NewFetcher builds the Fetcher named by opts.Provider.
func NewFetcher(opts SourceOptions) (Fetcher, error) {
	client := platformhttp.NewClient(platformhttp.ClientOptions{
		RequestsPerSec: opts.RequestsPerSec,
		MaxRetries:     opts.MaxRetries,
		ProxyURL:       opts.ProxyURL,
	})
	switch opts.Provider {
	case "", "yahoo":
		return NewYahooFetcher(client), nil
	case "rest":
		if opts.BaseURL == "" {
			return nil, fmt.Errorf("rest provider needs a base url")
		}
		return NewRESTFetcher(opts.BaseURL, opts.APIKey, client), nil
	case "csv":
		return &CSVFetcher{Dir: opts.CSVDir}, nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", opts.Provider)
	}
}
