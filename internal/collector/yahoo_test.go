package collector

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	platformhttp "MarketPulse/internal/platform/http"
)

const chartBody = `{"chart":{"result":[{"timestamp":[1700172800,1700000000,1700086400,1700259200],
"indicators":{"quote":[{
"open":[102,100,101,null],
"high":[103,101,null,null],
"low":[101,99,100,null],
"close":[102.5,100.5,101.5,null],
"volume":[1200,1000,null,null]}]}}],"error":null}}`

func testClient() *platformhttp.Client {
	return platformhttp.NewClient(platformhttp.ClientOptions{
		RequestsPerSec:  100,
		MaxRetries:      1,
		MaxRetryTimeout: time.Second,
	})
}

func TestYahooFetcher_FetchBars(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.Write([]byte(chartBody))
	}))
	defer srv.Close()

	f := NewYahooFetcher(testClient())
	f.BaseURL = srv.URL
	bars, err := f.FetchBars(context.Background(), "SPX", "1d", "1y")
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/v8/finance/chart/^GSPC" {
		t.Errorf("path = %q", gotPath)
	}
	if !strings.Contains(gotQuery, "interval=1d") || !strings.Contains(gotQuery, "range=1y") {
		t.Errorf("query = %q", gotQuery)
	}
	if len(bars) != 3 {
		t.Fatalf("expected the all-null row to be dropped, got %d bars", len(bars))
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i-1].Time.Before(bars[i].Time) {
			t.Fatal("bars are not chronological")
		}
	}
	if bars[0].Close != 100.5 || bars[2].Close != 102.5 {
		t.Errorf("unexpected closes: %v %v", bars[0].Close, bars[2].Close)
	}
	if !math.IsNaN(bars[1].High) || !math.IsNaN(bars[1].Volume) {
		t.Errorf("null fields should be NaN: %+v", bars[1])
	}
}

func TestYahooFetcher_EmptyResultIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher(testClient())
	f.BaseURL = srv.URL
	if _, err := f.FetchBars(context.Background(), "NOPE", "1d", "1y"); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestYahooFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher(testClient())
	f.BaseURL = srv.URL
	_, err := f.FetchBars(context.Background(), "GONE", "1d", "1y")
	if err == nil || !strings.Contains(err.Error(), "delisted") {
		t.Fatalf("expected api error, got %v", err)
	}
}
