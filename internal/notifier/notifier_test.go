package notifier

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"MarketPulse/internal/model"
)

func sampleAnalysis() *model.Analysis {
	return &model.Analysis{
		Symbol:    "SPY",
		Bars:      250,
		LastTime:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		LastClose: 512.3,
		Latest: model.BarSignal{
			Label: model.SignalBuy,
			Votes: []model.Vote{
				{Indicator: "SMA_5/SMA_10", Label: model.SignalBuy},
				{Indicator: "RSI_14", Label: model.SignalNeutral},
				{Indicator: "MACD", Label: model.SignalBuy},
			},
			Buy: 2, Neutral: 1,
		},
		Trend:    model.Advisory{Indicator: "ADX_14", Available: true, Value: 31.2, Label: model.SignalBuy},
		Patterns: []model.Pattern{model.PatternDoji},
		Pivots: model.PivotLevels{
			Available: true,
			Classic:   model.Levels{Pivot: 10, R1: 11, R2: 12, R3: 13, S1: 9, S2: 8, S3: 7},
			Fibonacci: model.Levels{Pivot: 10, R1: 10.5, R2: 11, R3: 12, S1: 9.5, S2: 9, S3: 8},
		},
		Range: model.RangeStats{Available: true, Lookback: 252, High: 520, Low: 400, Position: math.NaN()},
	}
}

func TestFormatReport(t *testing.T) {
	msg := FormatReport(sampleAnalysis())
	for _, want := range []string{"SPY", "Signal: BUY", "buy 2 / sell 0 / neutral 1", "SMA_5/SMA_10", "ADX_14: 31.2 (trend present)", "DOJI", "position n/a"} {
		if !strings.Contains(msg, want) {
			t.Errorf("report missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatReport_Empty(t *testing.T) {
	msg := FormatReport(&model.Analysis{Symbol: "NEW", Latest: model.BarSignal{Label: model.SignalNeutral}})
	if !strings.Contains(msg, "No price history") {
		t.Errorf("unexpected report: %s", msg)
	}
}

func TestFormatPivots(t *testing.T) {
	msg := FormatPivots(sampleAnalysis())
	if !strings.Contains(msg, "R3 13.00") || !strings.Contains(msg, "Fibonacci") {
		t.Errorf("unexpected pivots message: %s", msg)
	}
	a := sampleAnalysis()
	a.Pivots.Available = false
	if !strings.Contains(FormatPivots(a), "unavailable") {
		t.Error("missing pivots should be reported")
	}
}

func TestFormatSignalChange(t *testing.T) {
	msg := FormatSignalChange(sampleAnalysis(), model.SignalSell)
	if !strings.Contains(msg, "SELL → 🟢 BUY") {
		t.Errorf("unexpected change message: %s", msg)
	}
}

func TestTelegramSend(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIBase = srv.URL
	if err := n.Send(context.Background(), "<b>hi</b>"); err != nil {
		t.Fatal(err)
	}
	if got["chat_id"] != "42" || got["parse_mode"] != "HTML" || got["text"] != "<b>hi</b>" {
		t.Errorf("payload = %v", got)
	}
}

func TestTelegramSendWithRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIBase = srv.URL
	if err := n.SendWithRetry(context.Background(), "x", 2); err != nil {
		t.Fatal(err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("expected 2 attempts, got %d", calls)
	}
}

func TestGetUpdates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") != "7" {
			t.Errorf("offset = %s", r.URL.Query().Get("offset"))
		}
		w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":"/signal spy","chat":{"id":1}}}]}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIBase = srv.URL
	updates, err := n.getUpdates(context.Background(), 7, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(updates) != 1 || updates[0].Message.Text != "/signal spy" {
		t.Errorf("updates = %+v", updates)
	}
}
