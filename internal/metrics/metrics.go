// Package metrics exposes Prometheus instruments for the refresh cycle.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"MarketPulse/internal/model"
)

// Metrics holds all Prometheus metrics for the signal engine host.
type Metrics struct {
	CyclesTotal     prometheus.Counter
	FetchErrors     *prometheus.CounterVec // labels: symbol
	ComputeDuration prometheus.Histogram
	BarsAnalyzed    *prometheus.GaugeVec // labels: symbol
	SignalLabel     *prometheus.GaugeVec // labels: symbol; 1=buy, 0=neutral, -1=sell

	registry *prometheus.Registry
}

// New registers and returns all metrics on a private registry that also
// carries the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketpulse_cycles_total",
			Help: "Total refresh cycles run",
		}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketpulse_fetch_errors_total",
			Help: "Fetch or analysis failures per symbol",
		}, []string{"symbol"}),
		ComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "marketpulse_compute_duration_seconds",
			Help:    "Time spent fetching and analyzing one symbol",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		BarsAnalyzed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "marketpulse_bars_analyzed",
			Help: "Number of bars in the latest analysis per symbol",
		}, []string{"symbol"}),
		SignalLabel: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "marketpulse_signal",
			Help: "Latest headline signal per symbol (1 buy, 0 neutral, -1 sell)",
		}, []string{"symbol"}),
		registry: reg,
	}
	reg.MustRegister(
		m.CyclesTotal, m.FetchErrors, m.ComputeDuration, m.BarsAnalyzed, m.SignalLabel,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveAnalysis records the outcome of one successful symbol analysis.
func (m *Metrics) ObserveAnalysis(a *model.Analysis) {
	m.BarsAnalyzed.WithLabelValues(a.Symbol).Set(float64(a.Bars))
	m.SignalLabel.WithLabelValues(a.Symbol).Set(LabelValue(a.Latest.Label))
}

// LabelValue maps a signal label to the gauge encoding.
func LabelValue(l model.SignalLabel) float64 {
	switch l {
	case model.SignalBuy:
		return 1
	case model.SignalSell:
		return -1
	default:
		return 0
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
