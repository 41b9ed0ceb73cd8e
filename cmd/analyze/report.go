package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"MarketPulse/internal/calculator"
	"MarketPulse/internal/model"
)

func cell(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.4f", v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeDescribe(w io.Writer, bars model.Series) {
	stats := calculator.DescribeSeries(bars)
	fmt.Fprintln(w, "== Summary ==")
	tw := newTable(w)
	fmt.Fprintln(tw, "\tcount\tmissing\tmean\tstd\tmin\t25%\t50%\t75%\tmax")
	for _, col := range calculator.DescribeColumns {
		s := stats[col]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			col, s.Count, s.Missing, cell(s.Mean), cell(s.Std), cell(s.Min),
			cell(s.P25), cell(s.P50), cell(s.P75), cell(s.Max))
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func writeLatest(w io.Writer, a *model.Analysis) {
	fmt.Fprintf(w, "== %s: %d bars", a.Symbol, a.Bars)
	if !a.LastTime.IsZero() {
		fmt.Fprintf(w, ", last %s", a.LastTime.Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(w, " ==")
	fmt.Fprintf(w, "Signal: %s (buy %d, sell %d, neutral %d)\n\n",
		a.Latest.Label, a.Latest.Buy, a.Latest.Sell, a.Latest.Neutral)

	tw := newTable(w)
	fmt.Fprintln(tw, "indicator\tvalue")
	fmt.Fprintf(tw, "Close\t%s\n", cell(a.LastClose))
	latest := a.Indicators.Latest()
	for _, name := range a.Indicators.Names {
		fmt.Fprintf(tw, "%s\t%s\n", name, cell(latest[name]))
	}
	tw.Flush()
	fmt.Fprintln(w)

	tw = newTable(w)
	fmt.Fprintln(tw, "vote\tlabel")
	for _, v := range a.Latest.Votes {
		fmt.Fprintf(tw, "%s\t%s\n", v.Indicator, v.Label)
	}
	if a.Trend.Available {
		fmt.Fprintf(tw, "%s (advisory)\t%s\n", a.Trend.Indicator, a.Trend.Label)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func writeSignals(w io.Writer, a *model.Analysis, tail int) {
	start := 0
	if tail > 0 && tail < len(a.Signals) {
		start = len(a.Signals) - tail
	}
	fmt.Fprintln(w, "== Signals ==")
	tw := newTable(w)
	fmt.Fprintln(tw, "time\tlabel\tbuy\tsell\tneutral")
	for i := start; i < len(a.Signals); i++ {
		s := a.Signals[i]
		ts := "-"
		if i < len(a.Times) && !a.Times[i].IsZero() {
			ts = a.Times[i].Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", ts, s.Label, s.Buy, s.Sell, s.Neutral)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func writePivots(w io.Writer, a *model.Analysis) {
	fmt.Fprintln(w, "== Pivots ==")
	if !a.Pivots.Available {
		fmt.Fprintln(w, "unavailable")
		fmt.Fprintln(w)
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "\tS3\tS2\tS1\tP\tR1\tR2\tR3")
	for _, row := range []struct {
		name string
		l    model.Levels
	}{{"classic", a.Pivots.Classic}, {"fibonacci", a.Pivots.Fibonacci}} {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", row.name,
			cell(row.l.S3), cell(row.l.S2), cell(row.l.S1), cell(row.l.Pivot),
			cell(row.l.R1), cell(row.l.R2), cell(row.l.R3))
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func writePatterns(w io.Writer, a *model.Analysis) {
	fmt.Fprintln(w, "== Patterns ==")
	if len(a.Patterns) == 0 {
		fmt.Fprintln(w, "none")
		return
	}
	names := make([]string, len(a.Patterns))
	for i, p := range a.Patterns {
		names[i] = string(p)
	}
	fmt.Fprintln(w, strings.Join(names, ", "))
}
