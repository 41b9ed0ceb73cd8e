package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"

	"MarketPulse/internal/model"
)

func labelIcon(l model.SignalLabel) string {
	switch l {
	case model.SignalBuy:
		return "🟢"
	case model.SignalSell:
		return "🔴"
	default:
		return "⚪"
	}
}

func fmtNum(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

// FormatReport formats the headline signal, votes, trend and patterns of
// an analysis into a Telegram HTML message.
func FormatReport(a *model.Analysis) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b>", html.EscapeString(a.Symbol)))
	if !a.LastTime.IsZero() {
		b.WriteString(fmt.Sprintf(" | %s", a.LastTime.Format("2006-01-02 15:04")))
	}
	b.WriteString("\n\n")

	if a.Bars == 0 {
		b.WriteString("No price history available.\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Close: %s (%d bars)\n", fmtNum(a.LastClose), a.Bars))
	b.WriteString(fmt.Sprintf("%s <b>Signal: %s</b>  (buy %d / sell %d / neutral %d)\n\n",
		labelIcon(a.Latest.Label), a.Latest.Label, a.Latest.Buy, a.Latest.Sell, a.Latest.Neutral))

	if len(a.Latest.Votes) > 0 {
		b.WriteString("📈 <b>Votes:</b>\n")
		for _, v := range a.Latest.Votes {
			b.WriteString(fmt.Sprintf("  %s %s: %s\n", labelIcon(v.Label), html.EscapeString(v.Indicator), v.Label))
		}
		b.WriteString("\n")
	}

	if a.Trend.Available {
		trend := "no trend"
		if a.Trend.Label == model.SignalBuy {
			trend = "trend present"
		}
		b.WriteString(fmt.Sprintf("%s: %.1f (%s)\n", html.EscapeString(a.Trend.Indicator), a.Trend.Value, trend))
	}
	if a.Indicators != nil {
		latest := a.Indicators.Latest()
		for _, name := range a.Indicators.Names {
			if strings.HasPrefix(name, "RSI_") {
				b.WriteString(fmt.Sprintf("%s: %s\n", name, fmtNum(latest[name])))
			}
		}
	}
	if a.Range.Available {
		b.WriteString(fmt.Sprintf("Range(%d): %s - %s, position %s\n",
			a.Range.Lookback, fmtNum(a.Range.Low), fmtNum(a.Range.High), fmtPercent(a.Range.Position)))
	}

	if len(a.Patterns) > 0 {
		names := make([]string, len(a.Patterns))
		for i, p := range a.Patterns {
			names[i] = string(p)
		}
		b.WriteString(fmt.Sprintf("\n🕯 Patterns: %s\n", strings.Join(names, ", ")))
	}
	return b.String()
}

func fmtPercent(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", v*100)
}

// FormatPivots formats the classic and Fibonacci pivot levels.
func FormatPivots(a *model.Analysis) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🎯 <b>%s pivots</b>\n\n", html.EscapeString(a.Symbol)))
	if !a.Pivots.Available {
		b.WriteString("Pivots unavailable (missing prices on the last bar).\n")
		return b.String()
	}
	writeLevels := func(title string, l model.Levels) {
		b.WriteString(fmt.Sprintf("<b>%s</b>\n", title))
		b.WriteString(fmt.Sprintf("  R3 %s | R2 %s | R1 %s\n", fmtNum(l.R3), fmtNum(l.R2), fmtNum(l.R1)))
		b.WriteString(fmt.Sprintf("  P  %s\n", fmtNum(l.Pivot)))
		b.WriteString(fmt.Sprintf("  S1 %s | S2 %s | S3 %s\n", fmtNum(l.S1), fmtNum(l.S2), fmtNum(l.S3)))
	}
	writeLevels("Classic", a.Pivots.Classic)
	writeLevels("Fibonacci", a.Pivots.Fibonacci)
	return b.String()
}

// FormatSignalChange announces a headline label flip.
func FormatSignalChange(a *model.Analysis, previous model.SignalLabel) string {
	return fmt.Sprintf("🔔 <b>%s</b> signal changed: %s %s → %s %s\n\n%s",
		html.EscapeString(a.Symbol), labelIcon(previous), previous, labelIcon(a.Latest.Label), a.Latest.Label,
		FormatReport(a))
}

// FormatSymbols lists the tracked symbols with their current labels.
func FormatSymbols(entries map[string]model.SignalLabel, order []string) string {
	if len(order) == 0 {
		return "No symbols analyzed yet."
	}
	var b strings.Builder
	b.WriteString("📋 <b>Tracked symbols</b>\n\n")
	for _, sym := range order {
		l := entries[sym]
		b.WriteString(fmt.Sprintf("%s %s: %s\n", labelIcon(l), html.EscapeString(sym), l))
	}
	return b.String()
}

// FormatHelp lists the supported bot commands.
func FormatHelp() string {
	return "🤖 <b>Commands</b>\n\n" +
		"/signal &lt;SYMBOL&gt; - latest signal and votes\n" +
		"/pivots &lt;SYMBOL&gt; - classic and Fibonacci pivots\n" +
		"/symbols - tracked symbols\n" +
		"/help - this message"
}
