package http

import (
	"log/slog"
	"net/http"

	"gagebu/internal/core"
)

type chartBar struct {
	Account     string
	Category    string
	Debit       string
	Credit      string
	DebitWidth  int
	CreditWidth int
}

type chartView struct {
	Bars []chartBar
}

// handleChart renders the per-account debit/credit bar chart partial.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	snap, err := s.snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Chart snapshot error", "error", err)
		_, _ = w.Write([]byte(`<section id="chart" class="chart"><div class="placeholder">Failed to load the ledger</div></section>`))
		return
	}

	totals := core.AccountTotals(snap.Transactions)

	var max int64
	for _, t := range totals {
		if t.Debit > max {
			max = t.Debit
		}
		if t.Credit > max {
			max = t.Credit
		}
	}

	view := chartView{}
	for _, t := range totals {
		bar := chartBar{
			Account:     t.Account,
			Debit:       core.FormatAmount(t.Debit),
			Credit:      core.FormatAmount(t.Credit),
			DebitWidth:  barWidth(t.Debit, max),
			CreditWidth: barWidth(t.Credit, max),
		}
		if a, ok := snap.Catalog.Lookup(t.Account); ok {
			bar.Category = string(a.Category)
		}
		view.Bars = append(view.Bars, bar)
	}

	if err := s.templates.ExecuteTemplate(w, "chart.html", view); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err,
			"template", "chart.html")
		_, _ = w.Write([]byte(`<section id="chart" class="chart"><div class="placeholder">Failed to render the chart</div></section>`))
	}
}

// barWidth scales a value to a rounded percentage of the chart's maximum,
// clamped so tiny non-zero bars stay visible.
func barWidth(v, max int64) int {
	if max <= 0 || v <= 0 {
		return 0
	}
	width := int((v*100 + max/2) / max)
	if width < 2 {
		width = 2
	}
	if width > 100 {
		width = 100
	}
	return width
}
