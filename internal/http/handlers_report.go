package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/export"
	"kharcha/internal/store"
)

// handleSummary renders the aggregate rollups partial. A month filter
// narrows the filtered total and count, the rollups always cover the
// whole collection.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	txs, err := s.loadSnapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary load error", "error", err)
		_, _ = w.Write([]byte(`<section id="summary" class="summary"><div class="placeholder">Error loading summary</div></section>`))
		return
	}

	now := time.Now()
	totals := core.ComputeTotals(txs, now)
	monthKey := parseMonthKey(r)
	filtered := store.FilterMonth(txs, monthKey)
	filteredTotals := core.ComputeTotals(filtered, now)

	type catRow struct {
		Name   string
		Color  string
		Amount string
	}
	data := struct {
		Total         string
		Today         string
		Week          string
		Month         string
		Year          string
		Count         int
		Filter        string
		FilteredTotal string
		FilteredCount int
		Categories    []catRow
	}{
		Total:         totals.Total.String(),
		Today:         totals.Today.String(),
		Week:          totals.Week.String(),
		Month:         totals.Month.String(),
		Year:          totals.Year.String(),
		Count:         len(txs),
		Filter:        monthKey,
		FilteredTotal: filteredTotals.Total.String(),
		FilteredCount: len(filtered),
	}
	catTotals := core.ComputeCategoryTotals(filtered)
	for _, cat := range core.Categories() {
		data.Categories = append(data.Categories, catRow{
			Name:   string(cat),
			Color:  cat.Color(),
			Amount: catTotals[cat].String(),
		})
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="summary" class="summary"><div class="placeholder">Total: ` + data.Total + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "summary.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "summary.html")
		_, _ = w.Write([]byte(`<section id="summary" class="summary"><div class="placeholder">Error rendering summary</div></section>`))
	}
}

// handleTransactionList renders the transaction list partial, newest
// first, optionally narrowed to a month.
func (s *Server) handleTransactionList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	txs, err := s.loadSnapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction list load error", "error", err)
		_, _ = w.Write([]byte(`<section id="transactions" class="transactions"><div class="placeholder">Error loading transactions</div></section>`))
		return
	}

	monthKey := parseMonthKey(r)
	filtered := store.SortByDateDesc(store.FilterMonth(txs, monthKey))

	type row struct {
		ID       string
		Title    string
		Amount   string
		RawCents int64
		Category string
		Color    string
		Date     string
	}
	data := struct {
		Filter string
		Count  int
		Rows   []row
	}{Filter: monthKey, Count: len(filtered)}
	for _, tx := range filtered {
		data.Rows = append(data.Rows, row{
			ID:       tx.ID,
			Title:    tx.Title,
			Amount:   tx.Amount.String(),
			RawCents: tx.Amount.Cents,
			Category: string(tx.Category),
			Color:    tx.Category.Color(),
			Date:     tx.Date.String(),
		})
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="transactions" class="transactions"><div class="placeholder">No template</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "transactions.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "transactions.html")
		_, _ = w.Write([]byte(`<section id="transactions" class="transactions"><div class="placeholder">Error rendering transactions</div></section>`))
	}
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	txs, err := s.loadSnapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Category chart load error", "error", err)
		http.Error(w, "error loading data", http.StatusInternalServerError)
		return
	}

	filtered := store.FilterMonth(txs, parseMonthKey(r))
	totals := core.ComputeCategoryTotals(filtered)

	w.Header().Set("Content-Type", "image/png")
	switch err := export.CategoryPiePNG(w, totals); {
	case errors.Is(err, export.ErrNoData):
		w.WriteHeader(http.StatusNoContent)
	case err != nil:
		slog.ErrorContext(r.Context(), "Category chart render error", "error", err)
	}
}

func (s *Server) handleMonthlyChart(w http.ResponseWriter, r *http.Request) {
	txs, err := s.loadSnapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Monthly chart load error", "error", err)
		http.Error(w, "error loading data", http.StatusInternalServerError)
		return
	}

	series := core.ComputeMonthlySeries(txs, time.Now(), parseSeriesMonths(r, s.seriesMonths))

	w.Header().Set("Content-Type", "image/png")
	switch err := export.MonthlyBarPNG(w, series); {
	case errors.Is(err, export.ErrNoData):
		w.WriteHeader(http.StatusNoContent)
	case err != nil:
		slog.ErrorContext(r.Context(), "Monthly chart render error", "error", err)
	}
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	txs, err := s.loadSnapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "PDF report load error", "error", err)
		http.Error(w, "error loading data", http.StatusInternalServerError)
		return
	}

	data := export.BuildReport(store.SortByDateDesc(txs), time.Now(), s.seriesMonths)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses-report.pdf"`)
	if err := export.RenderPDF(w, data); err != nil {
		slog.ErrorContext(r.Context(), "PDF report render error", "error", err)
	}
}

func (s *Server) handleReportXLSX(w http.ResponseWriter, r *http.Request) {
	txs, err := s.loadSnapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "XLSX report load error", "error", err)
		http.Error(w, "error loading data", http.StatusInternalServerError)
		return
	}

	data := export.BuildReport(store.SortByDateDesc(txs), time.Now(), s.seriesMonths)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses-report.xlsx"`)
	if err := export.RenderXLSX(w, data); err != nil {
		slog.ErrorContext(r.Context(), "XLSX report render error", "error", err)
	}
}
