package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"kharcha/internal/core"
)

// ReportData carries everything a rendered report needs, precomputed so
// the renderers stay presentation-only.
type ReportData struct {
	GeneratedAt    time.Time
	Transactions   []core.Transaction
	Totals         core.Totals
	CategoryTotals core.CategoryTotals
	Series         []core.MonthPoint
}

// BuildReport aggregates the collection as of ref into a ReportData.
func BuildReport(txs []core.Transaction, ref time.Time, seriesMonths int) ReportData {
	return ReportData{
		GeneratedAt:    ref,
		Transactions:   txs,
		Totals:         core.ComputeTotals(txs, ref),
		CategoryTotals: core.ComputeCategoryTotals(txs),
		Series:         core.ComputeMonthlySeries(txs, ref, seriesMonths),
	}
}

// RenderPDF writes the full report as a PDF document. Chart images are
// embedded when there is data to plot and skipped otherwise.
func RenderPDF(w io.Writer, data ReportData) error {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetTitle("Expense Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 28, "Expense Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 116, 139)
	pdf.CellFormat(0, 16, "Generated "+data.GeneratedAt.Format("2 Jan 2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(10)
	pdf.SetTextColor(0, 0, 0)

	writeTotals(pdf, data.Totals)
	pdf.Ln(14)
	writeCategoryTable(pdf, data.CategoryTotals)
	pdf.Ln(14)

	if err := embedCharts(pdf, data); err != nil {
		return err
	}

	writeTransactionTable(pdf, data.Transactions)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func writeTotals(pdf *fpdf.Fpdf, totals core.Totals) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 18, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)

	rows := []struct {
		label string
		value core.Money
	}{
		{"Total", totals.Total},
		{"Today", totals.Today},
		{"This week", totals.Week},
		{"This month", totals.Month},
		{"This year", totals.Year},
	}
	for _, r := range rows {
		pdf.CellFormat(120, 14, r.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 14, pdfMoney(r.value), "", 1, "L", false, 0, "")
	}
}

// pdfMoney formats an amount for the PDF renderer. The core Helvetica
// font is cp1252 so the rupee sign is spelled out instead.
func pdfMoney(m core.Money) string {
	return strings.Replace(m.String(), "₹", "Rs ", 1)
}

func writeCategoryTable(pdf *fpdf.Fpdf, totals core.CategoryTotals) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 18, "By category", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)

	for _, cat := range core.Categories() {
		pdf.CellFormat(120, 14, string(cat), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 14, pdfMoney(totals[cat]), "", 1, "L", false, 0, "")
	}
}

func embedCharts(pdf *fpdf.Fpdf, data ReportData) error {
	var pie bytes.Buffer
	switch err := CategoryPiePNG(&pie, data.CategoryTotals); {
	case err == nil:
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("category-pie", opts, &pie)
		pdf.ImageOptions("category-pie", pdf.GetX(), pdf.GetY(), 300, 0, true, opts, 0, "")
		pdf.Ln(10)
	case err != ErrNoData:
		return fmt.Errorf("pie for pdf: %w", err)
	}

	var bar bytes.Buffer
	switch err := MonthlyBarPNG(&bar, data.Series); {
	case err == nil:
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("monthly-bar", opts, &bar)
		pdf.ImageOptions("monthly-bar", pdf.GetX(), pdf.GetY(), 400, 0, true, opts, 0, "")
		pdf.Ln(10)
	case err != ErrNoData:
		return fmt.Errorf("bars for pdf: %w", err)
	}
	return nil
}

func writeTransactionTable(pdf *fpdf.Fpdf, txs []core.Transaction) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 18, fmt.Sprintf("Transactions (%d)", len(txs)), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(241, 245, 249)
	pdf.CellFormat(90, 14, "Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(200, 14, "Title", "1", 0, "L", true, 0, "")
	pdf.CellFormat(90, 14, "Category", "1", 0, "L", true, 0, "")
	pdf.CellFormat(90, 14, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, tx := range txs {
		pdf.CellFormat(90, 14, tx.Date.String(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(200, 14, tx.Title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(90, 14, string(tx.Category), "1", 0, "L", false, 0, "")
		pdf.CellFormat(90, 14, pdfMoney(tx.Amount), "1", 1, "R", false, 0, "")
	}
}
