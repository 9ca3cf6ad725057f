// Command kharcha-report prints an aggregate report for the stored
// transactions and can optionally write the PDF/XLSX artifacts to disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/joho/godotenv"

	"kharcha/internal/config"
	"kharcha/internal/core"
	"kharcha/internal/export"
	"kharcha/internal/store"
	"kharcha/internal/store/sqlitekv"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	monthFlag := flag.String("month", "", "narrow the report to a month (YYYY-MM)")
	pdfFlag := flag.String("pdf", "", "write the PDF report to this path")
	xlsxFlag := flag.String("xlsx", "", "write the XLSX report to this path")
	flag.Parse()

	if *monthFlag != "" {
		if _, err := time.Parse("2006-01", *monthFlag); err != nil {
			fmt.Fprintf(os.Stderr, "invalid -month %q, expected YYYY-MM\n", *monthFlag)
			os.Exit(2)
		}
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	db, err := sqlitekv.Open(cfg.SQLiteDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		os.Exit(1)
	}
	st := store.New(db)
	defer st.Close()

	ctx := context.Background()
	txs, err := st.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load transactions: %v\n", err)
		os.Exit(1)
	}

	now := time.Now()
	filtered := store.FilterMonth(txs, *monthFlag)
	printReport(os.Stdout, filtered, *monthFlag, now)

	data := export.BuildReport(store.SortByDateDesc(filtered), now, cfg.SeriesMonths)
	if *pdfFlag != "" {
		if err := writeArtifact(*pdfFlag, data, export.RenderPDF); err != nil {
			fmt.Fprintf(os.Stderr, "write pdf: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("PDF report written to %s\n", *pdfFlag)
	}
	if *xlsxFlag != "" {
		if err := writeArtifact(*xlsxFlag, data, export.RenderXLSX); err != nil {
			fmt.Fprintf(os.Stderr, "write xlsx: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("XLSX report written to %s\n", *xlsxFlag)
	}
}

func printReport(w *os.File, txs []core.Transaction, monthKey string, now time.Time) {
	scope := "all time"
	if monthKey != "" {
		scope = monthKey
	}
	fmt.Fprintf(w, "Found %d transactions (%s)\n\n", len(txs), scope)

	totals := core.ComputeTotals(txs, now)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Period", "Amount"})
	t.AppendRows([]table.Row{
		{"Total", totals.Total.String()},
		{"Today", totals.Today.String()},
		{"This week", totals.Week.String()},
		{"This month", totals.Month.String()},
		{"This year", totals.Year.String()},
	})
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.Render()

	fmt.Fprintln(w)

	catTotals := core.ComputeCategoryTotals(txs)
	ct := table.NewWriter()
	ct.SetOutputMirror(w)
	ct.AppendHeader(table.Row{"Category", "Amount"})
	for _, cat := range core.Categories() {
		ct.AppendRow(table.Row{string(cat), catTotals[cat].String()})
	}
	ct.AppendSeparator()
	ct.AppendFooter(table.Row{text.Bold.Sprint("Total"), text.Bold.Sprint(totals.Total.String())})
	ct.SetStyle(table.StyleRounded)
	ct.Style().Format.Header = text.FormatDefault
	ct.Style().Format.Footer = text.FormatDefault
	ct.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	ct.Render()
}

func writeArtifact(path string, data export.ReportData, render func(w io.Writer, data export.ReportData) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return render(f, data)
}
