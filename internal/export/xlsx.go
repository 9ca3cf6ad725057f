package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"kharcha/internal/core"
)

// RenderXLSX writes the report as a two-sheet workbook: the raw
// transaction list and an aggregate summary.
func RenderXLSX(w io.Writer, data ReportData) error {
	f := excelize.NewFile()
	defer f.Close()

	const txSheet = "Transactions"
	if err := f.SetSheetName("Sheet1", txSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := []interface{}{"ID", "Date", "Title", "Category", "Amount"}
	if err := f.SetSheetRow(txSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, tx := range data.Transactions {
		row := []interface{}{tx.ID, tx.Date.String(), tx.Title, string(tx.Category), tx.Amount.Rupees()}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(txSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(txSheet, "A", "A", 38); err != nil {
		return fmt.Errorf("set col width: %w", err)
	}
	if err := f.SetColWidth(txSheet, "B", "E", 16); err != nil {
		return fmt.Errorf("set col width: %w", err)
	}

	if err := writeSummarySheet(f, data); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, data ReportData) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Generated", data.GeneratedAt.Format("2006-01-02 15:04")},
		{"Transactions", len(data.Transactions)},
		{},
		{"Total", data.Totals.Total.Rupees()},
		{"Today", data.Totals.Today.Rupees()},
		{"This week", data.Totals.Week.Rupees()},
		{"This month", data.Totals.Month.Rupees()},
		{"This year", data.Totals.Year.Rupees()},
		{},
	}
	for _, cat := range core.Categories() {
		rows = append(rows, []interface{}{string(cat), data.CategoryTotals[cat].Rupees()})
	}
	rows = append(rows, []interface{}{})
	for _, p := range data.Series {
		rows = append(rows, []interface{}{p.Label, p.Value.Rupees()})
	}

	for i := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(sheet, "A", "B", 18); err != nil {
		return fmt.Errorf("set summary col width: %w", err)
	}
	return nil
}
