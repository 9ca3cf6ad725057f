// Package export renders the expense collection into shareable
// artifacts: chart PNGs, a PDF report and an XLSX workbook.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"kharcha/internal/core"
)

// ErrNoData is returned when there is nothing to plot. go-chart panics
// or errors on empty value sets, so callers must handle this before
// rendering.
var ErrNoData = errors.New("export: no data to plot")

// CategoryPiePNG renders a pie of per-category spending to w. Zero
// categories are omitted; if everything is zero it returns ErrNoData.
func CategoryPiePNG(w io.Writer, totals core.CategoryTotals) error {
	var values []chart.Value
	for _, cat := range core.Categories() {
		amount := totals[cat]
		if amount.Cents <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%s)", cat, amount),
			Value: amount.Rupees(),
			Style: chart.Style{
				FillColor: drawing.ColorFromHex(strings.TrimPrefix(cat.Color(), "#")),
			},
		})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	pie := chart.PieChart{
		Width:  600,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    20,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Values: values,
	}

	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render category pie: %w", err)
	}
	return nil
}

// MonthlyBarPNG renders the rolling monthly series as a bar chart.
func MonthlyBarPNG(w io.Writer, series []core.MonthPoint) error {
	var bars []chart.Value
	total := int64(0)
	for _, p := range series {
		total += p.Value.Cents
		bars = append(bars, chart.Value{
			Label: p.Label,
			Value: p.Value.Rupees(),
			Style: chart.Style{
				FillColor: drawing.ColorFromHex("7c3aed"),
			},
		})
	}
	if len(bars) == 0 || total == 0 {
		return ErrNoData
	}

	barChart := chart.BarChart{
		Title: "Monthly spending",
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Width:    800,
		Height:   400,
		BarWidth: 60,
		Bars:     bars,
	}
	barChart.YAxis.ValueFormatter = func(v interface{}) string {
		if vf, isFloat := v.(float64); isFloat {
			return fmt.Sprintf("₹%.2f", vf)
		}
		return ""
	}

	if err := barChart.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render monthly bars: %w", err)
	}
	return nil
}
