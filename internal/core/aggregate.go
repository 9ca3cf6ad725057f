package core

import "time"

// DefaultSeriesMonths is the rolling window used by the monthly chart.
const DefaultSeriesMonths = 6

type (
	// Totals is an ephemeral set of rollups derived from a transaction
	// snapshot. It is never persisted.
	Totals struct {
		Total Money
		Today Money
		Week  Money
		Month Money
		Year  Money
	}

	// CategoryTotals maps category names to their summed amounts. All
	// five canonical categories are always present; unrecognized values
	// found in stored data get their own key so nothing is dropped.
	CategoryTotals map[Category]Money

	// MonthPoint is one entry of a rolling monthly series.
	MonthPoint struct {
		Key   string // YYYY-MM
		Label string // e.g. "Jun 2024"
		Value Money
	}
)

// ComputeTotals computes the rollups for a transaction snapshot with
// ref treated as "now". The week bucket starts at the most recent
// Sunday at local midnight; the month bucket matches the YYYY-MM
// prefix; the year bucket matches the calendar year.
//
// Records with malformed dates count toward Total only and match no
// date-scoped bucket. That mirrors how the stored blob always behaved;
// the write path rejects such records so only legacy data hits it.
func ComputeTotals(txs []Transaction, ref time.Time) Totals {
	today := ref.Format(dateLayout)
	monthKey := ref.Format(monthLayout)
	year := ref.Year()
	weekStart := startOfWeek(ref)

	var t Totals
	for _, tx := range txs {
		cents := tx.Amount.Cents
		t.Total.Cents += cents
		if !tx.Date.Valid() {
			continue
		}
		if tx.Date.String() == today {
			t.Today.Cents += cents
		}
		if !localMidnight(tx.Date, ref.Location()).Before(weekStart) {
			t.Week.Cents += cents
		}
		if tx.Date.MonthKey() == monthKey {
			t.Month.Cents += cents
		}
		if tx.Date.Time().Year() == year {
			t.Year.Cents += cents
		}
	}
	return t
}

// ComputeCategoryTotals sums amounts per category. The canonical
// categories are always initialized so charts and reports can rely on
// all five keys being present.
func ComputeCategoryTotals(txs []Transaction) CategoryTotals {
	out := make(CategoryTotals, 6)
	for _, c := range Categories() {
		out[c] = Money{}
	}
	for _, tx := range txs {
		m := out[tx.Category]
		m.Cents += tx.Amount.Cents
		out[tx.Category] = m
	}
	return out
}

// ComputeMonthlySeries returns exactly months points covering the
// consecutive calendar months ending at ref's month, oldest first.
// Months without transactions yield zero-valued points; transactions
// outside the window (or with malformed dates) are ignored.
func ComputeMonthlySeries(txs []Transaction, ref time.Time, months int) []MonthPoint {
	if months <= 0 {
		months = DefaultSeriesMonths
	}
	points := make([]MonthPoint, 0, months)
	index := make(map[string]int, months)
	y, m, _ := ref.Date()
	for i := months - 1; i >= 0; i-- {
		first := time.Date(y, m-time.Month(i), 1, 0, 0, 0, 0, ref.Location())
		key := first.Format(monthLayout)
		index[key] = len(points)
		points = append(points, MonthPoint{Key: key, Label: first.Format("Jan 2006")})
	}
	for _, tx := range txs {
		if i, ok := index[tx.Date.MonthKey()]; ok {
			points[i].Value.Cents += tx.Amount.Cents
		}
	}
	return points
}

// startOfWeek returns the most recent Sunday at local midnight. When
// ref itself falls on a Sunday this is the same calendar day at 00:00.
func startOfWeek(ref time.Time) time.Time {
	y, m, d := ref.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, ref.Location())
	return midnight.AddDate(0, 0, -int(ref.Weekday()))
}

// localMidnight projects a calendar date to midnight in loc so it can
// be compared against the week boundary.
func localMidnight(d Date, loc *time.Location) time.Time {
	t := d.Time()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
