package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	CategoryFood      Category = "Food"
	CategoryTransport Category = "Transport"
	CategoryShopping  Category = "Shopping"
	CategoryBills     Category = "Bills"
	CategoryOther     Category = "Other"
)

type (
	// Category is one of a closed set of expense classifications.
	Category string

	// Date is a calendar date without a time component. It keeps the raw
	// string it was parsed from so records with malformed dates survive a
	// load/save round trip unchanged.
	Date struct {
		raw string
		t   time.Time
		ok  bool
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID       string   `json:"id"`
		Title    string   `json:"title"`
		Amount   Money    `json:"amount"`
		Category Category `json:"category"`
		Date     Date     `json:"date"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyTitle      = errors.New("empty title")
	ErrTitleTooLong    = errors.New("title too long (max 200 characters)")
	ErrEmptyID         = errors.New("empty id")
	ErrInvalidDate     = errors.New("invalid date")
	ErrUnknownCategory = errors.New("unknown category")
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// Categories returns the canonical categories in display order.
func Categories() []Category {
	return []Category{CategoryFood, CategoryTransport, CategoryShopping, CategoryBills, CategoryOther}
}

// Known reports whether c is one of the canonical categories.
func (c Category) Known() bool {
	switch c {
	case CategoryFood, CategoryTransport, CategoryShopping, CategoryBills, CategoryOther:
		return true
	default:
		return false
	}
}

// Color returns the chart color for the category. Unrecognized values
// fall back to the Other color so legacy records still render.
func (c Category) Color() string {
	switch c {
	case CategoryFood:
		return "#10b981"
	case CategoryTransport:
		return "#06b6d4"
	case CategoryShopping:
		return "#7c3aed"
	case CategoryBills:
		return "#f97316"
	case CategoryOther:
		return "#64748b"
	default:
		return "#64748b"
	}
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD). It never fails:
// an unparsable input yields a Date that reports Valid() == false while
// still carrying the raw string.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{raw: s}
	}
	return Date{raw: s, t: t, ok: true}
}

// NewDate creates a valid Date from year, month, day.
func NewDate(year, month, day int) Date {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return Date{raw: t.Format(dateLayout), t: t, ok: true}
}

// Valid reports whether the date parsed as a real calendar date.
func (d Date) Valid() bool { return d.ok }

// String returns the raw date string, valid or not.
func (d Date) String() string { return d.raw }

// Time returns the parsed time at UTC midnight. Zero when invalid.
func (d Date) Time() time.Time { return d.t }

// MonthKey returns the YYYY-MM bucket key, or "" for invalid dates.
func (d Date) MonthKey() string {
	if !d.ok {
		return ""
	}
	return d.t.Format(monthLayout)
}

func (d Date) Validate() error {
	if !d.ok {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.raw)
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*d = ParseDate(s)
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if len(strings.TrimSpace(t.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(t.Title) > 200 {
		return ErrTitleTooLong
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Category.Known() {
		return ErrUnknownCategory
	}
	return t.Date.Validate()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
