package core

import "testing"

func TestParseDate(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"2024-06-01", true},
		{"2024-12-31", true},
		{" 2024-06-01 ", true}, // trimmed
		{"2024-6-1", false},
		{"2024-13-01", false},
		{"not-a-date", false},
		{"", false},
	}
	for _, tc := range cases {
		d := ParseDate(tc.in)
		if d.Valid() != tc.valid {
			t.Fatalf("%q valid=%v, want %v", tc.in, d.Valid(), tc.valid)
		}
	}
}

func TestDateKeepsRawString(t *testing.T) {
	d := ParseDate("garbage")
	if d.Valid() {
		t.Fatalf("expected invalid")
	}
	if d.String() != "garbage" {
		t.Fatalf("raw string lost: %q", d.String())
	}
	if d.MonthKey() != "" {
		t.Fatalf("invalid date should have no month key, got %q", d.MonthKey())
	}
}

func TestMonthKey(t *testing.T) {
	if got := ParseDate("2024-06-15").MonthKey(); got != "2024-06" {
		t.Fatalf("month key = %q", got)
	}
}

func TestCategoryKnown(t *testing.T) {
	for _, c := range Categories() {
		if !c.Known() {
			t.Fatalf("%s should be known", c)
		}
	}
	if Category("Gadgets").Known() {
		t.Fatalf("unexpected known category")
	}
}

func TestCategoryColorFallback(t *testing.T) {
	if Category("Gadgets").Color() != CategoryOther.Color() {
		t.Fatalf("unknown category should use the Other color")
	}
	seen := map[string]Category{}
	for _, c := range Categories() {
		color := c.Color()
		if color == "" {
			t.Fatalf("%s has no color", c)
		}
		if prev, dup := seen[color]; dup {
			t.Fatalf("color %s shared by %s and %s", color, prev, c)
		}
		seen[color] = c
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:       "tx-1",
		Title:    "groceries",
		Amount:   Money{Cents: 1250},
		Category: CategoryFood,
		Date:     NewDate(2024, 6, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{ID: "", Title: "a", Amount: Money{Cents: 1}, Category: CategoryFood, Date: NewDate(2024, 6, 1)},
		{ID: "x", Title: "  ", Amount: Money{Cents: 1}, Category: CategoryFood, Date: NewDate(2024, 6, 1)},
		{ID: "x", Title: "a", Amount: Money{Cents: 0}, Category: CategoryFood, Date: NewDate(2024, 6, 1)},
		{ID: "x", Title: "a", Amount: Money{Cents: 1}, Category: "Gadgets", Date: NewDate(2024, 6, 1)},
		{ID: "x", Title: "a", Amount: Money{Cents: 1}, Category: CategoryFood, Date: ParseDate("junk")},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
