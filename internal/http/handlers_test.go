package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"kharcha/internal/core"
)

func sampleTransactions() []core.Transaction {
	return []core.Transaction{
		{ID: "tx-1", Title: "groceries", Amount: core.Money{Cents: 12050}, Category: core.CategoryFood, Date: core.NewDate(2024, 6, 1)},
		{ID: "tx-2", Title: "metro card", Amount: core.Money{Cents: 50000}, Category: core.CategoryTransport, Date: core.NewDate(2024, 5, 12)},
	}
}

func TestSaveTransactionValidationAndSuccess(t *testing.T) {
	srv := newTestServer(t)

	// Wrong method
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	// Invalid amount
	rr = postForm(srv, "/transactions", url.Values{
		"title": {"chai"}, "amount": {"abc"}, "category": {"Food"}, "date": {"2024-06-01"},
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for bad amount, got %d", rr.Code)
	}

	// Missing title
	rr = postForm(srv, "/transactions", url.Values{
		"amount": {"12.50"}, "category": {"Food"}, "date": {"2024-06-01"},
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for missing title, got %d", rr.Code)
	}

	// Unknown category
	rr = postForm(srv, "/transactions", url.Values{
		"title": {"chai"}, "amount": {"12.50"}, "category": {"Snacks"}, "date": {"2024-06-01"},
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown category, got %d", rr.Code)
	}

	// Malformed date
	rr = postForm(srv, "/transactions", url.Values{
		"title": {"chai"}, "amount": {"12.50"}, "category": {"Food"}, "date": {"June 1st"},
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for bad date, got %d", rr.Code)
	}

	// Valid create
	rr = postForm(srv, "/transactions", url.Values{
		"title": {"chai"}, "amount": {"12.50"}, "category": {"Food"}, "date": {"2024-06-01"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("HX-Trigger") != "txn:changed" {
		t.Fatalf("missing HX-Trigger header")
	}
	if !strings.Contains(rr.Body.String(), "chai") {
		t.Fatalf("success fragment missing title: %s", rr.Body.String())
	}

	txs, err := srv.svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 1 || txs[0].Amount.Cents != 1250 {
		t.Fatalf("stored = %+v", txs)
	}
}

func TestSaveTransactionUpdate(t *testing.T) {
	srv := newTestServer(t, sampleTransactions()...)

	rr := postForm(srv, "/transactions", url.Values{
		"id": {"tx-1"}, "title": {"weekly groceries"}, "amount": {"150.00"},
		"category": {"Food"}, "date": {"2024-06-02"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	txs, _ := srv.svc.List(context.Background())
	for _, tx := range txs {
		if tx.ID == "tx-1" {
			if tx.Title != "weekly groceries" || tx.Amount.Cents != 15000 {
				t.Fatalf("update not applied: %+v", tx)
			}
			return
		}
	}
	t.Fatalf("tx-1 not found after update")
}

func TestSaveTransactionUpdateNotFound(t *testing.T) {
	srv := newTestServer(t)

	rr := postForm(srv, "/transactions", url.Values{
		"id": {"ghost"}, "title": {"x"}, "amount": {"1.00"},
		"category": {"Food"}, "date": {"2024-06-02"},
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestDeleteTransaction(t *testing.T) {
	srv := newTestServer(t, sampleTransactions()...)

	rr := postForm(srv, "/transactions/delete", url.Values{"id": {"tx-2"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Header().Get("HX-Trigger") != "txn:changed" {
		t.Fatalf("missing HX-Trigger header")
	}

	rr = postForm(srv, "/transactions/delete", url.Values{"id": {"tx-2"}})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rr.Code)
	}

	rr = postForm(srv, "/transactions/delete", url.Values{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing id, got %d", rr.Code)
	}
}

func TestClearTransactions(t *testing.T) {
	srv := newTestServer(t, sampleTransactions()...)

	rr := postForm(srv, "/transactions/clear", url.Values{})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	txs, _ := srv.svc.List(context.Background())
	if len(txs) != 0 {
		t.Fatalf("expected empty store, got %d", len(txs))
	}
}

func TestSummaryPartial(t *testing.T) {
	srv := newTestServer(t, sampleTransactions()...)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ui/summary", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	// 120.50 + 500.00
	if !strings.Contains(body, "₹620.50") {
		t.Fatalf("summary missing grand total: %s", body)
	}
	for _, cat := range []string{"Food", "Transport", "Shopping", "Bills", "Other"} {
		if !strings.Contains(body, cat) {
			t.Fatalf("summary missing category %s", cat)
		}
	}
}

func TestSummaryPartialWithMonthFilter(t *testing.T) {
	srv := newTestServer(t, sampleTransactions()...)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ui/summary?month=2024-06", nil)
	srv.Handler.ServeHTTP(rr, req)
	body := rr.Body.String()
	if !strings.Contains(body, "2024-06") || !strings.Contains(body, "₹120.50") {
		t.Fatalf("filtered summary wrong: %s", body)
	}
	if !strings.Contains(body, "1 transactions") {
		t.Fatalf("filtered count missing: %s", body)
	}
}

func TestTransactionListPartial(t *testing.T) {
	srv := newTestServer(t, sampleTransactions()...)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ui/transactions", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "groceries") || !strings.Contains(body, "metro card") {
		t.Fatalf("list missing rows: %s", body)
	}
	// Newest first
	if strings.Index(body, "groceries") > strings.Index(body, "metro card") {
		t.Fatalf("list not sorted newest first")
	}

	// Month filter narrows the list
	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ui/transactions?month=2024-05", nil)
	srv.Handler.ServeHTTP(rr, req)
	body = rr.Body.String()
	if strings.Contains(body, "groceries") || !strings.Contains(body, "metro card") {
		t.Fatalf("month filter not applied: %s", body)
	}
}

func TestChartEndpoints(t *testing.T) {
	// The monthly series covers a rolling window ending now, so the
	// seed data must fall inside it.
	now := time.Now()
	srv := newTestServer(t, core.Transaction{
		ID:       "tx-now",
		Title:    "groceries",
		Amount:   core.Money{Cents: 12050},
		Category: core.CategoryFood,
		Date:     core.NewDate(now.Year(), int(now.Month()), 1),
	})

	pngMagic := []byte{0x89, 'P', 'N', 'G'}
	for _, path := range []string{"/charts/categories.png", "/charts/monthly.png"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
		if !bytes.HasPrefix(rr.Body.Bytes(), pngMagic) {
			t.Fatalf("%s did not return a PNG", path)
		}
	}
}

func TestChartEndpointsEmptyCollection(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/charts/categories.png", "/charts/monthly.png"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusNoContent {
			t.Fatalf("%s status=%d, want 204", path, rr.Code)
		}
	}
}

func TestReportDownloads(t *testing.T) {
	srv := newTestServer(t, sampleTransactions()...)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/export/report.pdf", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("pdf status=%d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Content-Disposition"), "expenses-report.pdf") {
		t.Fatalf("pdf disposition = %q", rr.Header().Get("Content-Disposition"))
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("pdf body wrong")
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/export/report.xlsx", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("xlsx status=%d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Content-Disposition"), "expenses-report.xlsx") {
		t.Fatalf("xlsx disposition = %q", rr.Header().Get("Content-Disposition"))
	}
}

func TestSnapshotCacheInvalidation(t *testing.T) {
	srv := newTestServer(t)

	// Warm the cache with the empty collection.
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ui/summary", nil)
	srv.Handler.ServeHTTP(rr, req)

	rr = postForm(srv, "/transactions", url.Values{
		"title": {"chai"}, "amount": {"12.50"}, "category": {"Food"}, "date": {"2024-06-01"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("create failed: %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ui/summary", nil)
	srv.Handler.ServeHTTP(rr, req)
	if !strings.Contains(rr.Body.String(), "₹12.50") {
		t.Fatalf("stale summary after mutation: %s", rr.Body.String())
	}
}
