package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/store"
	"kharcha/internal/store/memkv"
)

func newService() *TransactionService {
	return NewTransactionService(store.New(memkv.New()), nil)
}

func validTx() core.Transaction {
	return core.Transaction{
		Title:    "chai",
		Amount:   core.Money{Cents: 2500},
		Category: core.CategoryFood,
		Date:     core.NewDate(2024, 6, 1),
	}
}

func TestCreateAssignsID(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	created, err := svc.Create(ctx, validTx())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("no id assigned")
	}

	txs, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 1 || txs[0].ID != created.ID {
		t.Fatalf("persisted collection = %+v", txs)
	}
}

func TestCreateRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	bad := validTx()
	bad.Title = ""
	if _, err := svc.Create(ctx, bad); !errors.Is(err, core.ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}

	bad = validTx()
	bad.Date = core.ParseDate("32/13/2024")
	if _, err := svc.Create(ctx, bad); !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}

	if txs, _ := svc.List(ctx); len(txs) != 0 {
		t.Fatalf("invalid create persisted a record")
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	created, err := svc.Create(ctx, validTx())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	created.Amount = core.Money{Cents: 9900}
	created.Category = core.CategoryBills
	if err := svc.Update(ctx, created); err != nil {
		t.Fatalf("update: %v", err)
	}

	txs, _ := svc.List(ctx)
	if txs[0].Amount.Cents != 9900 || txs[0].Category != core.CategoryBills {
		t.Fatalf("update not persisted: %+v", txs[0])
	}

	missing := validTx()
	missing.ID = "no-such-id"
	if err := svc.Update(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	created, _ := svc.Create(ctx, validTx())
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if txs, _ := svc.List(ctx); len(txs) != 0 {
		t.Fatalf("delete did not persist")
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAggregatePassThroughs(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	if _, err := svc.Create(ctx, validTx()); err != nil {
		t.Fatalf("create: %v", err)
	}
	other := validTx()
	other.Amount = core.Money{Cents: 500}
	other.Category = core.CategoryBills
	other.Date = core.NewDate(2024, 5, 15)
	if _, err := svc.Create(ctx, other); err != nil {
		t.Fatalf("create: %v", err)
	}

	ref := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	totals, err := svc.Totals(ctx, ref)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.Total.Cents != 3000 || totals.Today.Cents != 2500 {
		t.Fatalf("totals = %+v", totals)
	}

	catTotals, err := svc.CategoryTotals(ctx)
	if err != nil {
		t.Fatalf("category totals: %v", err)
	}
	if catTotals[core.CategoryFood].Cents != 2500 || catTotals[core.CategoryBills].Cents != 500 {
		t.Fatalf("category totals = %+v", catTotals)
	}

	series, err := svc.MonthlySeries(ctx, ref, 3)
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if len(series) != 3 || series[2].Key != "2024-06" || series[1].Value.Cents != 500 {
		t.Fatalf("series = %+v", series)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, validTx()); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if txs, _ := svc.List(ctx); len(txs) != 0 {
		t.Fatalf("clear left %d records", len(txs))
	}
}
