package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"kharcha/internal/amqp"
	"kharcha/internal/core"
	"kharcha/internal/store"
)

var ErrNotFound = errors.New("transaction not found")

// TransactionService orchestrates store mutations and best-effort
// change-event publishing. Events never fail the user request: the
// local save is the source of truth.
type TransactionService struct {
	store  *store.Store
	events *amqp.Client
}

func NewTransactionService(st *store.Store, events *amqp.Client) *TransactionService {
	return &TransactionService{
		store:  st,
		events: events,
	}
}

// List returns the full persisted collection.
func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	return s.store.Load(ctx)
}

// Totals loads the collection and aggregates it as of ref.
func (s *TransactionService) Totals(ctx context.Context, ref time.Time) (core.Totals, error) {
	txs, err := s.store.Load(ctx)
	if err != nil {
		return core.Totals{}, fmt.Errorf("compute totals: %w", err)
	}
	return core.ComputeTotals(txs, ref), nil
}

// CategoryTotals loads the collection and sums it per category.
func (s *TransactionService) CategoryTotals(ctx context.Context) (core.CategoryTotals, error) {
	txs, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("compute category totals: %w", err)
	}
	return core.ComputeCategoryTotals(txs), nil
}

// MonthlySeries loads the collection and buckets it into a rolling
// window of months ending at ref.
func (s *TransactionService) MonthlySeries(ctx context.Context, ref time.Time, months int) ([]core.MonthPoint, error) {
	txs, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("compute monthly series: %w", err)
	}
	return core.ComputeMonthlySeries(txs, ref, months), nil
}

// Create validates and persists a new transaction, assigning an ID when
// the caller left it empty.
func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	txs, err := s.store.Load(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	if err := s.store.Save(ctx, store.Add(txs, tx)); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"id", tx.ID,
		"title", tx.Title,
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category)

	s.publishEvent(ctx, tx.ID, amqp.OpCreated)
	return tx, nil
}

// Update replaces an existing transaction by ID.
func (s *TransactionService) Update(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	txs, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	updated, found := store.Update(txs, tx)
	if !found {
		return ErrNotFound
	}
	if err := s.store.Save(ctx, updated); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction updated", "id", tx.ID)
	s.publishEvent(ctx, tx.ID, amqp.OpUpdated)
	return nil
}

// Delete removes a transaction by ID.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	txs, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	remaining, found := store.Remove(txs, id)
	if !found {
		return ErrNotFound
	}
	if err := s.store.Save(ctx, remaining); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	s.publishEvent(ctx, id, amqp.OpDeleted)
	return nil
}

// Clear removes every transaction. The confirmation step is the
// caller's responsibility; Clear itself is unconditional.
func (s *TransactionService) Clear(ctx context.Context) error {
	if err := s.store.Save(ctx, nil); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	slog.InfoContext(ctx, "All transactions cleared")
	s.publishEvent(ctx, "", amqp.OpCleared)
	return nil
}

func (s *TransactionService) publishEvent(ctx context.Context, id string, op amqp.Op) {
	if s.events == nil {
		slog.DebugContext(ctx, "Event publishing disabled, skipping", "op", op)
		return
	}
	if err := s.events.PublishTransactionEvent(ctx, id, op); err != nil {
		// Don't fail the request - the local save succeeded.
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"id", id, "op", op, "error", err)
	}
}

// Close closes the store and the event client.
func (s *TransactionService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if s.events != nil {
		if err := s.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}

	return nil
}
