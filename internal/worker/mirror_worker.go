// Package worker consumes transaction change events and mirrors them to
// an external journal.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"kharcha/internal/amqp"
	"kharcha/internal/core"
	"kharcha/internal/mirror"
	"kharcha/internal/store"
)

// MirrorWorker resolves change events against the store and appends
// journal rows to the mirror destination.
type MirrorWorker struct {
	store *store.Store
	rows  mirror.RowAppender
}

func NewMirrorWorker(st *store.Store, rows mirror.RowAppender) *MirrorWorker {
	return &MirrorWorker{
		store: st,
		rows:  rows,
	}
}

// HandleEvent processes a single change event. Deletes and clears are
// journaled as tombstones since the record is already gone from the
// store; a created/updated event whose record has since disappeared is
// logged and dropped rather than requeued forever.
func (w *MirrorWorker) HandleEvent(ctx context.Context, ev *amqp.TransactionEvent) error {
	switch ev.Op {
	case amqp.OpDeleted, amqp.OpCleared:
		return w.appendTombstone(ctx, ev)
	}

	txs, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load store for event: %w", err)
	}

	for _, tx := range txs {
		if tx.ID == ev.ID {
			return w.appendTransaction(ctx, ev, tx)
		}
	}

	slog.WarnContext(ctx, "Event refers to a missing transaction, skipping",
		"id", ev.ID, "op", ev.Op)
	return nil
}

// AppendSnapshotMarker journals an audit row summarizing the current
// collection (count and grand total). Called periodically and at
// startup.
func (w *MirrorWorker) AppendSnapshotMarker(ctx context.Context) error {
	txs, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load store for snapshot: %w", err)
	}

	totals := core.ComputeTotals(txs, time.Now())
	row := mirror.Row{
		Timestamp: time.Now(),
		Op:        "snapshot",
		Title:     fmt.Sprintf("%d transactions", len(txs)),
		Amount:    totals.Total.String(),
	}
	if err := w.rows.AppendRow(ctx, row); err != nil {
		return fmt.Errorf("append snapshot marker: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot marker mirrored",
		"count", len(txs),
		"total_cents", totals.Total.Cents)
	return nil
}

// Run consumes events and emits periodic snapshot markers until ctx is
// canceled.
func (w *MirrorWorker) Run(ctx context.Context, events *amqp.Client, snapshotInterval time.Duration) error {
	if err := w.AppendSnapshotMarker(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup snapshot marker failed", "error", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return events.ConsumeTransactionEvents(ctx, func(ev *amqp.TransactionEvent) error {
			return w.HandleEvent(ctx, ev)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(snapshotInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := w.AppendSnapshotMarker(ctx); err != nil {
					slog.ErrorContext(ctx, "Periodic snapshot marker failed", "error", err)
				}
			}
		}
	})

	return g.Wait()
}

func (w *MirrorWorker) appendTransaction(ctx context.Context, ev *amqp.TransactionEvent, tx core.Transaction) error {
	row := mirror.Row{
		Timestamp: ev.Timestamp,
		Op:        string(ev.Op),
		ID:        tx.ID,
		Title:     tx.Title,
		Amount:    tx.Amount.String(),
		Category:  string(tx.Category),
		Date:      tx.Date.String(),
	}
	if err := w.rows.AppendRow(ctx, row); err != nil {
		return fmt.Errorf("append transaction row: %w", err)
	}
	return nil
}

func (w *MirrorWorker) appendTombstone(ctx context.Context, ev *amqp.TransactionEvent) error {
	row := mirror.Row{
		Timestamp: ev.Timestamp,
		Op:        string(ev.Op),
		ID:        ev.ID,
	}
	if err := w.rows.AppendRow(ctx, row); err != nil {
		return fmt.Errorf("append tombstone row: %w", err)
	}
	return nil
}
