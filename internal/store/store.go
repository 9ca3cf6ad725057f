package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"kharcha/internal/core"
)

// DefaultKey matches the localStorage key the original browser app
// persisted under, so an imported blob loads as-is.
const DefaultKey = "expenses_v1"

// Store persists the full transaction collection as one JSON array
// under a fixed key. There is no incremental persistence: Save always
// overwrites the previous blob.
type Store struct {
	kv  KV
	key string
}

func New(kv KV) *Store {
	return &Store{kv: kv, key: DefaultKey}
}

// Load reads the persisted collection. A missing or corrupt blob is
// treated as an empty collection and never surfaced as an error; only
// backend I/O failures are returned.
func (s *Store) Load(ctx context.Context) ([]core.Transaction, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	if !ok {
		return []core.Transaction{}, nil
	}
	var txs []core.Transaction
	if err := json.Unmarshal(raw, &txs); err != nil {
		slog.WarnContext(ctx, "Stored blob is corrupt, starting empty", "key", s.key, "error", err)
		return []core.Transaction{}, nil
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	return txs, nil
}

// Save serializes and writes the whole collection.
func (s *Store) Save(ctx context.Context, txs []core.Transaction) error {
	if txs == nil {
		txs = []core.Transaction{}
	}
	raw, err := json.Marshal(txs)
	if err != nil {
		return fmt.Errorf("marshal transactions: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, raw); err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.kv != nil {
		return s.kv.Close()
	}
	return nil
}

// The collection transforms below are pure: they return a new slice and
// leave the input untouched. The caller is responsible for persisting.

// Add appends a transaction.
func Add(txs []core.Transaction, tx core.Transaction) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs)+1)
	out = append(out, txs...)
	return append(out, tx)
}

// Update replaces the transaction with the same ID in place. The second
// return value reports whether a matching record was found.
func Update(txs []core.Transaction, tx core.Transaction) ([]core.Transaction, bool) {
	out := make([]core.Transaction, len(txs))
	copy(out, txs)
	for i := range out {
		if out[i].ID == tx.ID {
			out[i] = tx
			return out, true
		}
	}
	return out, false
}

// Remove drops the transaction with the given ID.
func Remove(txs []core.Transaction, id string) ([]core.Transaction, bool) {
	out := make([]core.Transaction, 0, len(txs))
	found := false
	for _, tx := range txs {
		if tx.ID == id {
			found = true
			continue
		}
		out = append(out, tx)
	}
	return out, found
}

// FilterMonth keeps transactions whose date falls in the given YYYY-MM
// month. An empty key returns a copy of the full input.
func FilterMonth(txs []core.Transaction, monthKey string) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if monthKey == "" || tx.Date.MonthKey() == monthKey {
			out = append(out, tx)
		}
	}
	return out
}

// SortByDateDesc returns a copy sorted newest first. ISO date strings
// sort lexically; malformed dates sink to the end.
func SortByDateDesc(txs []core.Transaction) []core.Transaction {
	out := make([]core.Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Date, out[j].Date
		if a.Valid() != b.Valid() {
			return a.Valid()
		}
		return strings.Compare(a.String(), b.String()) > 0
	})
	return out
}
