// Package memory is an in-process mirror destination used in tests.
package memory

import (
	"context"
	"sync"

	"kharcha/internal/mirror"
)

type Appender struct {
	mu   sync.Mutex
	rows []mirror.Row
}

func New() *Appender {
	return &Appender{}
}

func (a *Appender) AppendRow(_ context.Context, row mirror.Row) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rows = append(a.rows, row)
	return nil
}

// Rows returns a copy of everything appended so far.
func (a *Appender) Rows() []mirror.Row {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]mirror.Row, len(a.rows))
	copy(out, a.rows)
	return out
}
