package mirror

import (
	"context"
	"time"
)

// Row is one journal entry appended to the mirror for every store
// mutation the worker observes.
type Row struct {
	Timestamp time.Time
	Op        string
	ID        string
	Title     string
	Amount    string
	Category  string
	Date      string
}

// RowAppender is the outbound port for mirror destinations.
type RowAppender interface {
	AppendRow(ctx context.Context, row Row) error
}
