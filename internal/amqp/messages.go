package amqp

import (
	"encoding/json"
	"time"
)

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
	OpCleared Op = "cleared"
)

// Op identifies the store mutation an event describes.
type Op string

// TransactionEvent is a lightweight change notification. It carries only
// the transaction ID and operation; the mirror worker resolves the full
// record from the store.
type TransactionEvent struct {
	ID        string    `json:"id"`
	Op        Op        `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionEvent(id string, op Op) *TransactionEvent {
	return &TransactionEvent{
		ID:        id,
		Op:        op,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON creates an event from JSON bytes.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var ev TransactionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
