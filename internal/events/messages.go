package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kinds of expense events published after a successful mutation.
const (
	KindCreated = "created"
	KindDeleted = "deleted"
)

// ExpenseEvent is the lightweight message the worker consumes. It carries
// only identifiers; the worker resolves the full record from the store.
type ExpenseEvent struct {
	Kind      string    `json:"kind"`
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEvent(kind string, id, ownerID int64) *ExpenseEvent {
	return &ExpenseEvent{
		Kind:      kind,
		ID:        id,
		OwnerID:   ownerID,
		Timestamp: time.Now(),
	}
}

func (e *ExpenseEvent) Validate() error {
	if e.Kind != KindCreated && e.Kind != KindDeleted {
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
	if e.ID <= 0 {
		return fmt.Errorf("invalid event id %d", e.ID)
	}
	return nil
}

func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var e ExpenseEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
