package amqp

import (
	"encoding/json"
	"time"

	"spendlog/internal/core"
)

// EventType names a committed expense mutation.
type EventType string

const (
	EventCreated EventType = "expense.created"
	EventUpdated EventType = "expense.updated"
	EventDeleted EventType = "expense.deleted"
)

// ExpenseEvent is published after a mutation has been written to storage.
// Deleted events carry only the ID.
type ExpenseEvent struct {
	Type      EventType `json:"type"`
	ID        int64     `json:"id"`
	Amount    float64   `json:"amount,omitempty"`
	Category  string    `json:"category,omitempty"`
	Note      string    `json:"note,omitempty"`
	Date      string    `json:"date,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseEvent builds an event from the stored expense
func NewExpenseEvent(t EventType, e core.Expense) *ExpenseEvent {
	ev := &ExpenseEvent{
		Type:      t,
		ID:        e.ID,
		Timestamp: time.Now().UTC(),
	}
	if t != EventDeleted {
		ev.Amount = e.Amount
		ev.Category = e.Category
		ev.Note = e.Note
		ev.Date = e.Date.String()
	}
	return ev
}

// RoutingKey is the topic the event is published under.
func (m *ExpenseEvent) RoutingKey() string {
	return string(m.Type)
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventFromJSON creates a message from JSON bytes
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var msg ExpenseEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
