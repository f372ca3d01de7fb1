package amqp

import (
	"strings"
	"testing"

	"spendlog/internal/core"
)

func TestNewExpenseEvent(t *testing.T) {
	e := core.Expense{ID: 9, Amount: 12.5, Category: "Food", Note: "lunch", Date: core.NewDate(2024, 6, 3)}

	tests := []struct {
		name       string
		typ        EventType
		wantFields bool
	}{
		{"created", EventCreated, true},
		{"updated", EventUpdated, true},
		{"deleted", EventDeleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := NewExpenseEvent(tt.typ, e)
			if ev.ID != 9 || ev.RoutingKey() != string(tt.typ) {
				t.Fatalf("unexpected event: %+v", ev)
			}
			if ev.Timestamp.IsZero() {
				t.Fatal("timestamp should be set")
			}
			if got := ev.Category == "Food" && ev.Date == "2024-06-03"; got != tt.wantFields {
				t.Fatalf("fields present = %v, want %v (%+v)", got, tt.wantFields, ev)
			}
		})
	}
}

func TestExpenseEventJSON(t *testing.T) {
	ev := NewExpenseEvent(EventDeleted, core.Expense{ID: 3})
	body, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(body), "category") {
		t.Fatalf("deleted event should omit expense fields: %s", body)
	}

	back, err := ExpenseEventFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Type != EventDeleted || back.ID != 3 {
		t.Fatalf("unexpected event: %+v", back)
	}

	if _, err := ExpenseEventFromJSON([]byte("{")); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestCloseWithoutConnection(t *testing.T) {
	c := &Client{exchangeName: "spendlog"}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
