package amqp

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"saki/internal/core"
)

// ExpenseMessage is the wire form of a core.ExpenseEvent. Deletions carry a
// zero amount and an empty category.
type ExpenseMessage struct {
	Type      core.EventType  `json:"type"`
	ExpenseID string          `json:"expense_id"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewExpenseMessage converts an event to its message form
func NewExpenseMessage(ev core.ExpenseEvent) *ExpenseMessage {
	msg := &ExpenseMessage{
		Type:      ev.Type,
		ExpenseID: ev.ExpenseID,
		Amount:    ev.Expense.Amount,
		Timestamp: ev.At,
	}
	if ev.Expense.Category.IsValid() {
		msg.Category = ev.Expense.Category.String()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	return msg
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseMessageFromJSON parses a message body
func ExpenseMessageFromJSON(data []byte) (*ExpenseMessage, error) {
	var msg ExpenseMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
