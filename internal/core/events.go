package core

import "time"

type EventType string

const (
	ExpenseCreated EventType = "expense.created"
	ExpenseUpdated EventType = "expense.updated"
	ExpenseDeleted EventType = "expense.deleted"
)

// ExpenseEvent describes a change to the expense collection.
// Expense is the zero value for deletions.
type ExpenseEvent struct {
	Type      EventType
	ExpenseID string
	Expense   Expense
	At        time.Time
}
