package store

import (
	"context"

	"saki/internal/core"
)

// Ports for persistence backends.
type (
	ExpenseStore interface {
		// Initialize prepares the backing medium. It is idempotent.
		Initialize(ctx context.Context) error
		// SaveExpense inserts e or replaces the record with the same id in place.
		SaveExpense(ctx context.Context, e core.Expense) error
		// LoadExpenses returns every expense in insertion order.
		LoadExpenses(ctx context.Context) ([]core.Expense, error)
		// FindExpense returns core.ErrNotFound when no record matches.
		FindExpense(ctx context.Context, id string) (core.Expense, error)
		// DeleteExpense succeeds even when nothing matches.
		DeleteExpense(ctx context.Context, id string) error
		// ExpensesBetween returns expenses dated within [start, end].
		ExpensesBetween(ctx context.Context, start, end core.Date) ([]core.Expense, error)
	}

	ReportStore interface {
		SaveReport(ctx context.Context, r core.ExpenseReport) error
		LoadReports(ctx context.Context) ([]core.ExpenseReport, error)
		FindReport(ctx context.Context, id string) (core.ExpenseReport, error)
		DeleteReport(ctx context.Context, id string) error
	}

	Store interface {
		ExpenseStore
		ReportStore
		Close() error
	}
)

// FilterBetween keeps the expenses dated within [start, end].
func FilterBetween(all []core.Expense, start, end core.Date) []core.Expense {
	out := make([]core.Expense, 0, len(all))
	for _, e := range all {
		if e.Date.Within(start, end) {
			out = append(out, e)
		}
	}
	return out
}
