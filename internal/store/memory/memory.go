package memory

import (
	"context"
	"fmt"
	"sync"

	"saki/internal/core"
	"saki/internal/store"
)

// Store keeps everything in process memory. It is used for tests and for
// throwaway sessions; nothing survives Close.
type Store struct {
	mu       sync.Mutex
	expenses []core.Expense
	reports  []core.ExpenseReport
}

var _ store.Store = (*Store)(nil)

func New() *Store { return &Store{} }

// NewWithExpenses returns a store seeded with the given expenses.
func NewWithExpenses(expenses ...core.Expense) *Store {
	return &Store{expenses: append([]core.Expense(nil), expenses...)}
}

func (s *Store) Initialize(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) SaveExpense(_ context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].ID == e.ID {
			s.expenses[i] = e
			return nil
		}
	}
	s.expenses = append(s.expenses, e)
	return nil
}

func (s *Store) LoadExpenses(context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense{}, s.expenses...), nil
}

func (s *Store) FindExpense(_ context.Context, id string) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.expenses[:0]
	for _, e := range s.expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.expenses = kept
	return nil
}

func (s *Store) ExpensesBetween(ctx context.Context, start, end core.Date) ([]core.Expense, error) {
	all, _ := s.LoadExpenses(ctx)
	return store.FilterBetween(all, start, end), nil
}

func (s *Store) SaveReport(_ context.Context, r core.ExpenseReport) error {
	r = r.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reports {
		if s.reports[i].ID == r.ID {
			s.reports[i] = r
			return nil
		}
	}
	s.reports = append(s.reports, r)
	return nil
}

func (s *Store) LoadReports(context.Context) ([]core.ExpenseReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.ExpenseReport, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (s *Store) FindReport(_ context.Context, id string) (core.ExpenseReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reports {
		if r.ID == id {
			return r.Clone(), nil
		}
	}
	return core.ExpenseReport{}, fmt.Errorf("report %s: %w", id, core.ErrNotFound)
}

func (s *Store) DeleteReport(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.reports[:0]
	for _, r := range s.reports {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.reports = kept
	return nil
}
