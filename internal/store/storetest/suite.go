// Package storetest holds a conformance suite every store.Store backend runs.
package storetest

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"saki/internal/core"
	"saki/internal/store"
)

type Suite struct {
	suite.Suite
	// NewStore returns a fresh, uninitialized store for each test.
	NewStore func() store.Store
	// Reopen returns a second handle on the same medium, or nil when the
	// backend does not persist.
	Reopen func() store.Store

	ctx   context.Context
	store store.Store
}

func (s *Suite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.NewStore()
	s.Require().NoError(s.store.Initialize(s.ctx))
}

func (s *Suite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func Expense(id string, amount string, cat core.Category, d core.Date) core.Expense {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return core.Expense{
		ID:            id,
		Description:   "expense " + id,
		Amount:        decimal.RequireFromString(amount),
		Category:      cat,
		PaymentMethod: core.PaymentCash,
		Date:          d,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}
}

func (s *Suite) assertSameExpense(want, got core.Expense) {
	s.Equal(want.ID, got.ID)
	s.Equal(want.Description, got.Description)
	s.True(want.Amount.Equal(got.Amount), "amount %s != %s", want.Amount, got.Amount)
	s.Equal(want.Category, got.Category)
	s.Equal(want.PaymentMethod, got.PaymentMethod)
	s.True(want.Date.Equal(got.Date), "date %s != %s", want.Date, got.Date)
	s.Equal(want.Notes, got.Notes)
	s.Equal(want.ReceiptPath, got.ReceiptPath)
	s.Equal(want.IsReimbursable, got.IsReimbursable)
	s.True(want.CreatedAt.Equal(got.CreatedAt))
	s.True(want.UpdatedAt.Equal(got.UpdatedAt))
}

func (s *Suite) TestEmptyStore() {
	all, err := s.store.LoadExpenses(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)

	reports, err := s.store.LoadReports(s.ctx)
	s.Require().NoError(err)
	s.Empty(reports)
}

func (s *Suite) TestInitializeIsIdempotent() {
	e := Expense("a", "1.00", core.CategoryOther, core.NewDate(2024, time.January, 1))
	s.Require().NoError(s.store.SaveExpense(s.ctx, e))
	s.Require().NoError(s.store.Initialize(s.ctx))

	all, err := s.store.LoadExpenses(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *Suite) TestSaveAndFind() {
	e := Expense("a", "12.50", core.CategoryMeals, core.NewDate(2024, time.January, 15))
	e.Notes = "client lunch"
	e.ReceiptPath = "/tmp/r.pdf"
	e.IsReimbursable = true
	s.Require().NoError(s.store.SaveExpense(s.ctx, e))

	got, err := s.store.FindExpense(s.ctx, "a")
	s.Require().NoError(err)
	s.assertSameExpense(e, got)

	_, err = s.store.FindExpense(s.ctx, "missing")
	s.ErrorIs(err, core.ErrNotFound)
}

func (s *Suite) TestUpsertKeepsPosition() {
	d := core.NewDate(2024, time.January, 1)
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.store.SaveExpense(s.ctx, Expense(fmt.Sprint(i), "1", core.CategoryOther, d)))
	}
	changed := Expense("1", "99.99", core.CategoryRent, d)
	s.Require().NoError(s.store.SaveExpense(s.ctx, changed))

	all, err := s.store.LoadExpenses(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal([]string{"0", "1", "2"}, []string{all[0].ID, all[1].ID, all[2].ID})
	s.assertSameExpense(changed, all[1])
}

func (s *Suite) TestDelete() {
	d := core.NewDate(2024, time.January, 1)
	s.Require().NoError(s.store.SaveExpense(s.ctx, Expense("a", "1", core.CategoryOther, d)))
	s.Require().NoError(s.store.SaveExpense(s.ctx, Expense("b", "2", core.CategoryOther, d)))

	s.Require().NoError(s.store.DeleteExpense(s.ctx, "a"))
	s.Require().NoError(s.store.DeleteExpense(s.ctx, "a"))
	s.Require().NoError(s.store.DeleteExpense(s.ctx, "never"))

	all, err := s.store.LoadExpenses(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal("b", all[0].ID)
}

func (s *Suite) TestExpensesBetween() {
	for _, e := range []core.Expense{
		Expense("dec", "1", core.CategoryOther, core.NewDate(2023, time.December, 31)),
		Expense("jan1", "1", core.CategoryOther, core.NewDate(2024, time.January, 1)),
		Expense("jan31", "1", core.CategoryOther, core.NewDate(2024, time.January, 31)),
		Expense("feb", "1", core.CategoryOther, core.NewDate(2024, time.February, 1)),
	} {
		s.Require().NoError(s.store.SaveExpense(s.ctx, e))
	}
	got, err := s.store.ExpensesBetween(s.ctx, core.NewDate(2024, time.January, 1), core.NewDate(2024, time.January, 31))
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("jan1", got[0].ID)
	s.Equal("jan31", got[1].ID)

	none, err := s.store.ExpensesBetween(s.ctx, core.NewDate(2024, time.March, 1), core.NewDate(2024, time.February, 1))
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *Suite) TestReports() {
	e := Expense("e", "5.25", core.CategoryTravel, core.NewDate(2024, time.January, 3))
	r := core.ExpenseReport{
		ID:        "r1",
		Title:     "January",
		StartDate: core.NewDate(2024, time.January, 1),
		EndDate:   core.NewDate(2024, time.January, 31),
		Expenses:  []core.Expense{e},
		CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(s.store.SaveReport(s.ctx, r))

	got, err := s.store.FindReport(s.ctx, "r1")
	s.Require().NoError(err)
	s.Equal("January", got.Title)
	s.Require().Len(got.Expenses, 1)
	s.assertSameExpense(e, got.Expenses[0])

	r.Title = "Jan (revised)"
	s.Require().NoError(s.store.SaveReport(s.ctx, r))
	all, err := s.store.LoadReports(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal("Jan (revised)", all[0].Title)

	s.Require().NoError(s.store.DeleteReport(s.ctx, "r1"))
	_, err = s.store.FindReport(s.ctx, "r1")
	s.ErrorIs(err, core.ErrNotFound)
	s.NoError(s.store.DeleteReport(s.ctx, "r1"))
}

func (s *Suite) TestPersistsAcrossHandles() {
	if s.Reopen == nil {
		s.T().Skip("backend does not persist")
	}
	e := Expense("p", "3.33", core.CategoryUtilities, core.NewDate(2024, time.June, 6))
	s.Require().NoError(s.store.SaveExpense(s.ctx, e))

	other := s.Reopen()
	defer other.Close()
	s.Require().NoError(other.Initialize(s.ctx))
	got, err := other.FindExpense(s.ctx, "p")
	s.Require().NoError(err)
	s.assertSameExpense(e, got)
}
