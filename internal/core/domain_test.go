package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestExpenseUpdateApply(t *testing.T) {
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	base := Expense{
		ID:            "e1",
		Description:   "Taxi",
		Amount:        amount("12.50"),
		Category:      CategoryTravel,
		PaymentMethod: PaymentCash,
		Date:          NewDate(2024, time.January, 1),
		CreatedAt:     created,
		UpdatedAt:     created,
	}

	newAmount := amount("99.99")
	notes := "airport"
	upd := ExpenseUpdate{Amount: &newAmount, Notes: &notes}
	require.False(t, upd.IsEmpty())

	got := upd.Apply(base)
	assert.Equal(t, "e1", got.ID)
	assert.Equal(t, "Taxi", got.Description)
	assert.True(t, got.Amount.Equal(newAmount))
	assert.Equal(t, "airport", got.Notes)
	assert.Equal(t, CategoryTravel, got.Category)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, created, got.UpdatedAt)

	// original untouched
	assert.True(t, base.Amount.Equal(amount("12.50")))
	assert.Empty(t, base.Notes)

	assert.True(t, ExpenseUpdate{}.IsEmpty())
}

func TestExpenseValidate(t *testing.T) {
	ok := Expense{Category: CategoryMeals, PaymentMethod: PaymentCreditCard, Date: NewDate(2024, time.March, 3)}
	require.NoError(t, ok.Validate())

	cases := []struct {
		name string
		mod  func(*Expense)
		want error
	}{
		{"category", func(e *Expense) { e.Category = 0 }, ErrInvalidCategory},
		{"payment", func(e *Expense) { e.PaymentMethod = 42 }, ErrInvalidPaymentMethod},
		{"date", func(e *Expense) { e.Date = Date{} }, ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := ok
			tc.mod(&e)
			err := e.Validate()
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestReportTotals(t *testing.T) {
	r := ExpenseReport{
		ID:        "r1",
		StartDate: NewDate(2024, time.January, 1),
		EndDate:   NewDate(2024, time.January, 31),
		Expenses: []Expense{
			{ID: "a", Amount: amount("10.00"), Category: CategoryMeals},
			{ID: "b", Amount: amount("5.25"), Category: CategoryTravel},
			{ID: "c", Amount: amount("4.75"), Category: CategoryMeals},
		},
	}

	assert.Equal(t, "20.00", r.Total().StringFixed(2))
	totals := r.CategoryTotals()
	require.Len(t, totals, 2)
	assert.Equal(t, CategoryMeals, totals[0].Category)
	assert.Equal(t, "14.75", totals[0].Total.StringFixed(2))
	assert.Equal(t, CategoryTravel, totals[1].Category)
	assert.Equal(t, "5.25", totals[1].Total.StringFixed(2))
	assert.Equal(t, "2024-01-01 to 2024-01-31", r.Period())

	empty := ExpenseReport{}
	assert.True(t, empty.Total().IsZero())
	assert.Empty(t, empty.CategoryTotals())
}

func TestReportAddRemoveClone(t *testing.T) {
	var r ExpenseReport
	r.AddExpense(Expense{ID: "a", Amount: amount("1")})
	r.AddExpense(Expense{ID: "b", Amount: amount("2")})

	clone := r.Clone()
	r.RemoveExpense("a")
	require.Len(t, r.Expenses, 1)
	assert.Equal(t, "b", r.Expenses[0].ID)

	require.Len(t, clone.Expenses, 2)
	assert.Equal(t, "a", clone.Expenses[0].ID)

	r.RemoveExpense("missing")
	assert.Len(t, r.Expenses, 1)
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindNone},
		{ErrNotFound, KindNotFound},
		{ErrInvalidAmount, KindValidation},
		{&ValidationError{Err: ErrInvalidCategory, Value: "x"}, KindValidation},
		{errors.Join(ErrStorage, errors.New("disk full")), KindIO},
		{errors.Join(ErrCorrupt, ErrInvalidCategory), KindCorrupt},
		{errors.New("boom"), KindInternal},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Fatalf("KindOf(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Err: ErrInvalidCategory, Value: "Food"}
	assert.Equal(t, `invalid category: "Food"`, err.Error())
	assert.Equal(t, "invalid amount", ErrInvalidAmount.Error())
}
