package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type (
	Expense struct {
		ID             string
		Description    string
		Amount         decimal.Decimal
		Category       Category
		PaymentMethod  PaymentMethod
		Date           Date
		Notes          string
		ReceiptPath    string // Not checked for existence
		IsReimbursable bool
		CreatedAt      time.Time
		UpdatedAt      time.Time
	}

	// ExpenseReport is a named snapshot of the expenses in a date range.
	// Expenses are copies taken at creation time and are never refreshed.
	ExpenseReport struct {
		ID        string
		Title     string
		StartDate Date
		EndDate   Date
		Expenses  []Expense
		Notes     string
		CreatedAt time.Time
	}

	// Company is static metadata about the business keeping the books.
	Company struct {
		Name            string
		TaxID           string
		Email           string
		Phone           string
		Address         string
		FiscalYearStart time.Month
		Currency        string
	}

	// CategoryTotal is the summed amount of one category.
	CategoryTotal struct {
		Category Category
		Total    decimal.Decimal
	}
)

// ExpenseUpdate carries the fields to change on an existing expense.
// Nil fields are left untouched.
type ExpenseUpdate struct {
	Description    *string
	Amount         *decimal.Decimal
	Category       *Category
	PaymentMethod  *PaymentMethod
	Date           *Date
	Notes          *string
	ReceiptPath    *string
	IsReimbursable *bool
}

// IsEmpty reports whether the update changes nothing.
func (u ExpenseUpdate) IsEmpty() bool {
	return u.Description == nil && u.Amount == nil && u.Category == nil &&
		u.PaymentMethod == nil && u.Date == nil && u.Notes == nil &&
		u.ReceiptPath == nil && u.IsReimbursable == nil
}

// Apply returns a copy of e with the requested fields replaced.
// ID and timestamps are never touched.
func (u ExpenseUpdate) Apply(e Expense) Expense {
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.Amount != nil {
		e.Amount = *u.Amount
	}
	if u.Category != nil {
		e.Category = *u.Category
	}
	if u.PaymentMethod != nil {
		e.PaymentMethod = *u.PaymentMethod
	}
	if u.Date != nil {
		e.Date = *u.Date
	}
	if u.Notes != nil {
		e.Notes = *u.Notes
	}
	if u.ReceiptPath != nil {
		e.ReceiptPath = *u.ReceiptPath
	}
	if u.IsReimbursable != nil {
		e.IsReimbursable = *u.IsReimbursable
	}
	return e
}

// Validate checks the fields that must decode back from storage.
// Description and amount sign are left to the caller.
func (e Expense) Validate() error {
	if !e.Category.IsValid() {
		return ErrInvalidCategory
	}
	if !e.PaymentMethod.IsValid() {
		return ErrInvalidPaymentMethod
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Clone returns a deep copy of the report.
func (r ExpenseReport) Clone() ExpenseReport {
	r.Expenses = append([]Expense(nil), r.Expenses...)
	return r
}

// AddExpense appends a copy of e to the report.
func (r *ExpenseReport) AddExpense(e Expense) {
	r.Expenses = append(r.Expenses, e)
}

// RemoveExpense drops every expense with the given id.
func (r *ExpenseReport) RemoveExpense(id string) {
	kept := r.Expenses[:0]
	for _, e := range r.Expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	r.Expenses = kept
}

// Total sums the amounts of the captured expenses.
func (r ExpenseReport) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range r.Expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// CategoryTotals sums amounts per category in the order categories first appear.
func (r ExpenseReport) CategoryTotals() []CategoryTotal {
	var out []CategoryTotal
	index := map[Category]int{}
	for _, e := range r.Expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, CategoryTotal{Category: e.Category, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(e.Amount)
	}
	return out
}

// Period formats the report's date bounds for display.
func (r ExpenseReport) Period() string {
	return r.StartDate.String() + " to " + r.EndDate.String()
}
