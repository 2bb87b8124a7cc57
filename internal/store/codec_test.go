package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saki/internal/core"
)

func TestEncodeExpenseShape(t *testing.T) {
	e := core.Expense{
		ID:            "abc",
		Description:   "Lunch",
		Amount:        decimal.RequireFromString("12.50"),
		Category:      core.CategoryMeals,
		PaymentMethod: core.PaymentCreditCard,
		Date:          core.NewDate(2024, time.January, 15),
		CreatedAt:     time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(EncodeExpense(e))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "abc",
		"description": "Lunch",
		"amount": 12.5,
		"category": "Meals & Dining",
		"payment_method": "Credit Card",
		"date": "2024-01-15",
		"notes": null,
		"receipt_path": null,
		"is_reimbursable": false,
		"created_at": "2024-01-15T12:00:00Z",
		"updated_at": "2024-01-15T12:00:00Z"
	}`, string(b))
}

func TestDecodeExpenseAcceptsLegacyTimestamps(t *testing.T) {
	var rec ExpenseRecord
	raw := `{"id":"x","description":"Cab","amount":7,"category":"Travel","payment_method":"Cash",
		"date":"2024-02-03T00:00:00","notes":"n","receipt_path":null,"is_reimbursable":true,
		"created_at":"2024-02-03T10:11:12.123456","updated_at":"2024-02-03T10:11:12.123456"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))

	e, err := DecodeExpense(rec)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-03", e.Date.String())
	assert.Equal(t, "7.00", e.Amount.StringFixed(2))
	assert.Equal(t, core.CategoryTravel, e.Category)
	assert.Equal(t, "n", e.Notes)
	assert.Empty(t, e.ReceiptPath)
	assert.True(t, e.IsReimbursable)
	assert.Equal(t, 10, e.CreatedAt.Hour())
}

func TestDecodeExpenseCorrupt(t *testing.T) {
	good := EncodeExpense(core.Expense{
		ID: "a", Amount: decimal.NewFromInt(1), Category: core.CategoryOther,
		PaymentMethod: core.PaymentCash, Date: core.NewDate(2024, time.May, 1),
	})
	cases := map[string]func(*ExpenseRecord){
		"amount":   func(r *ExpenseRecord) { r.Amount = "abc" },
		"category": func(r *ExpenseRecord) { r.Category = "Food" },
		"payment":  func(r *ExpenseRecord) { r.PaymentMethod = "IOU" },
		"date":     func(r *ExpenseRecord) { r.Date = "05/01/2024" },
		"created":  func(r *ExpenseRecord) { r.CreatedAt = "yesterday" },
	}
	for name, mod := range cases {
		t.Run(name, func(t *testing.T) {
			rec := good
			mod(&rec)
			_, err := DecodeExpense(rec)
			assert.ErrorIs(t, err, core.ErrCorrupt)
			assert.Equal(t, core.KindCorrupt, core.KindOf(err))
		})
	}
}

func TestReportCodec(t *testing.T) {
	r := core.ExpenseReport{
		ID:        "r1",
		Title:     "January",
		StartDate: core.NewDate(2024, time.January, 1),
		EndDate:   core.NewDate(2024, time.January, 31),
		Notes:     "monthly",
		CreatedAt: time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC),
		Expenses: []core.Expense{{
			ID: "e1", Description: "Paper", Amount: decimal.RequireFromString("3.99"),
			Category: core.CategorySupplies, PaymentMethod: core.PaymentCash,
			Date: core.NewDate(2024, time.January, 5),
		}},
	}
	rec := EncodeReport(r)
	assert.Equal(t, "r1", rec.ReportID)
	require.Len(t, rec.Expenses, 1)

	back, err := DecodeReport(rec)
	require.NoError(t, err)
	assert.Equal(t, r.Title, back.Title)
	assert.Equal(t, r.Notes, back.Notes)
	assert.True(t, back.StartDate.Equal(r.StartDate))
	assert.True(t, back.EndDate.Equal(r.EndDate))
	require.Len(t, back.Expenses, 1)
	assert.True(t, back.Expenses[0].Amount.Equal(r.Expenses[0].Amount))

	rec.Expenses[0].Category = "nope"
	_, err = DecodeReport(rec)
	assert.ErrorIs(t, err, core.ErrCorrupt)
}

func TestFilterBetween(t *testing.T) {
	all := []core.Expense{
		{ID: "a", Date: core.NewDate(2024, time.January, 1)},
		{ID: "b", Date: core.NewDate(2024, time.January, 31)},
		{ID: "c", Date: core.NewDate(2024, time.February, 1)},
	}
	got := FilterBetween(all, core.NewDate(2024, time.January, 1), core.NewDate(2024, time.January, 31))
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}
