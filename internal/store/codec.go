package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"saki/internal/core"
)

// ExpenseRecord is the persisted shape of an expense.
type ExpenseRecord struct {
	ID             string      `json:"id"`
	Description    string      `json:"description"`
	Amount         json.Number `json:"amount"`
	Category       string      `json:"category"`
	PaymentMethod  string      `json:"payment_method"`
	Date           string      `json:"date"`
	Notes          *string     `json:"notes"`
	ReceiptPath    *string     `json:"receipt_path"`
	IsReimbursable bool        `json:"is_reimbursable"`
	CreatedAt      string      `json:"created_at"`
	UpdatedAt      string      `json:"updated_at"`
}

// ReportRecord is the persisted shape of a report with its captured expenses.
type ReportRecord struct {
	ReportID  string          `json:"report_id"`
	Title     string          `json:"title"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Expenses  []ExpenseRecord `json:"expenses"`
	Notes     *string         `json:"notes"`
	CreatedAt string          `json:"created_at"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	// naive ISO timestamps from older files are read as UTC
	return time.Parse("2006-01-02T15:04:05.999999999", s)
}

func EncodeExpense(e core.Expense) ExpenseRecord {
	return ExpenseRecord{
		ID:             e.ID,
		Description:    e.Description,
		Amount:         json.Number(e.Amount.String()),
		Category:       e.Category.String(),
		PaymentMethod:  e.PaymentMethod.String(),
		Date:           e.Date.String(),
		Notes:          optional(e.Notes),
		ReceiptPath:    optional(e.ReceiptPath),
		IsReimbursable: e.IsReimbursable,
		CreatedAt:      formatTimestamp(e.CreatedAt),
		UpdatedAt:      formatTimestamp(e.UpdatedAt),
	}
}

// DecodeExpense converts a stored record back to an expense. Any field that
// fails to parse is reported as core.ErrCorrupt.
func DecodeExpense(r ExpenseRecord) (core.Expense, error) {
	amount, err := decimal.NewFromString(r.Amount.String())
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %s: amount %q: %w", r.ID, r.Amount, core.ErrCorrupt)
	}
	cat, err := core.ParseCategory(r.Category)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %s: %w: %w", r.ID, core.ErrCorrupt, err)
	}
	pm, err := core.ParsePaymentMethod(r.PaymentMethod)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %s: %w: %w", r.ID, core.ErrCorrupt, err)
	}
	date, err := core.ParseDate(r.Date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %s: %w: %w", r.ID, core.ErrCorrupt, err)
	}
	created, err := parseTimestamp(r.CreatedAt)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %s: created_at: %w", r.ID, core.ErrCorrupt)
	}
	updated, err := parseTimestamp(r.UpdatedAt)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %s: updated_at: %w", r.ID, core.ErrCorrupt)
	}
	return core.Expense{
		ID:             r.ID,
		Description:    r.Description,
		Amount:         amount,
		Category:       cat,
		PaymentMethod:  pm,
		Date:           date,
		Notes:          deref(r.Notes),
		ReceiptPath:    deref(r.ReceiptPath),
		IsReimbursable: r.IsReimbursable,
		CreatedAt:      created,
		UpdatedAt:      updated,
	}, nil
}

func EncodeReport(r core.ExpenseReport) ReportRecord {
	expenses := make([]ExpenseRecord, 0, len(r.Expenses))
	for _, e := range r.Expenses {
		expenses = append(expenses, EncodeExpense(e))
	}
	return ReportRecord{
		ReportID:  r.ID,
		Title:     r.Title,
		StartDate: r.StartDate.String(),
		EndDate:   r.EndDate.String(),
		Expenses:  expenses,
		Notes:     optional(r.Notes),
		CreatedAt: formatTimestamp(r.CreatedAt),
	}
}

func DecodeReport(r ReportRecord) (core.ExpenseReport, error) {
	start, err := core.ParseDate(r.StartDate)
	if err != nil {
		return core.ExpenseReport{}, fmt.Errorf("report %s: %w: %w", r.ReportID, core.ErrCorrupt, err)
	}
	end, err := core.ParseDate(r.EndDate)
	if err != nil {
		return core.ExpenseReport{}, fmt.Errorf("report %s: %w: %w", r.ReportID, core.ErrCorrupt, err)
	}
	created, err := parseTimestamp(r.CreatedAt)
	if err != nil {
		return core.ExpenseReport{}, fmt.Errorf("report %s: created_at: %w", r.ReportID, core.ErrCorrupt)
	}
	expenses := make([]core.Expense, 0, len(r.Expenses))
	for _, rec := range r.Expenses {
		e, err := DecodeExpense(rec)
		if err != nil {
			return core.ExpenseReport{}, fmt.Errorf("report %s: %w", r.ReportID, err)
		}
		expenses = append(expenses, e)
	}
	return core.ExpenseReport{
		ID:        r.ReportID,
		Title:     r.Title,
		StartDate: start,
		EndDate:   end,
		Expenses:  expenses,
		Notes:     deref(r.Notes),
		CreatedAt: created,
	}, nil
}
