// Package repository layers expense domain operations over a store.ExpenseStore.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"saki/internal/analytics"
	"saki/internal/core"
	"saki/internal/log"
	"saki/internal/store"
)

// Publisher receives a notification for every successful mutation.
type Publisher interface {
	Publish(ctx context.Context, ev core.ExpenseEvent) error
}

// NewExpense is the input to Create. A zero Date means today.
type NewExpense struct {
	Description    string
	Amount         decimal.Decimal
	Category       core.Category
	PaymentMethod  core.PaymentMethod
	Date           core.Date
	Notes          string
	ReceiptPath    string
	IsReimbursable bool
}

type Repository struct {
	store     store.ExpenseStore
	now       func() time.Time
	newID     func() string
	logger    *log.Logger
	publisher Publisher
}

type Option func(*Repository)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithIDGenerator overrides the random UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(r *Repository) { r.newID = fn }
}

func WithLogger(l *log.Logger) Option {
	return func(r *Repository) { r.logger = l.WithComponent(log.ComponentExpense) }
}

// WithPublisher registers an event sink. Publish errors are logged only.
func WithPublisher(p Publisher) Option {
	return func(r *Repository) { r.publisher = p }
}

func New(s store.ExpenseStore, opts ...Option) *Repository {
	r := &Repository{
		store:  s,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: log.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) Create(ctx context.Context, in NewExpense) (core.Expense, error) {
	now := r.now().UTC()
	date := in.Date
	if date.IsZero() {
		date = core.DateOf(r.now())
	}
	e := core.Expense{
		ID:             r.newID(),
		Description:    in.Description,
		Amount:         in.Amount,
		Category:       in.Category,
		PaymentMethod:  in.PaymentMethod,
		Date:           date,
		Notes:          in.Notes,
		ReceiptPath:    in.ReceiptPath,
		IsReimbursable: in.IsReimbursable,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	if err := r.store.SaveExpense(ctx, e); err != nil {
		r.logFailure(ctx, log.OpCreate, e.ID, err)
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	r.logger.InfoContext(ctx, "Expense created", log.NewFields().WithOperation(log.OpCreate).WithExpense(e).ToSlice()...)
	r.publish(ctx, core.ExpenseCreated, e)
	return e, nil
}

func (r *Repository) All(ctx context.Context) ([]core.Expense, error) {
	return r.store.LoadExpenses(ctx)
}

func (r *Repository) Get(ctx context.Context, id string) (core.Expense, error) {
	return r.store.FindExpense(ctx, id)
}

// Update applies u to the stored expense and bumps UpdatedAt. There is no
// concurrency check; the last writer wins.
func (r *Repository) Update(ctx context.Context, id string, u core.ExpenseUpdate) (core.Expense, error) {
	current, err := r.store.FindExpense(ctx, id)
	if err != nil {
		return core.Expense{}, err
	}
	updated := u.Apply(current)
	if err := updated.Validate(); err != nil {
		return core.Expense{}, err
	}
	updated.UpdatedAt = r.now().UTC()
	if !updated.UpdatedAt.After(current.UpdatedAt) {
		// clocks can stall between calls; keep UpdatedAt strictly advancing
		updated.UpdatedAt = current.UpdatedAt.Add(time.Microsecond)
	}
	if err := r.store.SaveExpense(ctx, updated); err != nil {
		r.logFailure(ctx, log.OpUpdate, id, err)
		return core.Expense{}, fmt.Errorf("update expense %s: %w", id, err)
	}

	r.logger.InfoContext(ctx, "Expense updated", log.NewFields().WithOperation(log.OpUpdate).WithExpense(updated).ToSlice()...)
	r.publish(ctx, core.ExpenseUpdated, updated)
	return updated, nil
}

// Delete removes the expense. Unknown ids are not an error and publish
// no event.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.store.FindExpense(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			r.logger.DebugContext(ctx, "Expense already absent", log.FieldOperation, log.OpDelete, log.FieldExpenseID, id)
			return nil
		}
		r.logFailure(ctx, log.OpDelete, id, err)
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	if err := r.store.DeleteExpense(ctx, id); err != nil {
		r.logFailure(ctx, log.OpDelete, id, err)
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	r.logger.InfoContext(ctx, "Expense deleted", log.FieldOperation, log.OpDelete, log.FieldExpenseID, id)
	r.publish(ctx, core.ExpenseDeleted, core.Expense{ID: id})
	return nil
}

func (r *Repository) ByCategory(ctx context.Context, c core.Category) ([]core.Expense, error) {
	return r.filter(ctx, func(e core.Expense) bool { return e.Category == c })
}

func (r *Repository) Between(ctx context.Context, start, end core.Date) ([]core.Expense, error) {
	return r.store.ExpensesBetween(ctx, start, end)
}

// ForMonth returns the expenses dated in the given calendar month.
func (r *Repository) ForMonth(ctx context.Context, year int, month time.Month) ([]core.Expense, error) {
	start, end := core.MonthBounds(year, month)
	return r.store.ExpensesBetween(ctx, start, end)
}

// Search matches query against descriptions, ignoring case.
func (r *Repository) Search(ctx context.Context, query string) ([]core.Expense, error) {
	q := strings.ToLower(query)
	return r.filter(ctx, func(e core.Expense) bool {
		return strings.Contains(strings.ToLower(e.Description), q)
	})
}

func (r *Repository) CategoryBreakdown(ctx context.Context) ([]analytics.Group[core.Category], error) {
	all, err := r.store.LoadExpenses(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.GroupBy(all, func(e core.Expense) core.Category { return e.Category }), nil
}

func (r *Repository) PaymentMethodBreakdown(ctx context.Context) ([]analytics.Group[core.PaymentMethod], error) {
	all, err := r.store.LoadExpenses(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.GroupBy(all, func(e core.Expense) core.PaymentMethod { return e.PaymentMethod }), nil
}

// Total sums every stored expense.
func (r *Repository) Total(ctx context.Context) (decimal.Decimal, error) {
	all, err := r.store.LoadExpenses(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return analytics.Statistics(all).Total, nil
}

func (r *Repository) filter(ctx context.Context, keep func(core.Expense) bool) ([]core.Expense, error) {
	all, err := r.store.LoadExpenses(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.Expense, 0, len(all))
	for _, e := range all {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *Repository) publish(ctx context.Context, typ core.EventType, e core.Expense) {
	if r.publisher == nil {
		return
	}
	ev := core.ExpenseEvent{Type: typ, ExpenseID: e.ID, Expense: e, At: r.now().UTC()}
	if err := r.publisher.Publish(ctx, ev); err != nil {
		r.logger.ErrorContext(ctx, "Failed to publish expense event",
			log.FieldEventType, string(typ),
			log.FieldExpenseID, e.ID,
			log.FieldError, err)
	}
}

func (r *Repository) logFailure(ctx context.Context, op, id string, err error) {
	fields := log.NewFields().WithOperation(op).WithError(err)
	fields[log.FieldExpenseID] = id
	r.logger.ErrorContext(ctx, "Expense operation failed", fields.ToSlice()...)
}
