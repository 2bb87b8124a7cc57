// Package reports builds and summarizes expense reports. A report is a
// snapshot: its expenses are copies taken at creation and never refreshed.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"saki/internal/cache"
	"saki/internal/core"
	"saki/internal/log"
	"saki/internal/store"
)

// ExpenseSource supplies the expenses for a date range.
type ExpenseSource interface {
	Between(ctx context.Context, start, end core.Date) ([]core.Expense, error)
}

// Summary is a read-only projection of a report.
type Summary struct {
	ReportID       string
	Title          string
	Period         string
	Total          decimal.Decimal
	Count          int
	CategoryTotals []core.CategoryTotal
	Average        decimal.Decimal
}

type Builder struct {
	expenses  ExpenseSource
	store     store.ReportStore
	summaries cache.Cache[string, Summary]
	cacheSize int
	cacheTTL  time.Duration
	now       func() time.Time
	newID     func() string
	logger    *log.Logger
}

type Option func(*Builder)

func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(b *Builder) { b.newID = fn }
}

func WithLogger(l *log.Logger) Option {
	return func(b *Builder) { b.logger = l.WithComponent(log.ComponentReport) }
}

// WithCacheSize bounds the number of cached summaries.
func WithCacheSize(n int) Option {
	return func(b *Builder) { b.cacheSize = n }
}

// WithCacheTTL expires cached summaries after ttl. Zero keeps them until
// evicted or deleted.
func WithCacheTTL(ttl time.Duration) Option {
	return func(b *Builder) { b.cacheTTL = ttl }
}

func NewBuilder(expenses ExpenseSource, reports store.ReportStore, opts ...Option) *Builder {
	b := &Builder{
		expenses:  expenses,
		store:     reports,
		cacheSize: 64,
		now:       time.Now,
		newID:     uuid.NewString,
		logger:    log.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.summaries = cache.NewLRU[string, Summary](b.cacheSize, b.cacheTTL).WithClock(b.now)
	return b
}

// Create captures the expenses dated within [start, end] into a new report
// and persists it.
func (b *Builder) Create(ctx context.Context, title string, start, end core.Date, notes string) (core.ExpenseReport, error) {
	if start.IsZero() || end.IsZero() {
		return core.ExpenseReport{}, core.ErrInvalidDate
	}
	expenses, err := b.expenses.Between(ctx, start, end)
	if err != nil {
		return core.ExpenseReport{}, fmt.Errorf("collect report expenses: %w", err)
	}
	r := core.ExpenseReport{
		ID:        b.newID(),
		Title:     title,
		StartDate: start,
		EndDate:   end,
		Expenses:  append([]core.Expense(nil), expenses...),
		Notes:     notes,
		CreatedAt: b.now().UTC(),
	}
	if err := b.store.SaveReport(ctx, r); err != nil {
		b.logger.ErrorContext(ctx, "Failed to save report", log.NewFields().WithReport(r).WithError(err).ToSlice()...)
		return core.ExpenseReport{}, fmt.Errorf("save report: %w", err)
	}
	b.logger.InfoContext(ctx, "Report created",
		log.FieldReportID, r.ID,
		log.FieldCount, len(r.Expenses),
		"period", r.Period())
	return r, nil
}

func (b *Builder) List(ctx context.Context) ([]core.ExpenseReport, error) {
	return b.store.LoadReports(ctx)
}

func (b *Builder) Get(ctx context.Context, id string) (core.ExpenseReport, error) {
	return b.store.FindReport(ctx, id)
}

func (b *Builder) Delete(ctx context.Context, id string) error {
	if err := b.store.DeleteReport(ctx, id); err != nil {
		return fmt.Errorf("delete report %s: %w", id, err)
	}
	b.summaries.Delete(id)
	b.logger.InfoContext(ctx, "Report deleted", log.FieldReportID, id)
	return nil
}

// Summary projects r. It never touches storage.
func (b *Builder) Summary(r core.ExpenseReport) Summary {
	return Summarize(r)
}

// SummaryByID loads and summarizes a stored report, caching the result.
func (b *Builder) SummaryByID(ctx context.Context, id string) (Summary, error) {
	if n := b.summaries.CleanExpired(); n > 0 {
		b.logger.DebugContext(ctx, "Expired cached summaries", log.FieldCount, n)
	}
	if s, ok := b.summaries.Get(id); ok {
		return s, nil
	}
	r, err := b.store.FindReport(ctx, id)
	if err != nil {
		return Summary{}, err
	}
	s := Summarize(r)
	b.summaries.Set(id, s)
	return s, nil
}

func Summarize(r core.ExpenseReport) Summary {
	total := r.Total()
	avg := decimal.Zero
	if n := len(r.Expenses); n > 0 {
		avg = total.Div(decimal.NewFromInt(int64(n)))
	}
	totals := r.CategoryTotals()
	for i := range totals {
		totals[i].Total = core.RoundMoney(totals[i].Total)
	}
	return Summary{
		ReportID:       r.ID,
		Title:          r.Title,
		Period:         r.Period(),
		Total:          core.RoundMoney(total),
		Count:          len(r.Expenses),
		CategoryTotals: totals,
		Average:        core.RoundMoney(avg),
	}
}
