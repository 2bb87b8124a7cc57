package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saki/internal/core"
	"saki/internal/store/memory"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

type recordingPublisher struct {
	events []core.ExpenseEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev core.ExpenseEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

func newRepo(t *testing.T, opts ...Option) (*Repository, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)}
	base := []Option{WithClock(clock.Now), WithIDGenerator(sequentialIDs())}
	return New(memory.New(), append(base, opts...)...), clock
}

func input(desc, amount string, cat core.Category, d core.Date) NewExpense {
	return NewExpense{
		Description:   desc,
		Amount:        decimal.RequireFromString(amount),
		Category:      cat,
		PaymentMethod: core.PaymentCash,
		Date:          d,
	}
}

func TestCreateThenGet(t *testing.T) {
	ctx := context.Background()
	repo, clock := newRepo(t)

	in := input("Team lunch", "42.10", core.CategoryMeals, core.NewDate(2024, time.March, 14))
	in.Notes = "4 people"
	in.IsReimbursable = true
	created, err := repo.Create(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, "id-1", created.ID)
	assert.Equal(t, clock.Now(), created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := repo.Get(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "Team lunch", got.Description)
	assert.True(t, got.Amount.Equal(in.Amount))
	assert.Equal(t, core.CategoryMeals, got.Category)
	assert.Equal(t, "2024-03-14", got.Date.String())
	assert.Equal(t, "4 people", got.Notes)
	assert.True(t, got.IsReimbursable)
}

func TestCreateDefaultsDateToToday(t *testing.T) {
	repo, _ := newRepo(t)
	e, err := repo.Create(context.Background(), input("x", "1", core.CategoryOther, core.Date{}))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", e.Date.String())
}

func TestCreateRejectsInvalidEnums(t *testing.T) {
	repo, _ := newRepo(t)
	in := input("x", "1", 0, core.NewDate(2024, time.January, 1))
	_, err := repo.Create(context.Background(), in)
	assert.ErrorIs(t, err, core.ErrInvalidCategory)

	all, err := repo.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	repo, clock := newRepo(t)
	created, err := repo.Create(ctx, input("Taxi", "12.00", core.CategoryTravel, core.NewDate(2024, time.March, 1)))
	require.NoError(t, err)

	clock.Advance(time.Hour)
	amount := decimal.RequireFromString("15.00")
	updated, err := repo.Update(ctx, created.ID, core.ExpenseUpdate{Amount: &amount})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, clock.Now(), updated.UpdatedAt)
	assert.True(t, updated.Amount.Equal(amount))
	assert.Equal(t, "Taxi", updated.Description)
	assert.Equal(t, core.CategoryTravel, updated.Category)

	stored, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(amount))
}

func TestUpdateAdvancesWithFrozenClock(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	created, err := repo.Create(ctx, input("a", "1", core.CategoryOther, core.NewDate(2024, time.March, 1)))
	require.NoError(t, err)

	desc := "b"
	updated, err := repo.Update(ctx, created.ID, core.ExpenseUpdate{Description: &desc})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestUpdateErrors(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	_, err := repo.Update(ctx, "missing", core.ExpenseUpdate{})
	assert.ErrorIs(t, err, core.ErrNotFound)

	created, err := repo.Create(ctx, input("a", "1", core.CategoryOther, core.NewDate(2024, time.March, 1)))
	require.NoError(t, err)
	bad := core.Category(200)
	_, err = repo.Update(ctx, created.ID, core.ExpenseUpdate{Category: &bad})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	created, err := repo.Create(ctx, input("a", "1", core.CategoryOther, core.NewDate(2024, time.March, 1)))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.Get(ctx, created.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.NoError(t, repo.Delete(ctx, "never-existed"))
}

func TestFilters(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	for _, in := range []NewExpense{
		input("Flight to Rome", "300", core.CategoryTravel, core.NewDate(2023, time.December, 31)),
		input("Printer paper", "12.99", core.CategorySupplies, core.NewDate(2024, time.January, 1)),
		input("Hotel ROME", "450", core.CategoryTravel, core.NewDate(2024, time.January, 20)),
		input("Ink", "30", core.CategorySupplies, core.NewDate(2024, time.February, 1)),
	} {
		_, err := repo.Create(ctx, in)
		require.NoError(t, err)
	}

	travel, err := repo.ByCategory(ctx, core.CategoryTravel)
	require.NoError(t, err)
	assert.Len(t, travel, 2)

	jan, err := repo.ForMonth(ctx, 2024, time.January)
	require.NoError(t, err)
	require.Len(t, jan, 2)
	assert.Equal(t, "Printer paper", jan[0].Description)
	assert.Equal(t, "Hotel ROME", jan[1].Description)

	dec, err := repo.ForMonth(ctx, 2023, time.December)
	require.NoError(t, err)
	require.Len(t, dec, 1)
	assert.Equal(t, "Flight to Rome", dec[0].Description)

	between, err := repo.Between(ctx, core.NewDate(2024, time.January, 1), core.NewDate(2024, time.February, 1))
	require.NoError(t, err)
	assert.Len(t, between, 3)

	rome, err := repo.Search(ctx, "rome")
	require.NoError(t, err)
	assert.Len(t, rome, 2)

	none, err := repo.Search(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)

	total, err := repo.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, "792.99", total.StringFixed(2))
}

func TestBreakdownsKeepEncounterOrder(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	d := core.NewDate(2024, time.March, 1)
	for _, in := range []NewExpense{
		input("a", "5", core.CategoryRent, d),
		input("b", "10", core.CategoryMeals, d),
		input("c", "2.50", core.CategoryRent, d),
	} {
		_, err := repo.Create(ctx, in)
		require.NoError(t, err)
	}

	cats, err := repo.CategoryBreakdown(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, core.CategoryRent, cats[0].Key)
	assert.Equal(t, 2, cats[0].Count)
	assert.Equal(t, "7.50", cats[0].Total.StringFixed(2))
	assert.Equal(t, core.CategoryMeals, cats[1].Key)

	pms, err := repo.PaymentMethodBreakdown(ctx)
	require.NoError(t, err)
	require.Len(t, pms, 1)
	assert.Equal(t, 3, pms[0].Count)
}

func TestPublishesEvents(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	repo, _ := newRepo(t, WithPublisher(pub))

	e, err := repo.Create(ctx, input("a", "1", core.CategoryOther, core.NewDate(2024, time.March, 1)))
	require.NoError(t, err)
	notes := "n"
	_, err = repo.Update(ctx, e.ID, core.ExpenseUpdate{Notes: &notes})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, e.ID))

	require.Len(t, pub.events, 3)
	assert.Equal(t, core.ExpenseCreated, pub.events[0].Type)
	assert.Equal(t, core.ExpenseUpdated, pub.events[1].Type)
	assert.Equal(t, "n", pub.events[1].Expense.Notes)
	assert.Equal(t, core.ExpenseDeleted, pub.events[2].Type)
	for _, ev := range pub.events {
		assert.Equal(t, e.ID, ev.ExpenseID)
	}
}

func TestDeleteUnknownPublishesNothing(t *testing.T) {
	pub := &recordingPublisher{}
	repo, _ := newRepo(t, WithPublisher(pub))

	require.NoError(t, repo.Delete(context.Background(), "never-existed"))
	assert.Empty(t, pub.events)
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	repo, _ := newRepo(t, WithPublisher(pub))

	_, err := repo.Create(context.Background(), input("a", "1", core.CategoryOther, core.NewDate(2024, time.March, 1)))
	require.NoError(t, err)
	assert.Len(t, pub.events, 1)
}

type failingStore struct{ *memory.Store }

func (failingStore) SaveExpense(context.Context, core.Expense) error {
	return fmt.Errorf("write: %w", core.ErrStorage)
}

func TestStoreFailureIsWrapped(t *testing.T) {
	repo := New(failingStore{memory.New()}, WithIDGenerator(sequentialIDs()))
	_, err := repo.Create(context.Background(), input("a", "1", core.CategoryOther, core.NewDate(2024, time.March, 1)))
	assert.ErrorIs(t, err, core.ErrStorage)
	assert.Equal(t, core.KindIO, core.KindOf(err))
}
