package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"saki/internal/analytics"
	"saki/internal/core"
	"saki/internal/export"
	"saki/internal/repository"
)

var errEmptyDescription = core.NewValidationError("description is required")

func (a *app) add(ctx context.Context, args []string) error {
	defCat, defPM := a.cfg.Defaults()

	fs := newFlagSet("add", a.stderr)
	description := fs.String("description", "", "What the expense was for (required)")
	amount := fs.String("amount", "", "Amount, e.g. 12.50 or 12,50 (required)")
	category := fs.String("category", defCat.String(), "Category")
	payment := fs.String("payment", defPM.String(), "Payment method")
	var date dateFlag
	fs.Var(&date, "date", "Date as YYYY-MM-DD (default today)")
	notes := fs.String("notes", "", "Free-form notes")
	receipt := fs.String("receipt", "", "Path to the receipt file")
	reimbursable := fs.Bool("reimbursable", false, "Mark as reimbursable")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*description) == "" {
		return errEmptyDescription
	}
	amt, err := core.ParseAmount(*amount)
	if err != nil {
		return err
	}
	cat, err := core.ParseCategory(*category)
	if err != nil {
		return err
	}
	pm, err := core.ParsePaymentMethod(*payment)
	if err != nil {
		return err
	}

	e, err := a.repo.Create(ctx, repository.NewExpense{
		Description:    strings.TrimSpace(*description),
		Amount:         amt,
		Category:       cat,
		PaymentMethod:  pm,
		Date:           date.value,
		Notes:          *notes,
		ReceiptPath:    *receipt,
		IsReimbursable: *reimbursable,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Created expense %s\n", e.ID)
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := newFlagSet("list", a.stderr)
	month := fs.String("month", "", "Only this month, YYYY-MM")
	var from, to dateFlag
	fs.Var(&from, "from", "Start date, YYYY-MM-DD")
	fs.Var(&to, "to", "End date, YYYY-MM-DD")
	category := fs.String("category", "", "Only this category")
	search := fs.String("search", "", "Case-insensitive text in the description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	expenses, err := a.selectExpenses(ctx, *month, from, to)
	if err != nil {
		return err
	}
	if *category != "" {
		cat, err := core.ParseCategory(*category)
		if err != nil {
			return err
		}
		if *month == "" && from.IsZero() && to.IsZero() {
			if expenses, err = a.repo.ByCategory(ctx, cat); err != nil {
				return err
			}
		} else {
			expenses = keep(expenses, func(e core.Expense) bool { return e.Category == cat })
		}
	}
	if *search != "" {
		hits, err := a.repo.Search(ctx, *search)
		if err != nil {
			return err
		}
		ids := make(map[string]bool, len(hits))
		for _, e := range hits {
			ids[e.ID] = true
		}
		expenses = keep(expenses, func(e core.Expense) bool { return ids[e.ID] })
	}

	if len(expenses) == 0 {
		fmt.Fprintln(a.stdout, "No expenses found.")
		return nil
	}
	tw := newTable(a.stdout)
	fmt.Fprintln(tw, "ID\tDATE\tDESCRIPTION\tCATEGORY\tPAYMENT\tAMOUNT")
	total := decimal.Zero
	for _, e := range expenses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Date, e.Description, e.Category, e.PaymentMethod, core.FormatCurrency(e.Amount))
		total = total.Add(e.Amount)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "\n%d expenses, total %s\n", len(expenses), core.FormatCurrency(total))
	return nil
}

// selectExpenses narrows by month or date range, whichever is given.
func (a *app) selectExpenses(ctx context.Context, month string, from, to dateFlag) ([]core.Expense, error) {
	switch {
	case month != "":
		year, m, err := parseMonth(month)
		if err != nil {
			return nil, err
		}
		return a.repo.ForMonth(ctx, year, m)
	case !from.IsZero() || !to.IsZero():
		if from.IsZero() || to.IsZero() {
			return nil, errors.New("-from and -to must be given together")
		}
		return a.repo.Between(ctx, from.value, to.value)
	default:
		return a.repo.All(ctx)
	}
}

func keep(expenses []core.Expense, pred func(core.Expense) bool) []core.Expense {
	out := expenses[:0:0]
	for _, e := range expenses {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

func (a *app) show(ctx context.Context, args []string) error {
	fs := newFlagSet("show", a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := oneArg(fs, "expense id")
	if err != nil {
		return err
	}
	e, err := a.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	tw := newTable(a.stdout)
	fmt.Fprintf(tw, "ID:\t%s\n", e.ID)
	fmt.Fprintf(tw, "Description:\t%s\n", e.Description)
	fmt.Fprintf(tw, "Amount:\t%s\n", core.FormatCurrency(e.Amount))
	fmt.Fprintf(tw, "Category:\t%s\n", e.Category)
	fmt.Fprintf(tw, "Payment method:\t%s\n", e.PaymentMethod)
	fmt.Fprintf(tw, "Date:\t%s\n", e.Date)
	fmt.Fprintf(tw, "Reimbursable:\t%t\n", e.IsReimbursable)
	if e.Notes != "" {
		fmt.Fprintf(tw, "Notes:\t%s\n", e.Notes)
	}
	if e.ReceiptPath != "" {
		fmt.Fprintf(tw, "Receipt:\t%s\n", e.ReceiptPath)
	}
	fmt.Fprintf(tw, "Created:\t%s\n", e.CreatedAt.Local().Format(export.GeneratedLayout))
	fmt.Fprintf(tw, "Updated:\t%s\n", e.UpdatedAt.Local().Format(export.GeneratedLayout))
	return tw.Flush()
}

func (a *app) update(ctx context.Context, args []string) error {
	fs := newFlagSet("update", a.stderr)
	description := fs.String("description", "", "New description")
	amount := fs.String("amount", "", "New amount")
	category := fs.String("category", "", "New category")
	payment := fs.String("payment", "", "New payment method")
	var date dateFlag
	fs.Var(&date, "date", "New date, YYYY-MM-DD")
	notes := fs.String("notes", "", "New notes (empty clears)")
	receipt := fs.String("receipt", "", "New receipt path (empty clears)")
	reimbursable := fs.Bool("reimbursable", false, "Reimbursable flag")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := oneArg(fs, "expense id")
	if err != nil {
		return err
	}

	var u core.ExpenseUpdate
	var verr error
	fs.Visit(func(f *flag.Flag) {
		if verr != nil {
			return
		}
		switch f.Name {
		case "description":
			d := strings.TrimSpace(*description)
			if d == "" {
				verr = errEmptyDescription
				return
			}
			u.Description = &d
		case "amount":
			amt, err := core.ParseAmount(*amount)
			if err != nil {
				verr = err
				return
			}
			u.Amount = &amt
		case "category":
			cat, err := core.ParseCategory(*category)
			if err != nil {
				verr = err
				return
			}
			u.Category = &cat
		case "payment":
			pm, err := core.ParsePaymentMethod(*payment)
			if err != nil {
				verr = err
				return
			}
			u.PaymentMethod = &pm
		case "date":
			d := date.value
			u.Date = &d
		case "notes":
			u.Notes = notes
		case "receipt":
			u.ReceiptPath = receipt
		case "reimbursable":
			u.IsReimbursable = reimbursable
		}
	})
	if verr != nil {
		return verr
	}
	if u.IsEmpty() {
		return errors.New("nothing to update: pass at least one field flag")
	}

	e, err := a.repo.Update(ctx, id, u)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Updated expense %s\n", e.ID)
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := newFlagSet("delete", a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := oneArg(fs, "expense id")
	if err != nil {
		return err
	}
	if err := a.repo.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Deleted expense %s\n", id)
	return nil
}

func (a *app) stats(ctx context.Context, args []string) error {
	fs := newFlagSet("stats", a.stderr)
	month := fs.String("month", "", "Only this month, YYYY-MM")
	var from, to dateFlag
	fs.Var(&from, "from", "Start date, YYYY-MM-DD")
	fs.Var(&to, "to", "End date, YYYY-MM-DD")
	by := fs.String("by", "", "Print a breakdown by 'category' or 'payment' instead")
	top := fs.Int("top", a.cfg.TopN, "Number of largest expenses to show")
	forecast := fs.Int("forecast", a.cfg.ForecastDays, "Days to project spending (0 disables)")
	trend := fs.Int("trend", a.cfg.TrendMonths, "Months of trend to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *by != "" {
		return a.breakdown(ctx, *by, *month, from, to)
	}

	expenses, err := a.selectExpenses(ctx, *month, from, to)
	if err != nil {
		return err
	}
	now := a.now()
	ov := analytics.BuildOverview(expenses, analytics.OverviewOptions{
		TopN:         *top,
		TrendMonths:  *trend,
		ForecastDays: *forecast,
		Now:          now,
	})
	return export.WriteAnalyticsReport(a.stdout, ov, now)
}

// breakdown prints grouped totals. The repository breakdowns cover the whole
// store; a month or date range groups just the selected expenses.
func (a *app) breakdown(ctx context.Context, by, month string, from, to dateFlag) error {
	if by != "category" && by != "payment" {
		return fmt.Errorf("unknown breakdown %q: use category or payment", by)
	}
	if month == "" && from.IsZero() && to.IsZero() {
		if by == "category" {
			groups, err := a.repo.CategoryBreakdown(ctx)
			if err != nil {
				return err
			}
			return printGroups(a, "CATEGORY", groups)
		}
		groups, err := a.repo.PaymentMethodBreakdown(ctx)
		if err != nil {
			return err
		}
		return printGroups(a, "PAYMENT METHOD", groups)
	}

	expenses, err := a.selectExpenses(ctx, month, from, to)
	if err != nil {
		return err
	}
	if by == "category" {
		return printGroups(a, "CATEGORY", analytics.GroupBy(expenses, func(e core.Expense) core.Category { return e.Category }))
	}
	return printGroups(a, "PAYMENT METHOD", analytics.GroupBy(expenses, func(e core.Expense) core.PaymentMethod { return e.PaymentMethod }))
}

type groupKey interface {
	comparable
	String() string
}

func printGroups[K groupKey](a *app, title string, groups []analytics.Group[K]) error {
	if len(groups) == 0 {
		fmt.Fprintln(a.stdout, "No expenses found.")
		return nil
	}
	tw := newTable(a.stdout)
	fmt.Fprintf(tw, "%s\tCOUNT\tTOTAL\n", title)
	for _, g := range groups {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", g.Key, g.Count, core.FormatCurrency(g.Total))
	}
	return tw.Flush()
}

func (a *app) seed(ctx context.Context, args []string) error {
	fs := newFlagSet("seed", a.stderr)
	count := fs.Int("n", 25, "Number of expenses to generate")
	months := fs.Int("months", 6, "Spread the dates over this many past months")
	seed := fs.Int64("seed", 0, "Random seed (0 picks one)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *count < 1 || *months < 1 {
		return errors.New("-n and -months must be positive")
	}

	faker := gofakeit.New(*seed)
	categories := core.Categories()
	methods := core.PaymentMethods()
	end := a.now()
	start := end.AddDate(0, -*months, 0)

	total := decimal.Zero
	for i := 0; i < *count; i++ {
		in := repository.NewExpense{
			Description:    faker.Company(),
			Amount:         core.RoundMoney(decimal.NewFromFloat(faker.Price(5, 500))),
			Category:       categories[faker.Number(0, len(categories)-1)],
			PaymentMethod:  methods[faker.Number(0, len(methods)-1)],
			Date:           core.DateOf(faker.DateRange(start, end)),
			IsReimbursable: faker.Number(1, 5) == 1,
		}
		if faker.Bool() {
			in.Notes = faker.Sentence(6)
		}
		e, err := a.repo.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("seed expense %d: %w", i+1, err)
		}
		total = total.Add(e.Amount)
	}
	fmt.Fprintf(a.stdout, "Seeded %d expenses totalling %s between %s and %s\n",
		*count, core.FormatCurrency(total), start.Format(core.DateLayout), end.Format(core.DateLayout))
	return nil
}
