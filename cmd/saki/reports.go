package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"saki/internal/core"
)

func (a *app) report(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("report: expected create, list, show or delete")
	}
	switch args[0] {
	case "create":
		return a.reportCreate(ctx, args[1:])
	case "list":
		return a.reportList(ctx, args[1:])
	case "show":
		return a.reportShow(ctx, args[1:])
	case "delete":
		return a.reportDelete(ctx, args[1:])
	default:
		return fmt.Errorf("report: unknown subcommand %q", args[0])
	}
}

func (a *app) reportCreate(ctx context.Context, args []string) error {
	fs := newFlagSet("report create", a.stderr)
	title := fs.String("title", "", "Report title (required)")
	month := fs.String("month", "", "Cover this month, YYYY-MM")
	var from, to dateFlag
	fs.Var(&from, "from", "Start date, YYYY-MM-DD")
	fs.Var(&to, "to", "End date, YYYY-MM-DD")
	notes := fs.String("notes", "", "Free-form notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*title) == "" {
		return core.NewValidationError("title is required")
	}

	start, end := from.value, to.value
	if *month != "" {
		year, m, err := parseMonth(*month)
		if err != nil {
			return err
		}
		start, end = core.MonthBounds(year, m)
	}
	if start.IsZero() || end.IsZero() {
		return errors.New("give -month or both -from and -to")
	}

	r, err := a.reports.Create(ctx, strings.TrimSpace(*title), start, end, *notes)
	if err != nil {
		return err
	}
	s := a.reports.Summary(r)
	fmt.Fprintf(a.stdout, "Created report %s (%d expenses, total %s)\n",
		r.ID, s.Count, core.FormatCurrency(s.Total))
	return nil
}

func (a *app) reportList(ctx context.Context, args []string) error {
	fs := newFlagSet("report list", a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	all, err := a.reports.List(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Fprintln(a.stdout, "No reports found.")
		return nil
	}
	tw := newTable(a.stdout)
	fmt.Fprintln(tw, "ID\tTITLE\tPERIOD\tEXPENSES\tTOTAL")
	for _, r := range all {
		s := a.reports.Summary(r)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			r.ID, r.Title, s.Period, s.Count, core.FormatCurrency(s.Total))
	}
	return tw.Flush()
}

func (a *app) reportShow(ctx context.Context, args []string) error {
	fs := newFlagSet("report show", a.stderr)
	withExpenses := fs.Bool("expenses", false, "Also list the captured expenses")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := oneArg(fs, "report id")
	if err != nil {
		return err
	}
	s, err := a.reports.SummaryByID(ctx, id)
	if err != nil {
		return err
	}

	tw := newTable(a.stdout)
	fmt.Fprintf(tw, "Report:\t%s\n", s.Title)
	fmt.Fprintf(tw, "ID:\t%s\n", s.ReportID)
	fmt.Fprintf(tw, "Period:\t%s\n", s.Period)
	fmt.Fprintf(tw, "Expenses:\t%d\n", s.Count)
	fmt.Fprintf(tw, "Total:\t%s\n", core.FormatCurrency(s.Total))
	fmt.Fprintf(tw, "Average:\t%s\n", core.FormatCurrency(s.Average))
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(s.CategoryTotals) > 0 {
		fmt.Fprintln(a.stdout)
		tw = newTable(a.stdout)
		fmt.Fprintln(tw, "CATEGORY\tTOTAL")
		for _, ct := range s.CategoryTotals {
			fmt.Fprintf(tw, "%s\t%s\n", ct.Category, core.FormatCurrency(ct.Total))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if !*withExpenses {
		return nil
	}
	r, err := a.reports.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout)
	tw = newTable(a.stdout)
	fmt.Fprintln(tw, "ID\tDATE\tDESCRIPTION\tAMOUNT")
	for _, e := range r.Expenses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Date, e.Description, core.FormatCurrency(e.Amount))
	}
	return tw.Flush()
}

func (a *app) reportDelete(ctx context.Context, args []string) error {
	fs := newFlagSet("report delete", a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := oneArg(fs, "report id")
	if err != nil {
		return err
	}
	if err := a.reports.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Deleted report %s\n", id)
	return nil
}

