package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"saki/internal/analytics"
	"saki/internal/core"
	"saki/internal/export"
	"saki/internal/export/sheets"
	"saki/internal/log"
)

func (a *app) export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("export: expected csv, text or sheets")
	}
	kind, args := args[0], args[1:]
	if kind != "csv" && kind != "text" && kind != "sheets" {
		return fmt.Errorf("export: unknown format %q", kind)
	}

	fs := newFlagSet("export "+kind, a.stderr)
	out := fs.String("o", "", "Output file (default a timestamped name under EXPORT_DIR)")
	month := fs.String("month", "", "Only this month, YYYY-MM")
	var from, to dateFlag
	fs.Var(&from, "from", "Start date, YYYY-MM-DD")
	fs.Var(&to, "to", "End date, YYYY-MM-DD")
	reportID := fs.String("report", "", "Export the expenses captured by this report")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var expenses []core.Expense
	if *reportID != "" {
		r, err := a.reports.Get(ctx, *reportID)
		if err != nil {
			return err
		}
		expenses = r.Expenses
	} else {
		var err error
		if expenses, err = a.selectExpenses(ctx, *month, from, to); err != nil {
			return err
		}
	}

	logger := a.logger.WithComponent(log.ComponentExport)
	now := a.now()

	switch kind {
	case "csv":
		path := a.exportPath(*out, export.CSVFileName(now))
		if err := export.ToFile(path, func(w io.Writer) error {
			return export.WriteCSV(w, expenses)
		}); err != nil {
			return err
		}
		logger.InfoContext(ctx, "CSV exported", log.FieldPath, path, log.FieldCount, len(expenses))
		fmt.Fprintf(a.stdout, "Exported %d expenses to %s\n", len(expenses), path)

	case "text":
		if len(expenses) == 0 {
			return export.ErrNothingToExport
		}
		ov := analytics.BuildOverview(expenses, analytics.OverviewOptions{
			TopN:         a.cfg.TopN,
			TrendMonths:  a.cfg.TrendMonths,
			ForecastDays: a.cfg.ForecastDays,
			Now:          now,
		})
		path := a.exportPath(*out, export.ReportFileName(now))
		if err := export.ToFile(path, func(w io.Writer) error {
			return export.WriteAnalyticsReport(w, ov, now)
		}); err != nil {
			return err
		}
		logger.InfoContext(ctx, "Analytics report exported", log.FieldPath, path, log.FieldCount, len(expenses))
		fmt.Fprintf(a.stdout, "Wrote analytics report to %s\n", path)

	case "sheets":
		if len(expenses) == 0 {
			return export.ErrNothingToExport
		}
		client, err := sheets.New(ctx, sheets.Config{
			SpreadsheetID:   a.cfg.GoogleSpreadsheetID,
			SheetName:       a.cfg.GoogleSheetName,
			CredentialsJSON: a.cfg.GoogleServiceAccountJSON,
			CredentialsFile: a.cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			return err
		}
		ref, err := client.AppendExpenses(ctx, expenses)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Appended %d expenses to %s\n", len(expenses), ref)
	}
	return nil
}

func (a *app) exportPath(out, name string) string {
	if out != "" {
		return out
	}
	return filepath.Join(a.cfg.ExportDir, name)
}
