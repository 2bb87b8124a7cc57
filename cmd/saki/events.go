package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"saki/internal/amqp"
	"saki/internal/cli"
	"saki/internal/core"
	"saki/internal/export/sheets"
	"saki/internal/log"
	"saki/internal/worker"
)

func (a *app) events(args []string) error {
	fs := newFlagSet("events", a.stderr)
	dialTimeout := fs.Duration("dial-timeout", 30*time.Second, "Give up connecting to the broker after this long")
	syncSheets := fs.Bool("sync-sheets", false, "Append created and updated expenses to Google Sheets")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if a.cfg.AMQPURL == "" {
		return errors.New("events: AMQP_URL is not set")
	}

	ctx, cancel := cli.GracefulShutdown(log.NewContext(context.Background(), a.logger), a.logger, nil)
	defer cancel()

	handler := func(_ context.Context, msg *amqp.ExpenseMessage) error {
		_, err := fmt.Fprintln(a.stdout, formatEvent(msg))
		return err
	}
	if *syncSheets {
		client, err := sheets.New(ctx, sheets.Config{
			SpreadsheetID:   a.cfg.GoogleSpreadsheetID,
			SheetName:       a.cfg.GoogleSheetName,
			CredentialsJSON: a.cfg.GoogleServiceAccountJSON,
			CredentialsFile: a.cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			return err
		}
		if err := a.open(ctx); err != nil {
			return err
		}
		defer a.close()
		w := worker.NewSyncWorker(a.backend.Store, client, a.logger)
		echo := handler
		handler = func(ctx context.Context, msg *amqp.ExpenseMessage) error {
			if err := w.HandleMessage(ctx, msg); err != nil {
				return err
			}
			return echo(ctx, msg)
		}
	}

	dialCtx, dialCancel := context.WithTimeout(ctx, *dialTimeout)
	client, err := amqp.Dial(dialCtx, a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue)
	dialCancel()
	if err != nil {
		return err
	}
	defer client.Close()

	a.logger.WithComponent(log.ComponentAMQP).InfoContext(ctx, "Listening for expense events",
		log.FieldOperation, log.OpConsume,
		"queue", a.cfg.AMQPQueue)

	err = client.ConsumeExpenseEvents(ctx, handler)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func formatEvent(msg *amqp.ExpenseMessage) string {
	parts := []string{
		msg.Timestamp.Local().Format(time.DateTime),
		string(msg.Type),
		msg.ExpenseID,
	}
	if msg.Type != core.ExpenseDeleted {
		parts = append(parts, core.FormatCurrency(msg.Amount))
		if msg.Category != "" {
			parts = append(parts, msg.Category)
		}
	}
	return strings.Join(parts, "  ")
}

func (a *app) info(args []string) error {
	fs := newFlagSet("info", a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	company := a.cfg.Company()
	defCat, defPM := a.cfg.Defaults()
	tw := newTable(a.stdout)
	fmt.Fprintf(tw, "Company:\t%s\n", orDash(company.Name))
	fmt.Fprintf(tw, "Tax ID:\t%s\n", orDash(company.TaxID))
	fmt.Fprintf(tw, "Email:\t%s\n", orDash(company.Email))
	fmt.Fprintf(tw, "Phone:\t%s\n", orDash(company.Phone))
	fmt.Fprintf(tw, "Address:\t%s\n", orDash(company.Address))
	fmt.Fprintf(tw, "Fiscal year starts:\t%s\n", company.FiscalYearStart)
	fmt.Fprintf(tw, "Currency:\t%s\n", company.Currency)
	fmt.Fprintf(tw, "Backend:\t%s\n", a.cfg.DataBackend)
	switch a.cfg.DataBackend {
	case "json":
		fmt.Fprintf(tw, "Data directory:\t%s\n", a.cfg.DataDir)
	case "sqlite":
		fmt.Fprintf(tw, "Database:\t%s\n", a.cfg.SQLiteDBPath)
	}
	fmt.Fprintf(tw, "Export directory:\t%s\n", a.cfg.ExportDir)
	fmt.Fprintf(tw, "Events:\t%s\n", onOff(a.cfg.AMQPURL != ""))
	fmt.Fprintf(tw, "Default category:\t%s\n", defCat)
	fmt.Fprintf(tw, "Default payment method:\t%s\n", defPM)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, "Categories:")
	for _, c := range core.Categories() {
		fmt.Fprintf(a.stdout, "  %s\n", c)
	}
	fmt.Fprintln(a.stdout, "Payment methods:")
	for _, m := range core.PaymentMethods() {
		fmt.Fprintf(a.stdout, "  %s\n", m)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
