// Package worker turns expense events into Google Sheets rows.
package worker

import (
	"context"
	"errors"
	"fmt"

	"saki/internal/amqp"
	"saki/internal/core"
	"saki/internal/log"
	"saki/internal/store"
)

// ExpenseAppender appends expense rows to a remote sheet.
type ExpenseAppender interface {
	AppendExpenses(ctx context.Context, expenses []core.Expense) (string, error)
}

// SyncWorker mirrors created and updated expenses into a sheet. The sheet
// is append-only, so an update adds a fresh row and deletions are skipped.
type SyncWorker struct {
	store  store.ExpenseStore
	sheets ExpenseAppender
	logger *log.Logger
}

func NewSyncWorker(s store.ExpenseStore, sheets ExpenseAppender, logger *log.Logger) *SyncWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &SyncWorker{
		store:  s,
		sheets: sheets,
		logger: logger.WithComponent(log.ComponentSheets),
	}
}

// HandleMessage processes a single expense event from AMQP. A returned
// error asks the consumer to requeue the message.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.ExpenseMessage) error {
	w.logger.InfoContext(ctx, "Processing expense event",
		log.FieldEventType, string(msg.Type),
		log.FieldExpenseID, msg.ExpenseID)

	switch msg.Type {
	case core.ExpenseCreated, core.ExpenseUpdated:
	case core.ExpenseDeleted:
		w.logger.InfoContext(ctx, "Skipping delete, sheet rows are append-only",
			log.FieldExpenseID, msg.ExpenseID)
		return nil
	default:
		w.logger.WarnContext(ctx, "Unknown event type, dropping",
			log.FieldEventType, string(msg.Type))
		return nil
	}

	// The store holds the current version; the message only names it.
	expense, err := w.store.FindExpense(ctx, msg.ExpenseID)
	if errors.Is(err, core.ErrNotFound) {
		w.logger.WarnContext(ctx, "Expense no longer exists, skipping sync",
			log.FieldExpenseID, msg.ExpenseID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get expense from storage: %w", err)
	}

	ref, err := w.sheets.AppendExpenses(ctx, []core.Expense{expense})
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to sync expense to Google Sheets",
			log.NewFields().WithExpense(expense).WithError(err).ToSlice()...)
		return fmt.Errorf("sync expense to sheets: %w", err)
	}

	w.logger.InfoContext(ctx, "Successfully synced expense to Google Sheets",
		log.FieldExpenseID, expense.ID,
		log.FieldSheetsRange, ref)
	return nil
}
