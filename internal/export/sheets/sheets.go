// Package sheets pushes expenses to a Google Sheets spreadsheet using a
// service account.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"saki/internal/core"
	"saki/internal/export"
)

type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheet         string
}

// New creates a Sheets client from service account credentials. Inline
// JSON wins over the file; GOOGLE_APPLICATION_CREDENTIALS is the last resort.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheet := strings.TrimSpace(cfg.SheetName)
	if sheet == "" {
		sheet = "Expenses"
	}

	credentials, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Creating Google Sheets service with Service Account",
		"credentials_size", len(credentials),
		"scope", gsheet.SpreadsheetsScope)

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: cfg.SpreadsheetID, sheet: sheet}, nil
}

func loadCredentials(cfg Config) ([]byte, error) {
	inline := strings.TrimSpace(cfg.CredentialsJSON)
	file := strings.TrimSpace(cfg.CredentialsFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// AppendExpenses appends one row per expense after the last used row,
// writing the header first when the sheet is empty. It returns the updated
// range as reported by the API.
func (c *Client) AppendExpenses(ctx context.Context, expenses []core.Expense) (string, error) {
	if len(expenses) == 0 {
		return "", export.ErrNothingToExport
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	head, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheetRange(c.sheet, "A1:K1")).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("read header of sheet %s: %w", c.sheet, err)
	}

	rows := make([][]any, 0, len(expenses)+1)
	if len(head.Values) == 0 {
		rows = append(rows, headerRow())
	}
	for _, e := range expenses {
		rows = append(rows, expenseRow(e))
	}

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, sheetRange(c.sheet, "A:K"),
		&gsheet.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.sheet, err)
	}

	ref := ""
	if resp.Updates != nil {
		ref = resp.Updates.UpdatedRange
	}
	slog.InfoContext(ctx, "Expenses appended to Google Sheets",
		"count", len(expenses),
		"sheets_range", ref)
	return ref, nil
}

// sheetRange quotes the sheet name for A1 notation.
func sheetRange(sheet, cells string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(sheet, "'", "''"), cells)
}

func headerRow() []any {
	out := make([]any, len(export.CSVHeader))
	for i, h := range export.CSVHeader {
		out[i] = h
	}
	return out
}

// expenseRow mirrors the CSV columns. The amount goes out as a plain
// number so the sheet can sum it.
func expenseRow(e core.Expense) []any {
	return []any{
		e.ID,
		e.Description,
		e.Amount.InexactFloat64(),
		e.Category.String(),
		e.PaymentMethod.String(),
		e.Date.String(),
		e.Notes,
		e.ReceiptPath,
		e.IsReimbursable,
		e.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		e.UpdatedAt.UTC().Format("2006-01-02 15:04:05"),
	}
}
