package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"saki/internal/core"
	"saki/internal/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db   *sql.DB
	path string
}

var _ store.Store = (*Store)(nil)

// New opens (creating if needed) the database at dbPath. The schema is
// applied by Initialize.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w: %w", core.ErrStorage, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w: %w", core.ErrStorage, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w: %w", core.ErrStorage, err)
	}
	// SQLite serializes writers anyway
	db.SetMaxOpenConns(1)

	return &Store{db: db, path: dbPath}, nil
}

func (s *Store) Initialize(ctx context.Context) error {
	version, err := RunMigrations(s.path)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrStorage, err)
	}
	slog.InfoContext(ctx, "SQLite store initialized", "path", s.path, "schema_version", version)
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const expenseColumns = `id, description, amount, category, payment_method, date,
	notes, receipt_path, is_reimbursable, created_at, updated_at`

func (s *Store) SaveExpense(ctx context.Context, e core.Expense) error {
	r := store.EncodeExpense(e)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			amount = excluded.amount,
			category = excluded.category,
			payment_method = excluded.payment_method,
			date = excluded.date,
			notes = excluded.notes,
			receipt_path = excluded.receipt_path,
			is_reimbursable = excluded.is_reimbursable,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		r.ID, r.Description, r.Amount.String(), r.Category, r.PaymentMethod, r.Date,
		r.Notes, r.ReceiptPath, r.IsReimbursable, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save expense %s: %w: %w", e.ID, core.ErrStorage, err)
	}

	slog.DebugContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"amount", r.Amount,
		"category", r.Category,
		"date", r.Date)
	return nil
}

func (s *Store) LoadExpenses(ctx context.Context) ([]core.Expense, error) {
	return s.queryExpenses(ctx, `SELECT `+expenseColumns+` FROM expenses ORDER BY rowid`)
}

func (s *Store) FindExpense(ctx context.Context, id string) (core.Expense, error) {
	out, err := s.queryExpenses(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	if err != nil {
		return core.Expense{}, err
	}
	if len(out) == 0 {
		return core.Expense{}, fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
	}
	return out[0], nil
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete expense %s: %w: %w", id, core.ErrStorage, err)
	}
	return nil
}

// ExpensesBetween relies on dates being stored as YYYY-MM-DD text, which
// sorts chronologically.
func (s *Store) ExpensesBetween(ctx context.Context, start, end core.Date) ([]core.Expense, error) {
	return s.queryExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE date BETWEEN ? AND ? ORDER BY rowid`,
		start.String(), end.String())
}

func (s *Store) queryExpenses(ctx context.Context, query string, args ...any) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w: %w", core.ErrStorage, err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var (
			r      store.ExpenseRecord
			amount string
		)
		if err := rows.Scan(&r.ID, &r.Description, &amount, &r.Category, &r.PaymentMethod, &r.Date,
			&r.Notes, &r.ReceiptPath, &r.IsReimbursable, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w: %w", core.ErrStorage, err)
		}
		r.Amount = json.Number(amount)
		e, err := store.DecodeExpense(r)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w: %w", core.ErrStorage, err)
	}
	return out, nil
}

func (s *Store) SaveReport(ctx context.Context, rep core.ExpenseReport) error {
	r := store.EncodeReport(rep)
	expenses, err := json.Marshal(r.Expenses)
	if err != nil {
		return fmt.Errorf("encode report %s: %w: %w", rep.ID, core.ErrStorage, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (report_id, title, start_date, end_date, expenses, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(report_id) DO UPDATE SET
			title = excluded.title,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			expenses = excluded.expenses,
			notes = excluded.notes,
			created_at = excluded.created_at`,
		r.ReportID, r.Title, r.StartDate, r.EndDate, string(expenses), r.Notes, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("save report %s: %w: %w", rep.ID, core.ErrStorage, err)
	}
	slog.DebugContext(ctx, "Report saved to SQLite", "id", rep.ID, "expenses", len(rep.Expenses))
	return nil
}

func (s *Store) LoadReports(ctx context.Context) ([]core.ExpenseReport, error) {
	return s.queryReports(ctx, `SELECT report_id, title, start_date, end_date, expenses, notes, created_at
		FROM reports ORDER BY rowid`)
}

func (s *Store) FindReport(ctx context.Context, id string) (core.ExpenseReport, error) {
	out, err := s.queryReports(ctx, `SELECT report_id, title, start_date, end_date, expenses, notes, created_at
		FROM reports WHERE report_id = ?`, id)
	if err != nil {
		return core.ExpenseReport{}, err
	}
	if len(out) == 0 {
		return core.ExpenseReport{}, fmt.Errorf("report %s: %w", id, core.ErrNotFound)
	}
	return out[0], nil
}

func (s *Store) DeleteReport(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE report_id = ?`, id); err != nil {
		return fmt.Errorf("delete report %s: %w: %w", id, core.ErrStorage, err)
	}
	return nil
}

func (s *Store) queryReports(ctx context.Context, query string, args ...any) ([]core.ExpenseReport, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w: %w", core.ErrStorage, err)
	}
	defer rows.Close()

	var out []core.ExpenseReport
	for rows.Next() {
		var (
			r        store.ReportRecord
			expenses string
		)
		if err := rows.Scan(&r.ReportID, &r.Title, &r.StartDate, &r.EndDate, &expenses, &r.Notes, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w: %w", core.ErrStorage, err)
		}
		if err := json.Unmarshal([]byte(expenses), &r.Expenses); err != nil {
			return nil, fmt.Errorf("report %s expenses: %w: %w", r.ReportID, core.ErrCorrupt, err)
		}
		rep, err := store.DecodeReport(r)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w: %w", core.ErrStorage, err)
	}
	return out, nil
}
