// Package jsonfile persists expenses and reports as two pretty-printed JSON
// arrays inside a data directory.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"saki/internal/core"
	"saki/internal/store"
)

const (
	ExpensesFile = "expenses.json"
	ReportsFile  = "reports.json"
)

type Store struct {
	dir      string
	mu       sync.Mutex
	expenses collection[store.ExpenseRecord]
	reports  collection[store.ReportRecord]
}

var _ store.Store = (*Store)(nil)

func New(dir string) *Store {
	return &Store{
		dir:      dir,
		expenses: collection[store.ExpenseRecord]{path: filepath.Join(dir, ExpensesFile)},
		reports:  collection[store.ReportRecord]{path: filepath.Join(dir, ReportsFile)},
	}
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

// Initialize creates the data directory and seeds empty collections.
// Existing files are left alone.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir %s: %w: %w", s.dir, core.ErrStorage, err)
	}
	for _, c := range []interface{ seed() error }{&s.expenses, &s.reports} {
		if err := c.seed(); err != nil {
			return err
		}
	}
	slog.InfoContext(ctx, "JSON store initialized", "dir", s.dir)
	return nil
}

func (s *Store) Close() error { return nil }

func (s *Store) SaveExpense(ctx context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.expenses.load()
	if err != nil {
		return err
	}
	recs = upsert(recs, store.EncodeExpense(e), func(r store.ExpenseRecord) string { return r.ID })
	if err := s.expenses.write(recs); err != nil {
		return err
	}
	slog.DebugContext(ctx, "Expense saved to JSON store", "id", e.ID, "count", len(recs))
	return nil
}

func (s *Store) LoadExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	recs, err := s.expenses.load()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([]core.Expense, 0, len(recs))
	for _, r := range recs {
		e, err := store.DecodeExpense(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.expenses.path, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) FindExpense(ctx context.Context, id string) (core.Expense, error) {
	all, err := s.LoadExpenses(ctx)
	if err != nil {
		return core.Expense{}, err
	}
	for _, e := range all {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.expenses.load()
	if err != nil {
		return err
	}
	kept, removed := without(recs, id, func(r store.ExpenseRecord) string { return r.ID })
	if !removed {
		return nil
	}
	if err := s.expenses.write(kept); err != nil {
		return err
	}
	slog.DebugContext(ctx, "Expense removed from JSON store", "id", id)
	return nil
}

func (s *Store) ExpensesBetween(ctx context.Context, start, end core.Date) ([]core.Expense, error) {
	all, err := s.LoadExpenses(ctx)
	if err != nil {
		return nil, err
	}
	return store.FilterBetween(all, start, end), nil
}

func (s *Store) SaveReport(ctx context.Context, r core.ExpenseReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.reports.load()
	if err != nil {
		return err
	}
	recs = upsert(recs, store.EncodeReport(r), func(r store.ReportRecord) string { return r.ReportID })
	if err := s.reports.write(recs); err != nil {
		return err
	}
	slog.DebugContext(ctx, "Report saved to JSON store", "id", r.ID, "expenses", len(r.Expenses))
	return nil
}

func (s *Store) LoadReports(_ context.Context) ([]core.ExpenseReport, error) {
	s.mu.Lock()
	recs, err := s.reports.load()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([]core.ExpenseReport, 0, len(recs))
	for _, r := range recs {
		rep, err := store.DecodeReport(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.reports.path, err)
		}
		out = append(out, rep)
	}
	return out, nil
}

func (s *Store) FindReport(ctx context.Context, id string) (core.ExpenseReport, error) {
	all, err := s.LoadReports(ctx)
	if err != nil {
		return core.ExpenseReport{}, err
	}
	for _, r := range all {
		if r.ID == id {
			return r, nil
		}
	}
	return core.ExpenseReport{}, fmt.Errorf("report %s: %w", id, core.ErrNotFound)
}

func (s *Store) DeleteReport(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.reports.load()
	if err != nil {
		return err
	}
	kept, removed := without(recs, id, func(r store.ReportRecord) string { return r.ReportID })
	if !removed {
		return nil
	}
	return s.reports.write(kept)
}

// collection is one JSON array file. Callers hold Store.mu.
type collection[T any] struct {
	path string
}

func (c *collection[T]) seed() error {
	if _, err := os.Stat(c.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w: %w", c.path, core.ErrStorage, err)
	}
	return c.write(nil)
}

// load returns an empty slice when the file does not exist yet.
func (c *collection[T]) load() ([]T, error) {
	b, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", c.path, core.ErrStorage, err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", c.path, core.ErrCorrupt, err)
	}
	return out, nil
}

// write replaces the file atomically via a temp file in the same directory.
func (c *collection[T]) write(items []T) error {
	if items == nil {
		items = []T{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encode %s: %w: %w", c.path, core.ErrStorage, err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w: %w", dir, core.ErrStorage, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w: %w", c.path, core.ErrStorage, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w: %w", c.path, core.ErrStorage, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w: %w", c.path, core.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w: %w", c.path, core.ErrStorage, err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		return fmt.Errorf("replace %s: %w: %w", c.path, core.ErrStorage, err)
	}
	return nil
}

// upsert replaces the element with the same key in place or appends it.
func upsert[T any](items []T, item T, key func(T) string) []T {
	k := key(item)
	for i := range items {
		if key(items[i]) == k {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func without[T any](items []T, id string, key func(T) string) ([]T, bool) {
	kept := make([]T, 0, len(items))
	for _, it := range items {
		if key(it) != id {
			kept = append(kept, it)
		}
	}
	return kept, len(kept) != len(items)
}
