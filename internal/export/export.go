// Package export renders expenses and analytics to files: CSV for
// spreadsheets and a fixed-layout plain-text report.
package export

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"saki/internal/analytics"
	"saki/internal/core"
	"saki/internal/store"
)

var ErrNothingToExport = errors.New("no expenses to export")

// CSVHeader lists the columns in record order.
var CSVHeader = []string{
	"id", "description", "amount", "category", "payment_method", "date",
	"notes", "receipt_path", "is_reimbursable", "created_at", "updated_at",
}

func csvRow(e core.Expense) []string {
	r := store.EncodeExpense(e)
	return []string{
		r.ID,
		r.Description,
		e.Amount.StringFixed(core.MoneyPlaces),
		r.Category,
		r.PaymentMethod,
		r.Date,
		e.Notes,
		e.ReceiptPath,
		strconv.FormatBool(r.IsReimbursable),
		r.CreatedAt,
		r.UpdatedAt,
	}
}

// WriteCSV writes a header and one row per expense. An empty set is
// ErrNothingToExport and writes nothing.
func WriteCSV(w io.Writer, expenses []core.Expense) error {
	if len(expenses) == 0 {
		return ErrNothingToExport
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		if err := cw.Write(csvRow(e)); err != nil {
			return fmt.Errorf("write csv row %s: %w", e.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

const (
	heavyRule = "============================================================"
	lightRule = "------------------------------------------------------------"
	// GeneratedLayout formats the report trailer timestamp
	GeneratedLayout = "2006-01-02 15:04:05"
)

// WriteAnalyticsReport renders ov as the plain-text analytics report.
func WriteAnalyticsReport(w io.Writer, ov analytics.Overview, generatedAt time.Time) error {
	bw := bufio.NewWriter(w)
	p := func(format string, args ...any) { fmt.Fprintf(bw, format+"\n", args...) }

	p(heavyRule)
	p("EXPENSE ANALYTICS REPORT")
	p(heavyRule)
	p("")

	p("SUMMARY STATISTICS")
	p(lightRule)
	p("Total Expenses: %s", core.FormatCurrency(ov.Total))
	p("Number of Transactions: %d", ov.Count)
	p("Average Expense: %s", core.FormatCurrency(ov.Mean))
	p("Minimum: %s", core.FormatCurrency(ov.Min))
	p("Maximum: %s", core.FormatCurrency(ov.Max))
	p("Median: %s", core.FormatCurrency(ov.Median))
	p("")

	p("CATEGORY BREAKDOWN")
	p(lightRule)
	for _, s := range ov.Categories {
		p("%s: %s (%s) - %d transactions", s.Key, core.FormatCurrency(s.Total), core.FormatPercent(s.Percentage), s.Count)
	}

	if len(ov.PaymentMethods) > 0 {
		p("")
		p("PAYMENT METHODS")
		p(lightRule)
		for _, s := range ov.PaymentMethods {
			p("%s: %s (%s) - %d transactions", s.Key, core.FormatCurrency(s.Total), core.FormatPercent(s.Percentage), s.Count)
		}
	}

	p("")
	p("ADDITIONAL METRICS")
	p(lightRule)
	p("Daily Average: %s", core.FormatCurrency(ov.DailyAverage))
	p("Reimbursable Total: %s", core.FormatCurrency(ov.Reimbursable))
	if ov.ForecastDays > 0 {
		p("Forecast (%d days): %s", ov.ForecastDays, core.FormatCurrency(ov.Forecast))
	}

	if len(ov.Top) > 0 {
		p("")
		p("TOP EXPENSES")
		p(lightRule)
		for i, e := range ov.Top {
			p("%d. %s %s - %s (%s)", i+1, e.Date, core.FormatCurrency(e.Amount), e.Description, e.Category)
		}
	}

	if len(ov.Trend) > 0 {
		p("")
		p("MONTHLY TREND")
		p(lightRule)
		for _, m := range ov.Trend {
			p("%s: %s", m.Label(), core.FormatCurrency(m.Total))
		}
	}

	p("")
	p(heavyRule)
	p("Report Generated: %s", generatedAt.Format(GeneratedLayout))
	return bw.Flush()
}

// CSVFileName and ReportFileName are the default names under the export dir.
func CSVFileName(now time.Time) string {
	return "expenses_export_" + now.Format("20060102_150405") + ".csv"
}

func ReportFileName(now time.Time) string {
	return "expense_report_" + now.Format("20060102") + ".txt"
}

// ToFile creates path (and its directory) and hands it to write. A failed
// write removes the partial file.
func ToFile(path string, write func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w: %w", core.ErrStorage, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w: %w", path, core.ErrStorage, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w: %w", path, core.ErrStorage, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	return write(f)
}
