package main

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"saki/internal/core"
)

// decimalFlag accepts any signed decimal, for calculator inputs.
type decimalFlag struct {
	value decimal.Decimal
	set   bool
}

func (f *decimalFlag) String() string { return f.value.String() }

func (f *decimalFlag) Set(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(s, ",", ".")))
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	f.value, f.set = d, true
	return nil
}

// dateFlag accepts YYYY-MM-DD.
type dateFlag struct {
	value core.Date
}

func (f *dateFlag) String() string { return f.value.String() }

func (f *dateFlag) Set(s string) error {
	d, err := core.ParseDate(s)
	if err != nil {
		return err
	}
	f.value = d
	return nil
}

func (f *dateFlag) IsZero() bool { return f.value.IsZero() }

// parseMonth accepts YYYY-MM.
func parseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, &core.ValidationError{Err: core.ErrInvalidDate, Value: s}
	}
	return t.Year(), t.Month(), nil
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("saki "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// requireDecimals reports every calculator input left unset.
func requireDecimals(flags map[string]*decimalFlag) error {
	var missing []string
	for name, f := range flags {
		if !f.set {
			missing = append(missing, "-"+name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}
	return nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func oneArg(fs *flag.FlagSet, what string) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one %s", what)
	}
	return fs.Arg(0), nil
}
