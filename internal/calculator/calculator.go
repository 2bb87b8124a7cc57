package calculator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultHistoryLimit caps the scratch calculator history unless configured.
const DefaultHistoryLimit = 100

// Calculator is the scratch pad: each successful operation appends a
// human-readable line to a bounded history and becomes the last result.
// A Calculator is not safe for concurrent use.
type Calculator struct {
	limit   int
	history []string
	last    decimal.Decimal
}

// New returns a calculator keeping at most limit history lines. A limit
// below one means DefaultHistoryLimit.
func New(limit int) *Calculator {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	return &Calculator{limit: limit, last: decimal.Zero}
}

func (c *Calculator) record(result decimal.Decimal, format string, args ...any) decimal.Decimal {
	c.last = result
	c.history = append(c.history, fmt.Sprintf(format, args...))
	if over := len(c.history) - c.limit; over > 0 {
		c.history = append(c.history[:0:0], c.history[over:]...)
	}
	return result
}

func (c *Calculator) Add(a, b decimal.Decimal) decimal.Decimal {
	r := a.Add(b)
	return c.record(r, "%s + %s = %s", a, b, r)
}

func (c *Calculator) Subtract(a, b decimal.Decimal) decimal.Decimal {
	r := a.Sub(b)
	return c.record(r, "%s - %s = %s", a, b, r)
}

func (c *Calculator) Multiply(a, b decimal.Decimal) decimal.Decimal {
	r := a.Mul(b)
	return c.record(r, "%s * %s = %s", a, b, r)
}

// Divide returns ErrDivisionByZero for a zero divisor and records nothing.
func (c *Calculator) Divide(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Zero, ErrDivisionByZero
	}
	r := a.Div(b)
	return c.record(r, "%s / %s = %s", a, b, r), nil
}

// Percentage computes percent% of amount.
func (c *Calculator) Percentage(percent, amount decimal.Decimal) decimal.Decimal {
	r := amount.Mul(percent).Div(hundred)
	return c.record(r, "%s%% of %s = %s", percent, amount, r)
}

// Evaluate computes an arithmetic expression with Eval. Failed
// expressions leave the history and last result untouched.
func (c *Calculator) Evaluate(expr string) (decimal.Decimal, error) {
	r, err := Eval(expr)
	if err != nil {
		return decimal.Zero, err
	}
	return c.record(r, "%s = %s", strings.Join(strings.Fields(expr), ""), r), nil
}

func (c *Calculator) LastResult() decimal.Decimal { return c.last }

// History returns up to n of the most recent lines, oldest first.
// n below one returns everything kept.
func (c *Calculator) History(n int) []string {
	start := 0
	if n > 0 && n < len(c.history) {
		start = len(c.history) - n
	}
	return append([]string(nil), c.history[start:]...)
}

// ClearHistory forgets the history and resets the last result to zero.
func (c *Calculator) ClearHistory() {
	c.history = nil
	c.last = decimal.Zero
}
