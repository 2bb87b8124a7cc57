// Package analytics computes statistics, distributions and trends over a
// snapshot of expenses. Every function is pure; amounts come back rounded
// to cents, half away from zero.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"saki/internal/core"
)

var hundred = decimal.NewFromInt(100)

// Stats summarizes a set of amounts. The zero value describes an empty set.
type Stats struct {
	Total  decimal.Decimal
	Count  int
	Mean   decimal.Decimal
	Min    decimal.Decimal
	Max    decimal.Decimal
	Median decimal.Decimal
}

func Statistics(expenses []core.Expense) Stats {
	if len(expenses) == 0 {
		return Stats{Total: decimal.Zero, Mean: decimal.Zero, Min: decimal.Zero, Max: decimal.Zero, Median: decimal.Zero}
	}
	amounts := make([]decimal.Decimal, len(expenses))
	total := decimal.Zero
	for i, e := range expenses {
		amounts[i] = e.Amount
		total = total.Add(e.Amount)
	}
	sort.Slice(amounts, func(i, j int) bool { return amounts[i].LessThan(amounts[j]) })

	n := len(amounts)
	median := amounts[n/2]
	if n%2 == 0 {
		median = amounts[n/2-1].Add(amounts[n/2]).Div(decimal.NewFromInt(2))
	}
	return Stats{
		Total:  core.RoundMoney(total),
		Count:  n,
		Mean:   core.RoundMoney(total.Div(decimal.NewFromInt(int64(n)))),
		Min:    core.RoundMoney(amounts[0]),
		Max:    core.RoundMoney(amounts[n-1]),
		Median: core.RoundMoney(median),
	}
}

// Group is the count and summed amount of the expenses sharing a key.
type Group[K comparable] struct {
	Key   K
	Count int
	Total decimal.Decimal
}

// GroupBy buckets expenses by key in the order keys are first seen.
func GroupBy[K comparable](expenses []core.Expense, key func(core.Expense) K) []Group[K] {
	var out []Group[K]
	index := make(map[K]int)
	for _, e := range expenses {
		k := key(e)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Group[K]{Key: k, Total: decimal.Zero})
		}
		out[i].Count++
		out[i].Total = out[i].Total.Add(e.Amount)
	}
	return out
}

// Share is a Group with its percentage of the grand total. Percentages are
// rounded one by one and are not renormalized, so they may not sum to 100.
type Share[K comparable] struct {
	Group[K]
	Percentage decimal.Decimal
}

func distribution[K comparable](expenses []core.Expense, key func(core.Expense) K) []Share[K] {
	groups := GroupBy(expenses, key)
	grand := decimal.Zero
	for _, g := range groups {
		grand = grand.Add(g.Total)
	}
	out := make([]Share[K], 0, len(groups))
	for _, g := range groups {
		pct := decimal.Zero
		if grand.IsPositive() {
			pct = core.RoundMoney(g.Total.Div(grand).Mul(hundred))
		}
		g.Total = core.RoundMoney(g.Total)
		out = append(out, Share[K]{Group: g, Percentage: pct})
	}
	return out
}

func CategoryDistribution(expenses []core.Expense) []Share[core.Category] {
	return distribution(expenses, func(e core.Expense) core.Category { return e.Category })
}

func PaymentMethodDistribution(expenses []core.Expense) []Share[core.PaymentMethod] {
	return distribution(expenses, func(e core.Expense) core.PaymentMethod { return e.PaymentMethod })
}

// TopN returns the n largest expenses, ties kept in input order.
func TopN(expenses []core.Expense, n int) []core.Expense {
	if n <= 0 {
		return nil
	}
	sorted := append([]core.Expense(nil), expenses...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Amount.GreaterThan(sorted[j].Amount) })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func ReimbursableTotal(expenses []core.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if e.IsReimbursable {
			total = total.Add(e.Amount)
		}
	}
	return core.RoundMoney(total)
}

// DailyAverage spreads the total over the inclusive span between the
// earliest and latest expense date. A single day spans one day.
func DailyAverage(expenses []core.Expense) decimal.Decimal {
	if len(expenses) == 0 {
		return decimal.Zero
	}
	first, last := expenses[0].Date, expenses[0].Date
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
		if e.Date.Before(first) {
			first = e.Date
		}
		if e.Date.After(last) {
			last = e.Date
		}
	}
	days := last.DaysSince(first) + 1
	return core.RoundMoney(total.Div(decimal.NewFromInt(int64(days))))
}

// Forecast projects spending linearly from the daily average. It ignores
// seasonality and trend.
func Forecast(expenses []core.Expense, daysAhead int) decimal.Decimal {
	if daysAhead <= 0 {
		return decimal.Zero
	}
	return core.RoundMoney(DailyAverage(expenses).Mul(decimal.NewFromInt(int64(daysAhead))))
}

// MonthTotal is the spending of one calendar month.
type MonthTotal struct {
	Year  int
	Month time.Month
	Count int
	Total decimal.Decimal
}

// Label renders the month as YYYY-MM.
func (m MonthTotal) Label() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MonthlyTrend returns the n calendar months ending with ref's month, oldest first.
func MonthlyTrend(expenses []core.Expense, ref time.Time, n int) []MonthTotal {
	if n <= 0 {
		return nil
	}
	out := make([]MonthTotal, n)
	anchor := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		m := anchor.AddDate(0, i-(n-1), 0)
		out[i] = MonthTotal{Year: m.Year(), Month: m.Month(), Total: decimal.Zero}
	}
	for _, e := range expenses {
		for i := range out {
			if e.Date.Year() == out[i].Year && e.Date.Month() == out[i].Month {
				out[i].Count++
				out[i].Total = out[i].Total.Add(e.Amount)
				break
			}
		}
	}
	for i := range out {
		out[i].Total = core.RoundMoney(out[i].Total)
	}
	return out
}
