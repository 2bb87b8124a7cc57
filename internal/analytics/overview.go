package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"saki/internal/core"
)

// OverviewOptions tunes the optional parts of an Overview.
type OverviewOptions struct {
	TopN         int
	TrendMonths  int
	ForecastDays int
	// Now anchors the monthly trend. Zero means time.Now.
	Now time.Time
}

// Overview bundles everything the analytics views show for one expense set.
type Overview struct {
	Stats
	DailyAverage   decimal.Decimal
	Reimbursable   decimal.Decimal
	Forecast       decimal.Decimal
	ForecastDays   int
	Categories     []Share[core.Category]
	PaymentMethods []Share[core.PaymentMethod]
	Top            []core.Expense
	Trend          []MonthTotal
}

func BuildOverview(expenses []core.Expense, opts OverviewOptions) Overview {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	return Overview{
		Stats:          Statistics(expenses),
		DailyAverage:   DailyAverage(expenses),
		Reimbursable:   ReimbursableTotal(expenses),
		Forecast:       Forecast(expenses, opts.ForecastDays),
		ForecastDays:   opts.ForecastDays,
		Categories:     CategoryDistribution(expenses),
		PaymentMethods: PaymentMethodDistribution(expenses),
		Top:            TopN(expenses, opts.TopN),
		Trend:          MonthlyTrend(expenses, now, opts.TrendMonths),
	}
}
