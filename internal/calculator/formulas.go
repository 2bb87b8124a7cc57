// Package calculator implements the business formulas (tax, VAT, margins,
// break-even, interest) and a scratch calculator with a safe arithmetic
// expression evaluator.
package calculator

import (
	"math"

	"github.com/shopspring/decimal"

	"saki/internal/core"
)

var (
	ErrPriceNotAboveCost = core.NewValidationError("price must exceed cost")
	ErrInvalidCompounds  = core.NewValidationError("compounding periods must be positive")
	ErrOutOfRange        = core.NewValidationError("compound interest out of range")
)

var hundred = decimal.NewFromInt(100)

func pct(v, rate decimal.Decimal) decimal.Decimal {
	return v.Mul(rate).Div(hundred)
}

type VATResult struct {
	Amount decimal.Decimal
	Rate   decimal.Decimal
	VAT    decimal.Decimal
	Total  decimal.Decimal
}

func VAT(amount, rate decimal.Decimal) VATResult {
	vat := pct(amount, rate)
	return VATResult{
		Amount: amount,
		Rate:   rate,
		VAT:    core.RoundMoney(vat),
		Total:  core.RoundMoney(amount.Add(vat)),
	}
}

type TaxResult struct {
	Amount decimal.Decimal
	Rate   decimal.Decimal
	Tax    decimal.Decimal
	Net    decimal.Decimal
}

func Tax(amount, rate decimal.Decimal) TaxResult {
	tax := pct(amount, rate)
	return TaxResult{
		Amount: amount,
		Rate:   rate,
		Tax:    core.RoundMoney(tax),
		Net:    core.RoundMoney(amount.Sub(tax)),
	}
}

type DiscountResult struct {
	Amount   decimal.Decimal
	Percent  decimal.Decimal
	Discount decimal.Decimal
	Final    decimal.Decimal
}

func Discount(amount, percent decimal.Decimal) DiscountResult {
	d := pct(amount, percent)
	return DiscountResult{
		Amount:   amount,
		Percent:  percent,
		Discount: core.RoundMoney(d),
		Final:    core.RoundMoney(amount.Sub(d)),
	}
}

type MarkupResult struct {
	Cost    decimal.Decimal
	Percent decimal.Decimal
	Markup  decimal.Decimal
	Price   decimal.Decimal
}

func Markup(cost, percent decimal.Decimal) MarkupResult {
	m := pct(cost, percent)
	return MarkupResult{
		Cost:    cost,
		Percent: percent,
		Markup:  core.RoundMoney(m),
		Price:   core.RoundMoney(cost.Add(m)),
	}
}

type MarginResult struct {
	Revenue decimal.Decimal
	Cost    decimal.Decimal
	Profit  decimal.Decimal
	Margin  decimal.Decimal // percent of revenue
}

// ProfitMargin reports a zero margin when revenue is not positive.
func ProfitMargin(revenue, cost decimal.Decimal) MarginResult {
	profit := revenue.Sub(cost)
	margin := decimal.Zero
	if revenue.IsPositive() {
		margin = profit.Div(revenue).Mul(hundred)
	}
	return MarginResult{
		Revenue: revenue,
		Cost:    cost,
		Profit:  core.RoundMoney(profit),
		Margin:  core.RoundMoney(margin),
	}
}

type BreakEvenResult struct {
	FixedCosts         decimal.Decimal
	UnitPrice          decimal.Decimal
	UnitCost           decimal.Decimal
	ContributionMargin decimal.Decimal
	Units              decimal.Decimal
	Revenue            decimal.Decimal
}

// BreakEven fails with ErrPriceNotAboveCost unless each unit sold
// contributes something toward the fixed costs.
func BreakEven(fixedCosts, unitPrice, unitCost decimal.Decimal) (BreakEvenResult, error) {
	if unitPrice.LessThanOrEqual(unitCost) {
		return BreakEvenResult{}, ErrPriceNotAboveCost
	}
	margin := unitPrice.Sub(unitCost)
	units := fixedCosts.Div(margin)
	return BreakEvenResult{
		FixedCosts:         fixedCosts,
		UnitPrice:          unitPrice,
		UnitCost:           unitCost,
		ContributionMargin: core.RoundMoney(margin),
		Units:              core.RoundMoney(units),
		Revenue:            core.RoundMoney(units.Mul(unitPrice)),
	}, nil
}

type SimpleInterestResult struct {
	Principal decimal.Decimal
	Rate      decimal.Decimal
	Years     decimal.Decimal
	Interest  decimal.Decimal
	Total     decimal.Decimal
}

func SimpleInterest(principal, rate, years decimal.Decimal) SimpleInterestResult {
	interest := principal.Mul(rate).Mul(years).Div(hundred)
	return SimpleInterestResult{
		Principal: principal,
		Rate:      rate,
		Years:     years,
		Interest:  core.RoundMoney(interest),
		Total:     core.RoundMoney(principal.Add(interest)),
	}
}

type CompoundInterestResult struct {
	Principal decimal.Decimal
	Rate      decimal.Decimal
	Years     decimal.Decimal
	Compounds int
	Amount    decimal.Decimal
	Interest  decimal.Decimal
}

// CompoundInterest compounds rate (percent per year) compounds times a year.
// The power is taken in float64; a result float64 cannot hold fails with
// ErrOutOfRange.
func CompoundInterest(principal, rate, years decimal.Decimal, compounds int) (CompoundInterestResult, error) {
	if compounds <= 0 {
		return CompoundInterestResult{}, ErrInvalidCompounds
	}
	n := float64(compounds)
	factor := math.Pow(1+rate.InexactFloat64()/100/n, n*years.InexactFloat64())
	if math.IsInf(factor, 0) || math.IsNaN(factor) {
		return CompoundInterestResult{}, ErrOutOfRange
	}
	amount := principal.Mul(decimal.NewFromFloat(factor))
	return CompoundInterestResult{
		Principal: principal,
		Rate:      rate,
		Years:     years,
		Compounds: compounds,
		Amount:    core.RoundMoney(amount),
		Interest:  core.RoundMoney(amount.Sub(principal)),
	}, nil
}

func Sum(values ...decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, values...)
}

// Average returns zero for no values.
func Average(values ...decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return core.RoundMoney(Sum(values...).Div(decimal.NewFromInt(int64(len(values)))))
}

// PercentageOfTotal returns part as a percentage of total, zero when total is zero.
func PercentageOfTotal(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return core.RoundMoney(part.Div(total).Mul(hundred))
}
