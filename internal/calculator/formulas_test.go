package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saki/internal/core"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func money(v decimal.Decimal) string { return v.StringFixed(2) }

func TestVAT(t *testing.T) {
	r := VAT(d("100"), d("20"))
	assert.Equal(t, "20.00", money(r.VAT))
	assert.Equal(t, "120.00", money(r.Total))
	assert.True(t, r.Amount.Equal(d("100")))
	assert.True(t, r.Rate.Equal(d("20")))

	r = VAT(d("19.99"), d("7.5"))
	assert.Equal(t, "1.50", money(r.VAT))
	assert.Equal(t, "21.49", money(r.Total))
}

func TestPercentFormulas(t *testing.T) {
	cases := []struct {
		name      string
		part, out string
		got       func() (decimal.Decimal, decimal.Decimal)
	}{
		{"tax", "25.00", "75.00", func() (decimal.Decimal, decimal.Decimal) {
			r := Tax(d("100"), d("25"))
			return r.Tax, r.Net
		}},
		{"discount", "15.00", "135.00", func() (decimal.Decimal, decimal.Decimal) {
			r := Discount(d("150"), d("10"))
			return r.Discount, r.Final
		}},
		{"markup", "20.00", "100.00", func() (decimal.Decimal, decimal.Decimal) {
			r := Markup(d("80"), d("25"))
			return r.Markup, r.Price
		}},
		{"simple interest", "150.00", "1150.00", func() (decimal.Decimal, decimal.Decimal) {
			r := SimpleInterest(d("1000"), d("5"), d("3"))
			return r.Interest, r.Total
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			part, out := tc.got()
			assert.Equal(t, tc.part, money(part))
			assert.Equal(t, tc.out, money(out))
		})
	}
}

func TestProfitMargin(t *testing.T) {
	r := ProfitMargin(d("200"), d("150"))
	assert.Equal(t, "50.00", money(r.Profit))
	assert.Equal(t, "25.00", money(r.Margin))

	r = ProfitMargin(d("300"), d("400"))
	assert.Equal(t, "-100.00", money(r.Profit))
	assert.Equal(t, "-33.33", money(r.Margin))

	for _, revenue := range []string{"0", "-10"} {
		r = ProfitMargin(d(revenue), d("5"))
		assert.True(t, r.Margin.IsZero(), revenue)
	}
}

func TestBreakEven(t *testing.T) {
	r, err := BreakEven(d("1000"), d("10"), d("5"))
	require.NoError(t, err)
	assert.Equal(t, "5.00", money(r.ContributionMargin))
	assert.Equal(t, "200.00", money(r.Units))
	assert.Equal(t, "2000.00", money(r.Revenue))

	// revenue uses the unrounded unit count
	r, err = BreakEven(d("100"), d("4"), d("1"))
	require.NoError(t, err)
	assert.Equal(t, "33.33", money(r.Units))
	assert.Equal(t, "133.33", money(r.Revenue))

	for _, tc := range [][2]string{{"5", "10"}, {"10", "10"}} {
		_, err = BreakEven(d("1000"), d(tc[0]), d(tc[1]))
		assert.ErrorIs(t, err, ErrPriceNotAboveCost)
		assert.ErrorIs(t, err, core.ErrValidation)
		assert.EqualError(t, err, "price must exceed cost")
	}
}

func TestCompoundInterest(t *testing.T) {
	r, err := CompoundInterest(d("1000"), d("5"), d("10"), 12)
	require.NoError(t, err)
	assert.Equal(t, "1647.01", money(r.Amount))
	assert.Equal(t, "647.01", money(r.Interest))

	r, err = CompoundInterest(d("1000"), d("10"), d("2"), 1)
	require.NoError(t, err)
	assert.Equal(t, "1210.00", money(r.Amount))

	r, err = CompoundInterest(d("500"), d("0"), d("5"), 4)
	require.NoError(t, err)
	assert.Equal(t, "500.00", money(r.Amount))
	assert.Equal(t, "0.00", money(r.Interest))

	_, err = CompoundInterest(d("1000"), d("5"), d("1"), 0)
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestCompoundInterestOutOfRange(t *testing.T) {
	tests := []struct {
		name      string
		rate      string
		years     string
		compounds int
	}{
		{"overflows float64", "100", "1000", 365},
		{"negative base with fractional exponent", "-300", "0.5", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() {
				_, err = CompoundInterest(d("1000"), d(tt.rate), d(tt.years), tt.compounds)
			})
			assert.ErrorIs(t, err, ErrOutOfRange)
			assert.ErrorIs(t, err, core.ErrValidation)
		})
	}
}

func TestAggregateHelpers(t *testing.T) {
	assert.Equal(t, "60.00", money(Sum(d("10"), d("20"), d("30"))))
	assert.Equal(t, "0.00", money(Sum()))
	assert.Equal(t, "20.00", money(Average(d("10"), d("20"), d("30"))))
	assert.Equal(t, "0.00", money(Average()))
	assert.Equal(t, "33.33", money(PercentageOfTotal(d("1"), d("3"))))
	assert.Equal(t, "0.00", money(PercentageOfTotal(d("1"), decimal.Zero)))
}
