// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and for rendering them the same way everywhere money is displayed.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places kept for every currency output.
const MoneyPlaces = 2

// ParseAmount converts a user-typed decimal string to an amount rounded to cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and rounds
// half away from zero on the third decimal place. Negative values are rejected;
// zero is allowed.
//
// Examples:
//   ParseAmount("12.34") -> 12.34, nil
//   ParseAmount("12,34") -> 12.34, nil
//   ParseAmount("12.345") -> 12.35, nil
//   ParseAmount("-1") -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, &ValidationError{Err: ErrInvalidAmount, Value: raw}
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, &ValidationError{Err: ErrInvalidAmount, Value: raw}
	}
	if strings.Count(s, ".") > 1 {
		return decimal.Zero, &ValidationError{Err: ErrInvalidAmount, Value: raw}
	}
	for _, r := range s {
		if r != '.' && !unicode.IsDigit(r) {
			return decimal.Zero, &ValidationError{Err: ErrInvalidAmount, Value: raw}
		}
	}
	if s == "." {
		return decimal.Zero, &ValidationError{Err: ErrInvalidAmount, Value: raw}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Err: ErrInvalidAmount, Value: raw}
	}
	return RoundMoney(d), nil
}

// RoundMoney rounds to cents, half away from zero. Every displayed amount and
// percentage goes through this so totals and shares stay consistent.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// FormatCurrency renders an amount as $X.XX.
func FormatCurrency(d decimal.Decimal) string {
	d = RoundMoney(d)
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(MoneyPlaces)
	}
	return "$" + d.StringFixed(MoneyPlaces)
}

// FormatPercent renders a percentage as X.X%.
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}
