package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a currency amount held as an exact decimal.
type Amount = decimal.Decimal

// DisplayPlaces is the number of fractional digits shown to customers.
const DisplayPlaces = 2

var (
	// ErrNegative is returned when a parsed amount is below zero.
	ErrNegative = errors.New("amount must not be negative")

	hundred = decimal.NewFromInt(100)
)

// Zero returns the zero amount.
func Zero() Amount { return decimal.Zero }

// Parse reads a decimal amount from text such as "499.99". Blank input yields fallback.
func Parse(value string, fallback Amount) (Amount, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Zero(), fmt.Errorf("parse amount %q: %w", value, err)
	}
	return d, nil
}

// ParseNonNegative behaves like Parse but rejects values below zero.
func ParseNonNegative(value string, fallback Amount) (Amount, error) {
	d, err := Parse(value, fallback)
	if err != nil {
		return Zero(), err
	}
	if d.IsNegative() {
		return Zero(), fmt.Errorf("%q: %w", value, ErrNegative)
	}
	return d, nil
}

// PercentOf returns amount * percent / 100.
func PercentOf(amount, percent Amount) Amount {
	return amount.Mul(percent).Div(hundred)
}

// LessPercent returns amount * (1 - percent/100).
func LessPercent(amount, percent Amount) Amount {
	return amount.Sub(PercentOf(amount, percent))
}

// Min returns the smaller of a and b.
func Min(a, b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Format renders an amount with its currency symbol and two decimals, e.g. "₹1234.50".
func Format(symbol string, amount Amount) string {
	return symbol + amount.StringFixed(DisplayPlaces)
}

// Trimmed renders the amount with no trailing fractional zeros ("50", "12.5").
func Trimmed(amount Amount) string {
	return amount.String()
}
