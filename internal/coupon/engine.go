package coupon

import (
	"errors"
	"strings"
	"time"

	"github.com/noah-isme/toko-pricing/internal/money"
)

var (
	// ErrNoCode is returned when no coupon code was supplied.
	ErrNoCode = errors.New("coupon code not provided")
	// ErrNotFound is returned when the code is not in the registry.
	ErrNotFound = errors.New("coupon not found")
	// ErrInactive is returned when the evaluation date is outside the coupon window.
	ErrInactive = errors.New("coupon not active")
	// ErrMinimumSpendUnmet indicates the cart subtotal did not reach the coupon minimum.
	ErrMinimumSpendUnmet = errors.New("coupon minimum spend not met")
)

// Kind is the discount type of a coupon.
type Kind string

const (
	// KindPercent takes Value percent off the subtotal.
	KindPercent Kind = "percent"
	// KindFixed takes Value currency units off the subtotal.
	KindFixed Kind = "fixed"
)

// Coupon captures a promotional code and its constraints.
type Coupon struct {
	Code         string       `json:"code"`
	Kind         Kind         `json:"type"`
	Value        money.Amount `json:"value"`
	StartDate    time.Time    `json:"start_date"`
	EndDate      time.Time    `json:"end_date"`
	MinCartValue money.Amount `json:"min_cart_value"`
}

// Validate checks the coupon against the evaluation day and cart subtotal.
// Start and end dates are inclusive calendar days.
func (c Coupon) Validate(now time.Time, cartTotal money.Amount) error {
	today := DateOf(now)
	if today.Before(c.StartDate) || today.After(c.EndDate) {
		return ErrInactive
	}
	if cartTotal.LessThan(c.MinCartValue) {
		return ErrMinimumSpendUnmet
	}
	return nil
}

// Compute returns the discount the coupon grants on subtotal, capped at subtotal.
// Any kind other than percent is treated as a flat amount.
func (c Coupon) Compute(subtotal money.Amount) money.Amount {
	if !subtotal.IsPositive() {
		return money.Zero()
	}
	discount := c.Value
	if c.Kind == KindPercent {
		discount = money.PercentOf(subtotal, c.Value)
	}
	if discount.IsNegative() {
		return money.Zero()
	}
	return money.Min(discount, subtotal)
}

// NormalizeCode trims and uppercases a coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DateOf truncates t to its calendar day, expressed at midnight UTC so days compare directly.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
