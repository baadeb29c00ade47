package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/toko-pricing/internal/catalog"
	"github.com/noah-isme/toko-pricing/internal/coupon"
	"github.com/noah-isme/toko-pricing/internal/money"
)

// ItemDiscount applies the category percentage to every unit of the line.
// It returns the discounted line total and the amount saved.
func ItemDiscount(p catalog.Product, qty int, table CategoryDiscounts) (lineTotal, savings money.Amount) {
	q := decimal.NewFromInt(int64(qty))
	unit := money.LessPercent(p.Price, table.Percent(p.CategoryKey()))
	lineTotal = unit.Mul(q)
	savings = p.Price.Sub(unit).Mul(q)
	return lineTotal, savings
}

// ApplyBOGO makes every second unit free for eligible products bought in pairs.
// The free units are valued at the already discounted unit price; an odd unit is always paid.
func ApplyBOGO(p catalog.Product, qty int, discountedLineTotal money.Amount) (lineTotal, savings money.Amount) {
	if !p.BOGOEligible || qty < 2 {
		return discountedLineTotal, money.Zero()
	}
	free := qty / 2
	chargeable := qty - free
	lineTotal = discountedLineTotal.Mul(decimal.NewFromInt(int64(chargeable))).Div(decimal.NewFromInt(int64(qty)))
	savings = discountedLineTotal.Sub(lineTotal)
	return lineTotal, savings
}

// ApplyCoupon takes the coupon discount off subtotal. A nil coupon passes the subtotal through.
func ApplyCoupon(subtotal money.Amount, c *coupon.Coupon) (newSubtotal, savings money.Amount) {
	if c == nil {
		return subtotal, money.Zero()
	}
	savings = c.Compute(subtotal)
	return subtotal.Sub(savings), savings
}

// ApplyTax returns the tax on subtotal at rate and the resulting grand total.
func ApplyTax(subtotal, rate money.Amount) (tax, grandTotal money.Amount) {
	tax = subtotal.Mul(rate)
	return tax, subtotal.Add(tax)
}
