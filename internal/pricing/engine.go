package pricing

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/toko-pricing/internal/catalog"
	"github.com/noah-isme/toko-pricing/internal/coupon"
	"github.com/noah-isme/toko-pricing/internal/money"
)

var (
	// ErrUnknownProduct is returned when a cart references a product missing from the catalog.
	ErrUnknownProduct = errors.New("pricing: unknown product")
	// ErrInvalidQuantity is returned for cart quantities below one.
	ErrInvalidQuantity = errors.New("pricing: quantity must be at least 1")
	// ErrNegativeTotal signals a computation integrity failure: the grand total came out below zero.
	ErrNegativeTotal = errors.New("pricing: calculated total cannot be negative")
	// ErrInvalidTaxRate is returned when constructing an engine with a negative tax rate.
	ErrInvalidTaxRate = errors.New("pricing: tax rate must not be negative")
)

// DefaultTaxRate is applied when Options.TaxRate is unset.
var DefaultTaxRate = decimal.RequireFromString("0.18")

// ProductLookup resolves products by id.
type ProductLookup interface {
	Get(id string) (catalog.Product, bool)
}

// CouponValidator decides whether a coupon code applies to a subtotal on a given day.
type CouponValidator interface {
	Validate(code string, subtotal money.Amount, now time.Time) coupon.Result
}

// Options tune an Engine.
type Options struct {
	// TaxRate is a fraction, 0.18 for 18%. Nil means DefaultTaxRate.
	TaxRate *money.Amount
	// CategoryDiscounts defaults to DefaultCategoryDiscounts when nil.
	CategoryDiscounts CategoryDiscounts
	// Now supplies the evaluation date for coupon windows. Defaults to time.Now.
	Now func() time.Time
}

// Engine prices carts against a read-only catalog and coupon registry.
// It holds no mutable state and may be shared between goroutines.
type Engine struct {
	products  ProductLookup
	coupons   CouponValidator
	taxRate   money.Amount
	discounts CategoryDiscounts
	now       func() time.Time
}

// NewEngine constructs an Engine.
func NewEngine(products ProductLookup, coupons CouponValidator, opts Options) (*Engine, error) {
	if products == nil {
		return nil, errors.New("pricing: product lookup is required")
	}
	rate := DefaultTaxRate
	if opts.TaxRate != nil {
		rate = *opts.TaxRate
	}
	if rate.IsNegative() {
		return nil, ErrInvalidTaxRate
	}
	discounts := opts.CategoryDiscounts
	if discounts == nil {
		discounts = DefaultCategoryDiscounts()
	}
	if err := discounts.Validate(); err != nil {
		return nil, fmt.Errorf("pricing: %w", err)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		products:  products,
		coupons:   coupons,
		taxRate:   rate,
		discounts: discounts.clone(),
		now:       now,
	}, nil
}

// TaxRate returns the configured tax rate.
func (e *Engine) TaxRate() money.Amount { return e.taxRate }

// CategoryDiscounts returns a copy of the category discount table in use.
func (e *Engine) CategoryDiscounts() CategoryDiscounts { return e.discounts.clone() }

// Now returns the engine clock reading.
func (e *Engine) Now() time.Time { return e.now() }

// CalculateTotal prices cart with an optional coupon code, evaluating coupons against the engine clock.
func (e *Engine) CalculateTotal(cart *Cart, couponCode string) (Bill, error) {
	return e.CalculateTotalAt(cart, couponCode, e.now())
}

// CalculateTotalAt prices cart as of now. Stages run in order: category discount, BOGO,
// coupon, tax. Identical inputs always produce an identical Bill.
func (e *Engine) CalculateTotalAt(cart *Cart, couponCode string, now time.Time) (Bill, error) {
	lines := cart.Lines()
	bill := Bill{
		LineItems:                make([]LineItem, 0, len(lines)),
		PerLineSavings:           make([]money.Amount, 0, len(lines)),
		SubtotalBeforeDiscounts:  money.Zero(),
		SubtotalAfterItemAndBOGO: money.Zero(),
		TaxRate:                  e.taxRate,
	}

	for _, line := range lines {
		product, ok := e.products.Get(line.ProductID)
		if !ok {
			return Bill{}, fmt.Errorf("%w: %s", ErrUnknownProduct, line.ProductID)
		}
		if line.Quantity < 1 {
			return Bill{}, fmt.Errorf("%w: %s has %d", ErrInvalidQuantity, line.ProductID, line.Quantity)
		}
		item := e.priceLine(product, line.Quantity)
		bill.SubtotalBeforeDiscounts = bill.SubtotalBeforeDiscounts.Add(item.RawTotal)
		bill.SubtotalAfterItemAndBOGO = bill.SubtotalAfterItemAndBOGO.Add(item.FinalLineTotal)
		bill.LineItems = append(bill.LineItems, item)
		bill.PerLineSavings = append(bill.PerLineSavings, item.TotalLineSavings)
	}

	result := e.validateCoupon(couponCode, bill.SubtotalAfterItemAndBOGO, now)
	bill.CouponApplied = result.Applied
	bill.CouponCode = result.Code
	bill.CouponMessage = result.Message
	bill.SubtotalAfterCoupon, bill.CouponSavings = ApplyCoupon(bill.SubtotalAfterItemAndBOGO, result.Coupon)

	bill.TaxAmount, bill.GrandTotal = ApplyTax(bill.SubtotalAfterCoupon, e.taxRate)
	bill.TotalSavings = bill.SubtotalBeforeDiscounts.Sub(bill.SubtotalAfterCoupon)

	if bill.GrandTotal.IsNegative() {
		return Bill{}, fmt.Errorf("%w: %s", ErrNegativeTotal, bill.GrandTotal)
	}
	return bill, nil
}

func (e *Engine) priceLine(p catalog.Product, qty int) LineItem {
	raw := p.LineTotal(qty)
	discounted, itemSavings := ItemDiscount(p, qty, e.discounts)
	final, bogoSavings := ApplyBOGO(p, qty, discounted)
	return LineItem{
		ProductID:        p.ID,
		Name:             p.Name,
		Quantity:         qty,
		RawTotal:         raw,
		FinalLineTotal:   final,
		ItemSavings:      itemSavings,
		BOGOSavings:      bogoSavings,
		TotalLineSavings: itemSavings.Add(bogoSavings),
	}
}

func (e *Engine) validateCoupon(code string, subtotal money.Amount, now time.Time) coupon.Result {
	if e.coupons == nil {
		if coupon.NormalizeCode(code) == "" {
			return coupon.Result{Message: coupon.MsgNoCode, Reason: coupon.ErrNoCode}
		}
		return coupon.Result{Message: coupon.MsgInvalid, Reason: coupon.ErrNotFound}
	}
	return e.coupons.Validate(code, subtotal, now)
}
