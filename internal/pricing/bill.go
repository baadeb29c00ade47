package pricing

import "github.com/noah-isme/toko-pricing/internal/money"

// LineItem is the priced result for one cart entry.
type LineItem struct {
	ProductID        string       `json:"product_id"`
	Name             string       `json:"name"`
	Quantity         int          `json:"quantity"`
	RawTotal         money.Amount `json:"raw_total"`
	FinalLineTotal   money.Amount `json:"final_line_total"`
	ItemSavings      money.Amount `json:"item_savings"`
	BOGOSavings      money.Amount `json:"bogo_savings"`
	TotalLineSavings money.Amount `json:"total_line_savings"`
}

// Bill is the itemised outcome of pricing a cart.
//
// Subtotals only ever decrease: SubtotalAfterCoupon <= SubtotalAfterItemAndBOGO <= SubtotalBeforeDiscounts,
// and GrandTotal = SubtotalAfterCoupon * (1 + TaxRate).
type Bill struct {
	LineItems                []LineItem     `json:"line_items"`
	SubtotalBeforeDiscounts  money.Amount   `json:"subtotal_before_discounts"`
	SubtotalAfterItemAndBOGO money.Amount   `json:"subtotal_after_item_and_bogo"`
	SubtotalAfterCoupon      money.Amount   `json:"subtotal_after_coupon"`
	CouponApplied            bool           `json:"coupon_applied"`
	CouponCode               string         `json:"coupon_code"`
	CouponMessage            string         `json:"coupon_message"`
	CouponSavings            money.Amount   `json:"coupon_savings"`
	TaxRate                  money.Amount   `json:"tax_rate"`
	TaxAmount                money.Amount   `json:"tax_amount"`
	GrandTotal               money.Amount   `json:"grand_total"`
	TotalSavings             money.Amount   `json:"total_savings"`
	PerLineSavings           []money.Amount `json:"per_line_savings"`
}

// Rounded returns a copy with every amount rounded to display precision. Calculation keeps
// full precision; use this for presentation only.
func (b Bill) Rounded() Bill {
	r := func(a money.Amount) money.Amount { return a.Round(money.DisplayPlaces) }
	out := b
	out.LineItems = make([]LineItem, len(b.LineItems))
	for i, li := range b.LineItems {
		li.RawTotal = r(li.RawTotal)
		li.FinalLineTotal = r(li.FinalLineTotal)
		li.ItemSavings = r(li.ItemSavings)
		li.BOGOSavings = r(li.BOGOSavings)
		li.TotalLineSavings = r(li.TotalLineSavings)
		out.LineItems[i] = li
	}
	out.PerLineSavings = make([]money.Amount, len(b.PerLineSavings))
	for i, s := range b.PerLineSavings {
		out.PerLineSavings[i] = r(s)
	}
	out.SubtotalBeforeDiscounts = r(b.SubtotalBeforeDiscounts)
	out.SubtotalAfterItemAndBOGO = r(b.SubtotalAfterItemAndBOGO)
	out.SubtotalAfterCoupon = r(b.SubtotalAfterCoupon)
	out.CouponSavings = r(b.CouponSavings)
	out.TaxAmount = r(b.TaxAmount)
	out.GrandTotal = r(b.GrandTotal)
	out.TotalSavings = r(b.TotalSavings)
	return out
}
