package receipt

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/toko-pricing/internal/catalog"
	"github.com/noah-isme/toko-pricing/internal/money"
	"github.com/noah-isme/toko-pricing/internal/pricing"
)

// DefaultCurrency is the symbol printed in front of amounts.
const DefaultCurrency = "₹"

// Printer renders bills and catalog listings as text.
type Printer struct {
	Currency string
}

func (p Printer) symbol() string {
	if p.Currency == "" {
		return DefaultCurrency
	}
	return p.Currency
}

func (p Printer) amount(a money.Amount) string {
	return money.Format(p.symbol(), a)
}

// Catalog writes the product listing shown before cart entry.
func (p Printer) Catalog(w io.Writer, products []catalog.Product) error {
	var b strings.Builder
	b.WriteString("\nAvailable Products:\n")
	for _, prod := range products {
		tag := ""
		if prod.BOGOEligible {
			tag = " (BOGO)"
		}
		fmt.Fprintf(&b, "- %s: %s | %s | %s%s\n", prod.ID, prod.Name, p.amount(prod.Price), prod.Category, tag)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Bill writes the itemised receipt. enteredCode is the code the customer typed; a rejected
// coupon is explained only when one was entered.
func (p Printer) Bill(w io.Writer, bill pricing.Bill, enteredCode string) error {
	var b strings.Builder
	b.WriteString("\n========== FINAL BILL ==========\n")
	for _, li := range bill.LineItems {
		fmt.Fprintf(&b, "%s (x%d)\n", li.Name, li.Quantity)
		fmt.Fprintf(&b, "  Raw total:    %s\n", p.amount(li.RawTotal))
		fmt.Fprintf(&b, "  Final total:  %s\n", p.amount(li.FinalLineTotal))
		fmt.Fprintf(&b, "  Savings:      %s\n\n", p.amount(li.TotalLineSavings))
	}
	b.WriteString("--------------------------------\n")
	fmt.Fprintf(&b, "Subtotal (before discounts): %s\n", p.amount(bill.SubtotalBeforeDiscounts))
	fmt.Fprintf(&b, "After item + BOGO discounts: %s\n", p.amount(bill.SubtotalAfterItemAndBOGO))
	switch {
	case bill.CouponApplied:
		fmt.Fprintf(&b, "Coupon %s applied: saved %s\n", bill.CouponCode, p.amount(bill.CouponSavings))
	case strings.TrimSpace(enteredCode) != "":
		fmt.Fprintf(&b, "Coupon not applied: %s\n", bill.CouponMessage)
	}
	fmt.Fprintf(&b, "Subtotal (after coupon):     %s\n", p.amount(bill.SubtotalAfterCoupon))
	fmt.Fprintf(&b, "Tax (%s%%):                   %s\n", bill.TaxRate.Mul(decimal.NewFromInt(100)).String(), p.amount(bill.TaxAmount))
	fmt.Fprintf(&b, "GRAND TOTAL TO PAY:          %s\n", p.amount(bill.GrandTotal))
	fmt.Fprintf(&b, "TOTAL SAVINGS:               %s\n", p.amount(bill.TotalSavings))
	b.WriteString("================================\n")
	_, err := io.WriteString(w, b.String())
	return err
}
