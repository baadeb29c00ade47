package receipt

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/toko-pricing/internal/pricing"
)

// DefaultBarWidth is the number of cells used by the longest bar.
const DefaultBarWidth = 40

// SavingsChart writes a horizontal bar chart of per-line savings.
func (p Printer) SavingsChart(w io.Writer, bill pricing.Bill, width int) error {
	if len(bill.LineItems) == 0 {
		_, err := io.WriteString(w, "No items to plot.\n")
		return err
	}
	if width <= 0 {
		width = DefaultBarWidth
	}
	maxSavings := decimal.Zero
	labelWidth := 0
	for _, li := range bill.LineItems {
		if li.TotalLineSavings.GreaterThan(maxSavings) {
			maxSavings = li.TotalLineSavings
		}
		if n := utf8.RuneCountInString(li.Name); n > labelWidth {
			labelWidth = n
		}
	}

	var b strings.Builder
	b.WriteString("\nSavings per Product\n")
	for _, li := range bill.LineItems {
		cells := 0
		if maxSavings.IsPositive() && li.TotalLineSavings.IsPositive() {
			cells = int(li.TotalLineSavings.Mul(decimal.NewFromInt(int64(width))).Div(maxSavings).Round(0).IntPart())
			if cells == 0 {
				cells = 1
			}
		}
		pad := strings.Repeat(" ", labelWidth-utf8.RuneCountInString(li.Name))
		fmt.Fprintf(&b, "%s%s | %s %s\n", li.Name, pad, strings.Repeat("█", cells), p.amount(li.TotalLineSavings))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
