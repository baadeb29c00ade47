package pricing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/toko-pricing/internal/money"
)

// DefaultCategoryDiscountsSpec is the built-in category table in its textual form.
const DefaultCategoryDiscountsSpec = "electronics=10,clothing=5"

// CategoryDiscounts maps a lowercased category to a percentage taken off its unit price.
type CategoryDiscounts map[string]money.Amount

// DefaultCategoryDiscounts returns the stock table: electronics 10%, clothing 5%.
func DefaultCategoryDiscounts() CategoryDiscounts {
	return CategoryDiscounts{
		"electronics": decimal.NewFromInt(10),
		"clothing":    decimal.NewFromInt(5),
	}
}

// ParseCategoryDiscounts reads "category=percent" pairs separated by commas.
// An empty string yields an empty table (no category discounts).
func ParseCategoryDiscounts(value string) (CategoryDiscounts, error) {
	out := CategoryDiscounts{}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, pct, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("category discount %q: expected category=percent", part)
		}
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return nil, fmt.Errorf("category discount %q: empty category", part)
		}
		percent, err := money.Parse(pct, money.Zero())
		if err != nil {
			return nil, fmt.Errorf("category discount %q: %w", part, err)
		}
		out[key] = percent
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate ensures every percentage lies within 0..100.
func (d CategoryDiscounts) Validate() error {
	hundred := decimal.NewFromInt(100)
	for cat, pct := range d {
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return fmt.Errorf("category %q: percent %s out of range 0..100", cat, pct)
		}
	}
	return nil
}

// Percent returns the discount for category, matched case-insensitively. Unknown categories get 0.
func (d CategoryDiscounts) Percent(category string) money.Amount {
	if pct, ok := d[strings.ToLower(strings.TrimSpace(category))]; ok {
		return pct
	}
	return money.Zero()
}

// String renders the table in the form accepted by ParseCategoryDiscounts, sorted by category.
func (d CategoryDiscounts) String() string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+d[k].String())
	}
	return strings.Join(parts, ",")
}

func (d CategoryDiscounts) clone() CategoryDiscounts {
	out := make(CategoryDiscounts, len(d))
	for k, v := range d {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}
