package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/toko-pricing/internal/money"
)

// DefaultCategory is assigned to products whose source row has no category.
const DefaultCategory = "general"

// Product describes a purchasable item.
type Product struct {
	ID           string       `json:"product_id"`
	Name         string       `json:"name"`
	Price        money.Amount `json:"price"`
	Category     string       `json:"category"`
	BOGOEligible bool         `json:"bogo_eligible"`
	ComboGroup   string       `json:"combo_group,omitempty"`
}

// LineTotal is price times quantity without any discount.
func (p Product) LineTotal(qty int) money.Amount {
	return p.Price.Mul(decimal.NewFromInt(int64(qty)))
}

// CategoryKey returns the category normalised for case-insensitive comparison.
func (p Product) CategoryKey() string {
	return strings.ToLower(strings.TrimSpace(p.Category))
}

// Catalog is an immutable set of products keyed by id. It remembers source order for listings.
type Catalog struct {
	order    []string
	products map[string]Product
}

// New builds a catalog from products. A repeated id replaces the earlier product in place.
func New(products ...Product) *Catalog {
	c := &Catalog{products: make(map[string]Product, len(products))}
	for _, p := range products {
		if _, exists := c.products[p.ID]; !exists {
			c.order = append(c.order, p.ID)
		}
		c.products[p.ID] = p
	}
	return c
}

// Get returns the product with the given id.
func (c *Catalog) Get(id string) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	p, ok := c.products[id]
	return p, ok
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Products lists products in source order. The returned slice is a copy.
func (c *Catalog) Products() []Product {
	if c == nil {
		return nil
	}
	out := make([]Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.products[id])
	}
	return out
}
