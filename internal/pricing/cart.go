package pricing

// CartLine is one product and its requested quantity.
type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Cart accumulates quantities per product, remembering the order products were first added.
type Cart struct {
	order []string
	qty   map[string]int
}

// NewCart returns an empty cart, optionally seeded with lines.
func NewCart(lines ...CartLine) *Cart {
	c := &Cart{qty: make(map[string]int, len(lines))}
	for _, l := range lines {
		c.Add(l.ProductID, l.Quantity)
	}
	return c
}

// Add adds qty units of productID. Repeated adds of the same product accumulate.
func (c *Cart) Add(productID string, qty int) {
	if c.qty == nil {
		c.qty = make(map[string]int)
	}
	if _, ok := c.qty[productID]; !ok {
		c.order = append(c.order, productID)
	}
	c.qty[productID] += qty
}

// Quantity returns the accumulated quantity of productID.
func (c *Cart) Quantity(productID string) int {
	if c == nil {
		return 0
	}
	return c.qty[productID]
}

// Len returns the number of distinct products.
func (c *Cart) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// IsEmpty reports whether nothing has been added.
func (c *Cart) IsEmpty() bool { return c.Len() == 0 }

// Lines returns the cart contents in insertion order.
func (c *Cart) Lines() []CartLine {
	if c == nil {
		return nil
	}
	out := make([]CartLine, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, CartLine{ProductID: id, Quantity: c.qty[id]})
	}
	return out
}
