package coupon

import (
	"errors"
	"fmt"
	"time"

	"github.com/noah-isme/toko-pricing/internal/money"
)

// Outcome messages shown to customers.
const (
	MsgNoCode   = "No coupon entered."
	MsgInvalid  = "Invalid coupon code."
	MsgInactive = "Coupon is expired or not yet active."
	MsgApplied  = "Coupon applied successfully."
)

// Result describes whether a coupon applies to a cart.
type Result struct {
	Applied bool
	Code    string
	Message string
	Coupon  *Coupon
	Reason  error
}

// Registry is an immutable set of coupons keyed by normalised code.
type Registry struct {
	order   []string
	coupons map[string]Coupon
}

// NewRegistry builds a registry. Codes are normalised; a repeated code is rejected.
func NewRegistry(coupons ...Coupon) (*Registry, error) {
	r := &Registry{coupons: make(map[string]Coupon, len(coupons))}
	for _, c := range coupons {
		c.Code = NormalizeCode(c.Code)
		if c.Code == "" {
			return nil, fmt.Errorf("%w: empty code", ErrMalformed)
		}
		if _, exists := r.coupons[c.Code]; exists {
			return nil, fmt.Errorf("%w: duplicate code %s", ErrMalformed, c.Code)
		}
		r.order = append(r.order, c.Code)
		r.coupons[c.Code] = c
	}
	return r, nil
}

// Lookup finds a coupon by code, ignoring case and surrounding space.
func (r *Registry) Lookup(code string) (Coupon, bool) {
	if r == nil {
		return Coupon{}, false
	}
	c, ok := r.coupons[NormalizeCode(code)]
	return c, ok
}

// Len returns the number of coupons.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Coupons lists coupons in source order.
func (r *Registry) Coupons() []Coupon {
	if r == nil {
		return nil
	}
	out := make([]Coupon, 0, len(r.order))
	for _, code := range r.order {
		out = append(out, r.coupons[code])
	}
	return out
}

// Validate decides whether code applies to a cart whose post item-discount subtotal is
// subtotal, as of now. A rejected coupon is a normal outcome, reported through Result.
func (r *Registry) Validate(code string, subtotal money.Amount, now time.Time) Result {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return Result{Message: MsgNoCode, Reason: ErrNoCode}
	}
	c, ok := r.Lookup(normalized)
	if !ok {
		return Result{Message: MsgInvalid, Reason: ErrNotFound}
	}
	if err := c.Validate(now, subtotal); err != nil {
		return Result{Message: rejectionMessage(c, err), Reason: err}
	}
	return Result{Applied: true, Code: normalized, Message: MsgApplied, Coupon: &c}
}

func rejectionMessage(c Coupon, err error) string {
	switch {
	case errors.Is(err, ErrInactive):
		return MsgInactive
	case errors.Is(err, ErrMinimumSpendUnmet):
		return fmt.Sprintf("Cart value must be at least %s for this coupon.", money.Trimmed(c.MinCartValue))
	default:
		return MsgInvalid
	}
}
