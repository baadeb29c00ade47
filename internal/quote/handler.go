package quote

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/toko-pricing/internal/common"
	"github.com/noah-isme/toko-pricing/internal/coupon"
	"github.com/noah-isme/toko-pricing/internal/money"
	"github.com/noah-isme/toko-pricing/internal/pricing"
)

const maxBodyBytes = 1 << 20

// ItemRequest is one cart line in a quote request.
type ItemRequest struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	Quantity  int    `json:"quantity" validate:"min=1,max=10000"`
}

// Request is the body of POST /quotes.
type Request struct {
	Items      []ItemRequest `json:"items" validate:"required,min=1,max=100,dive"`
	CouponCode string        `json:"coupon_code" validate:"max=64"`
}

// Cart converts the request into an engine cart. Repeated product ids accumulate.
func (r Request) Cart() *pricing.Cart {
	cart := pricing.NewCart()
	for _, item := range r.Items {
		cart.Add(strings.TrimSpace(item.ProductID), item.Quantity)
	}
	return cart
}

// Handler exposes the pricing pipeline over HTTP.
type Handler struct {
	Svc      *Service
	validate *validator.Validate
}

// NewHandler constructs a handler with a validator reporting JSON field names.
func NewHandler(svc *Service) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{Svc: svc, validate: v}
}

// Routes registers the quote endpoints on r. quoteMW wraps POST /quotes only.
func (h *Handler) Routes(r chi.Router, quoteMW ...func(http.Handler) http.Handler) {
	r.With(quoteMW...).Post("/quotes", h.Create)
	r.Get("/products", h.ListProducts)
	r.Get("/coupons/{code}", h.GetCoupon)
}

// Create prices the posted cart.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		common.WriteError(w, common.BadRequest("", "invalid payload", err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.WriteError(w, validationError(err))
		return
	}
	q, err := h.Svc.Calculate(r.Context(), req.Cart(), req.CouponCode)
	if err != nil {
		common.WriteError(w, pricingError(err))
		return
	}
	common.Data(w, http.StatusOK, Quote{ID: q.ID, Bill: q.Bill.Rounded()})
}

// ListProducts returns the catalog in file order.
func (h *Handler) ListProducts(w http.ResponseWriter, _ *http.Request) {
	common.Data(w, http.StatusOK, h.Svc.Catalog.Products())
}

type couponView struct {
	coupon.Coupon
	Active  *bool  `json:"active,omitempty"`
	Applies *bool  `json:"applies,omitempty"`
	Message string `json:"message,omitempty"`
}

// GetCoupon describes a coupon. With ?subtotal= it also reports whether the coupon would apply
// to that subtotal today.
func (h *Handler) GetCoupon(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	c, ok := h.Svc.Coupons.Lookup(code)
	if !ok {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", coupon.MsgInvalid, nil)
		return
	}
	now := h.Svc.Engine.Now()
	active := c.Validate(now, c.MinCartValue) == nil
	view := couponView{Coupon: c, Active: &active}
	if raw := r.URL.Query().Get("subtotal"); raw != "" {
		subtotal, err := money.ParseNonNegative(raw, money.Zero())
		if err != nil {
			common.WriteError(w, common.BadRequest("subtotal", "subtotal must be a non-negative amount", err))
			return
		}
		res := h.Svc.Coupons.Validate(code, subtotal, now)
		view.Applies = &res.Applied
		view.Message = res.Message
	}
	common.Data(w, http.StatusOK, view)
}

func validationError(err error) *common.AppError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return common.BadRequest("", "invalid payload", err)
	}
	fields := make([]map[string]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, map[string]string{
			"field": strings.TrimPrefix(fe.Namespace(), "Request."),
			"rule":  fe.Tag(),
		})
	}
	appErr := common.BadRequest("", "validation failed", err)
	appErr.Details = map[string]any{"fields": fields}
	return appErr
}

func pricingError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrUnknownProduct):
		return common.NewAppError("UNKNOWN_PRODUCT", err.Error(), http.StatusUnprocessableEntity, err)
	case errors.Is(err, pricing.ErrInvalidQuantity):
		return common.BadRequest("quantity", err.Error(), err)
	case errors.Is(err, pricing.ErrNegativeTotal):
		return common.NewAppError("PRICING_INTEGRITY", "calculated total cannot be negative", http.StatusInternalServerError, err)
	default:
		return err
	}
}
