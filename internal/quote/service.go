package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/toko-pricing/internal/cache"
	"github.com/noah-isme/toko-pricing/internal/catalog"
	"github.com/noah-isme/toko-pricing/internal/coupon"
	"github.com/noah-isme/toko-pricing/internal/obs"
	"github.com/noah-isme/toko-pricing/internal/pricing"
)

// ErrNoData is reported by readiness checks when reference data is missing.
var ErrNoData = errors.New("quote: catalog is empty")

var quoteNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:toko-pricing:quote"))

var tracer = otel.Tracer("github.com/noah-isme/toko-pricing/internal/quote")

// Quote is a priced cart with a stable identifier. Identical carts, coupon code, pricing
// configuration, reference data and evaluation day share the same ID.
type Quote struct {
	ID string `json:"quote_id"`
	pricing.Bill
}

// Service prices carts through the engine, caching bills by quote ID.
type Service struct {
	Engine  *pricing.Engine
	Catalog *catalog.Catalog
	Coupons *coupon.Registry
	Cache   *cache.Cache
	Metrics *obs.PricingMetrics
	Logger  zerolog.Logger

	dataOnce    sync.Once
	dataVersion string
}

// Calculate prices cart with an optional coupon code as of the engine clock.
func (s *Service) Calculate(ctx context.Context, cart *pricing.Cart, couponCode string) (Quote, error) {
	ctx, span := tracer.Start(ctx, "quote.Calculate")
	defer span.End()

	now := s.Engine.Now()
	id := s.quoteID(cart, couponCode, now)
	span.SetAttributes(
		attribute.String("quote.id", id),
		attribute.Int("cart.lines", cart.Len()),
		attribute.Bool("coupon.entered", coupon.NormalizeCode(couponCode) != ""),
	)

	key := s.Cache.Key("quote", id)
	var cached pricing.Bill
	hit, err := s.Cache.GetJSON(ctx, key, &cached)
	if err != nil {
		s.Logger.Warn().Err(err).Str("quote_id", id).Msg("quote cache read failed")
	}
	if s.Cache.Enabled() {
		s.Metrics.ObserveCache(hit)
	}
	if hit {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		s.Metrics.ObserveQuote(obs.ResultOK)
		s.Metrics.ObserveBill(couponOutcome(couponCode, cached), cached.TotalSavings.InexactFloat64(), cached.GrandTotal.InexactFloat64())
		return Quote{ID: id, Bill: cached}, nil
	}

	bill, err := s.Engine.CalculateTotalAt(cart, couponCode, now)
	if err != nil {
		result := resultOf(err)
		s.Metrics.ObserveQuote(result)
		span.RecordError(err)
		span.SetStatus(codes.Error, result)
		if errors.Is(err, pricing.ErrNegativeTotal) {
			s.Logger.Error().Err(err).Str("quote_id", id).Msg("pricing integrity failure")
		}
		return Quote{}, err
	}

	s.Metrics.ObserveQuote(obs.ResultOK)
	s.Metrics.ObserveBill(couponOutcome(couponCode, bill), bill.TotalSavings.InexactFloat64(), bill.GrandTotal.InexactFloat64())
	if err := s.Cache.SetJSON(ctx, key, bill); err != nil {
		s.Logger.Warn().Err(err).Str("quote_id", id).Msg("quote cache write failed")
	}
	s.Logger.Debug().
		Str("quote_id", id).
		Str("grand_total", bill.GrandTotal.StringFixed(2)).
		Bool("coupon_applied", bill.CouponApplied).
		Msg("quote calculated")
	return Quote{ID: id, Bill: bill}, nil
}

// quoteID derives a name-based UUID from everything that determines the bill.
func (s *Service) quoteID(cart *pricing.Cart, couponCode string, now time.Time) string {
	var b strings.Builder
	b.WriteString(coupon.DateOf(now).Format("2006-01-02"))
	b.WriteString("|tax=")
	b.WriteString(s.Engine.TaxRate().String())
	b.WriteString("|discounts=")
	b.WriteString(s.Engine.CategoryDiscounts().String())
	b.WriteString("|data=")
	b.WriteString(s.DataVersion())
	b.WriteString("|coupon=")
	b.WriteString(coupon.NormalizeCode(couponCode))
	for _, line := range cart.Lines() {
		b.WriteString("|")
		b.WriteString(line.ProductID)
		b.WriteString("=")
		b.WriteString(strconv.Itoa(line.Quantity))
	}
	return uuid.NewSHA1(quoteNamespace, []byte(b.String())).String()
}

// DataVersion fingerprints the loaded catalog and coupons. Instances sharing a cache only
// replay each other's bills when their reference data matches.
func (s *Service) DataVersion() string {
	s.dataOnce.Do(func() {
		raw, err := json.Marshal(struct {
			Products []catalog.Product `json:"products"`
			Coupons  []coupon.Coupon   `json:"coupons"`
		}{s.Catalog.Products(), s.Coupons.Coupons()})
		if err != nil {
			// per-process value: nothing is shared
			s.dataVersion = uuid.NewString()
			return
		}
		s.dataVersion = uuid.NewSHA1(quoteNamespace, raw).String()
	})
	return s.dataVersion
}

// CheckData reports whether the catalog has products to price.
func (s *Service) CheckData(context.Context) error {
	if s.Catalog == nil || s.Catalog.Len() == 0 {
		return ErrNoData
	}
	return nil
}

// PingRedis checks the quote cache connection within timeout.
func (s *Service) PingRedis(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.Cache.Ping(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, pricing.ErrUnknownProduct):
		return obs.ResultUnknownProduct
	case errors.Is(err, pricing.ErrNegativeTotal):
		return obs.ResultIntegrity
	default:
		return obs.ResultInvalid
	}
}

func couponOutcome(code string, bill pricing.Bill) string {
	switch {
	case bill.CouponApplied:
		return "applied"
	case coupon.NormalizeCode(code) == "":
		return "none"
	default:
		return "rejected"
	}
}
