package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-pricing/internal/cache"
	"github.com/noah-isme/toko-pricing/internal/catalog"
	"github.com/noah-isme/toko-pricing/internal/config"
	"github.com/noah-isme/toko-pricing/internal/coupon"
	"github.com/noah-isme/toko-pricing/internal/pricing"
	"github.com/noah-isme/toko-pricing/internal/ratelimit"
)

// Pricing bundles the reference data and the engine built on top of it. Both entrypoints load it
// once at startup and share it read-only afterwards.
type Pricing struct {
	Catalog *catalog.Catalog
	Coupons *coupon.Registry
	Engine  *pricing.Engine
}

// LoadPricing reads the catalog and coupon files named by cfg and constructs the engine.
func LoadPricing(cfg *config.Config, logger zerolog.Logger) (*Pricing, error) {
	products, err := catalog.LoadCSV(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	coupons, err := coupon.Load(cfg.CouponsPath)
	if err != nil {
		return nil, fmt.Errorf("load coupons: %w", err)
	}
	engine, err := pricing.NewEngine(products, coupons, cfg.PricingOptions())
	if err != nil {
		return nil, fmt.Errorf("build pricing engine: %w", err)
	}
	logger.Info().
		Int("products", products.Len()).
		Int("coupons", coupons.Len()).
		Str("tax_rate", engine.TaxRate().String()).
		Str("category_discounts", engine.CategoryDiscounts().String()).
		Msg("pricing data loaded")
	return &Pricing{Catalog: products, Coupons: coupons, Engine: engine}, nil
}

// ConnectRedis connects to cfg.RedisURL. It returns a nil client when Redis is not configured.
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	return cache.Connect(ctx, cfg.RedisURL)
}

// NewLimiter picks the Redis sliding window limiter when a client is available and the in-process
// store otherwise.
func NewLimiter(rdb *redis.Client) ratelimit.Limiter {
	if rdb != nil {
		return ratelimit.RedisLimiter{Client: rdb, Prefix: "pricing:ratelimit:"}
	}
	return ratelimit.NewMemoryLimiter()
}
