package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"PRICING_TAX_RATE":           "",
		"PRICING_CATEGORY_DISCOUNTS": "",
		"CATALOG_PATH":               "",
		"QUOTE_CACHE_TTL":            "",
		"RATE_LIMIT_QUOTES_PER_MIN":  "",
		"PORT":                       "",
	})
	require.NoError(t, err)
	require.True(t, cfg.TaxRate.Equal(decimal.RequireFromString("0.18")))
	require.Equal(t, "clothing=5,electronics=10", cfg.CategoryDiscounts.String())
	require.Equal(t, "data/products.csv", cfg.CatalogPath)
	require.Equal(t, 10*time.Minute, cfg.QuoteCacheTTL)
	require.Equal(t, 120, cfg.QuoteRateLimit)
	require.Equal(t, ":8080", cfg.HTTPAddr())

	opts := cfg.PricingOptions()
	require.NotNil(t, opts.TaxRate)
	require.True(t, opts.TaxRate.Equal(cfg.TaxRate))
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"PRICING_TAX_RATE":           "0.05",
		"PRICING_CATEGORY_DISCOUNTS": "toys=15",
		"COUPONS_PATH":               "promo.yaml",
		"QUOTE_CACHE_TTL":            "30s",
		"OBS_ENABLE_PROMETHEUS":      "off",
		"CORS_ALLOWED_ORIGINS":       "https://a.example, https://b.example",
		"PORT":                       ":9000",
	})
	require.NoError(t, err)
	require.True(t, cfg.TaxRate.Equal(decimal.RequireFromString("0.05")))
	require.Equal(t, "toys=15", cfg.CategoryDiscounts.String())
	require.Equal(t, "promo.yaml", cfg.CouponsPath)
	require.Equal(t, 30*time.Second, cfg.QuoteCacheTTL)
	require.False(t, cfg.MetricsEnabled)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, ":9000", cfg.HTTPAddr())
}

func TestLoadRejectsBadPricing(t *testing.T) {
	_, err := LoadForTests(map[string]string{"PRICING_TAX_RATE": "-0.1"})
	require.Error(t, err)

	_, err = LoadForTests(map[string]string{"PRICING_TAX_RATE": "eighteen"})
	require.Error(t, err)

	_, err = LoadForTests(map[string]string{"PRICING_CATEGORY_DISCOUNTS": "toys=150"})
	require.Error(t, err)
}
