package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pricing/internal/config"
	"github.com/noah-isme/toko-pricing/internal/pricing"
	"github.com/noah-isme/toko-pricing/internal/ratelimit"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		CatalogPath: writeFile(t, dir, "products.csv", "product_id,name,price,category,bogo_eligible\nP1,Phone,500,electronics,false\n"),
		CouponsPath: writeFile(t, dir, "coupons.yaml", "coupons:\n  - code: save5\n    type: percent\n    value: 5\n    start_date: 2025-01-01\n    end_date: 2025-12-31\n"),
		TaxRate:     decimal.RequireFromString("0.1"),
	}
}

func TestLoadPricing(t *testing.T) {
	cfg := testConfig(t)
	p, err := LoadPricing(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, 1, p.Catalog.Len())
	require.Equal(t, 1, p.Coupons.Len())
	require.True(t, p.Engine.TaxRate().Equal(decimal.RequireFromString("0.1")))

	bill, err := p.Engine.CalculateTotal(pricing.NewCart(pricing.CartLine{ProductID: "P1", Quantity: 1}), "")
	require.NoError(t, err)
	// 500 less 10% electronics, plus 10% tax
	require.True(t, decimal.RequireFromString("495").Equal(bill.GrandTotal), bill.GrandTotal.String())
}

func TestLoadPricingErrors(t *testing.T) {
	cfg := testConfig(t)
	cfg.CatalogPath = filepath.Join(t.TempDir(), "missing.csv")
	_, err := LoadPricing(cfg, zerolog.Nop())
	require.ErrorContains(t, err, "load catalog")

	cfg = testConfig(t)
	cfg.CouponsPath = writeFile(t, t.TempDir(), "coupons.json", `{"coupons":[{"code":"A","start_date":"2025-01-01","end_date":"2025-12-31"},{"code":"a","start_date":"2025-01-01","end_date":"2025-12-31"}]}`)
	_, err = LoadPricing(cfg, zerolog.Nop())
	require.ErrorContains(t, err, "load coupons")
}

func TestConnectRedisAndLimiter(t *testing.T) {
	ctx := context.Background()
	client, err := ConnectRedis(ctx, &config.Config{})
	require.NoError(t, err)
	require.Nil(t, client)
	require.IsType(t, ratelimit.StoreLimiter{}, NewLimiter(client))

	mr := miniredis.RunT(t)
	client, err = ConnectRedis(ctx, &config.Config{RedisURL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	defer client.Close()
	require.IsType(t, ratelimit.RedisLimiter{}, NewLimiter(client))
}

func TestBundledData(t *testing.T) {
	for _, coupons := range []string{"coupons.json", "coupons.yaml"} {
		cfg, err := config.LoadForTests(map[string]string{
			"CATALOG_PATH":               filepath.Join("..", "..", "data", "products.csv"),
			"COUPONS_PATH":               filepath.Join("..", "..", "data", coupons),
			"PRICING_TAX_RATE":           "",
			"PRICING_CATEGORY_DISCOUNTS": "",
		})
		require.NoError(t, err)
		p, err := LoadPricing(cfg, zerolog.Nop())
		require.NoError(t, err, coupons)
		require.Equal(t, 8, p.Catalog.Len())
		require.Equal(t, 4, p.Coupons.Len())
		require.True(t, p.Engine.TaxRate().Equal(pricing.DefaultTaxRate))
		require.Equal(t, pricing.DefaultCategoryDiscounts().String(), p.Engine.CategoryDiscounts().String())
	}
}
