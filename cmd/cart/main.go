// Command cart is an interactive checkout: it lists the catalog, builds a cart from stdin and
// prints the priced bill.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/noah-isme/toko-pricing/internal/app"
	"github.com/noah-isme/toko-pricing/internal/config"
	"github.com/noah-isme/toko-pricing/internal/money"
	"github.com/noah-isme/toko-pricing/internal/obs"
	"github.com/noah-isme/toko-pricing/internal/receipt"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("cart", flag.ContinueOnError)
	catalogPath := fs.String("catalog", cfg.CatalogPath, "product catalog CSV")
	couponsPath := fs.String("coupons", cfg.CouponsPath, "coupon registry (.json, .yaml)")
	taxRate := fs.String("tax", cfg.TaxRate.String(), "tax rate as a fraction, e.g. 0.18")
	chartPath := fs.String("chart", "savings.png", "PNG file for the savings chart, empty to skip")
	logLevel := fs.String("log-level", "warn", "log level for stderr diagnostics")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rate, err := money.ParseNonNegative(*taxRate, cfg.TaxRate)
	if err != nil {
		return fmt.Errorf("-tax: %w", err)
	}
	cfg.CatalogPath = *catalogPath
	cfg.CouponsPath = *couponsPath
	cfg.TaxRate = rate

	logger := obs.NewLoggerTo(os.Stderr, "console", *logLevel)
	pricingData, err := app.LoadPricing(cfg, logger)
	if err != nil {
		return err
	}

	printer := receipt.Printer{Currency: cfg.CurrencySymbol}
	return newSession(os.Stdin, os.Stdout, pricingData.Catalog, pricingData.Engine, printer, *chartPath).run()
}
