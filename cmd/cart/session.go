package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/noah-isme/toko-pricing/internal/catalog"
	"github.com/noah-isme/toko-pricing/internal/chart"
	"github.com/noah-isme/toko-pricing/internal/pricing"
	"github.com/noah-isme/toko-pricing/internal/receipt"
)

// session drives one interactive checkout over in/out.
type session struct {
	in        *bufio.Scanner
	out       io.Writer
	catalog   *catalog.Catalog
	engine    *pricing.Engine
	printer   receipt.Printer
	chartPath string
}

func newSession(in io.Reader, out io.Writer, cat *catalog.Catalog, engine *pricing.Engine, printer receipt.Printer, chartPath string) *session {
	return &session{
		in:        bufio.NewScanner(in),
		out:       out,
		catalog:   cat,
		engine:    engine,
		printer:   printer,
		chartPath: chartPath,
	}
}

// prompt writes label and reads one trimmed line. ok is false once input is exhausted.
func (s *session) prompt(label string) (line string, ok bool) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		fmt.Fprintln(s.out)
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *session) run() error {
	fmt.Fprintln(s.out, "=== Welcome to the Shopping Discount Calculator ===")
	if err := s.printer.Catalog(s.out, s.catalog.Products()); err != nil {
		return err
	}

	cart := s.collectCart()
	if cart.IsEmpty() {
		fmt.Fprintln(s.out, "Cart is empty. Exiting.")
		return nil
	}

	code, _ := s.prompt("Enter coupon code (or press Enter to skip): ")
	bill, err := s.engine.CalculateTotal(cart, code)
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out)
	if err := s.printer.Bill(s.out, bill, code); err != nil {
		return err
	}

	answer, _ := s.prompt("\nShow savings comparison bar chart? (y/n): ")
	if strings.ToLower(answer) != "y" {
		return nil
	}
	if err := s.printer.SavingsChart(s.out, bill, receipt.DefaultBarWidth); err != nil {
		return err
	}
	if s.chartPath != "" {
		switch err := chart.SavePNG(s.chartPath, bill, chart.Options{}); {
		case errors.Is(err, chart.ErrNoItems):
		case err != nil:
			return fmt.Errorf("save chart: %w", err)
		default:
			fmt.Fprintf(s.out, "Chart saved to %s.\n", s.chartPath)
		}
	}
	fmt.Fprintln(s.out, "Chart closed. Thank you for shopping!")
	return nil
}

func (s *session) collectCart() *pricing.Cart {
	cart := pricing.NewCart()
	fmt.Fprintln(s.out, "\nStart adding items to the cart.")
	for {
		id, ok := s.prompt("Enter product ID (or X to finish): ")
		if !ok || strings.EqualFold(id, "X") {
			return cart
		}
		product, found := s.catalog.Get(id)
		if !found {
			fmt.Fprintln(s.out, "Invalid product ID. Try again.")
			continue
		}
		raw, ok := s.prompt("Enter quantity: ")
		if !ok {
			return cart
		}
		qty, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Fprintln(s.out, "Please enter a valid integer quantity.")
			continue
		}
		if qty <= 0 {
			fmt.Fprintln(s.out, "Quantity must be positive.")
			continue
		}
		cart.Add(product.ID, qty)
		fmt.Fprintf(s.out, "Added %d x %s to cart.\n", qty, product.Name)
	}
}
