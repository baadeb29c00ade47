package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/noah-isme/toko-pricing/internal/money"
)

// ErrMalformed is returned when the product source cannot be parsed.
var ErrMalformed = errors.New("catalog: malformed product source")

var requiredColumns = []string{"product_id", "name", "price"}

// LoadCSV reads a product CSV file.
func LoadCSV(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()
	c, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseCSV reads products from a header-led CSV stream. Columns may appear in any order;
// category, bogo_eligible and combo_group are optional.
func ParseCSV(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformed, col)
		}
	}

	var products []Product
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
		row := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		p, err := productFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
		products = append(products, p)
	}
	return New(products...), nil
}

func productFromRow(row func(string) string) (Product, error) {
	id := row("product_id")
	if id == "" {
		return Product{}, errors.New("product_id is required")
	}
	if row("price") == "" {
		return Product{}, fmt.Errorf("product %s: price is required", id)
	}
	price, err := money.ParseNonNegative(row("price"), money.Zero())
	if err != nil {
		return Product{}, fmt.Errorf("product %s: %w", id, err)
	}
	category := row("category")
	if category == "" {
		category = DefaultCategory
	}
	return Product{
		ID:           id,
		Name:         row("name"),
		Price:        price,
		Category:     category,
		BOGOEligible: strings.EqualFold(row("bogo_eligible"), "true"),
		ComboGroup:   row("combo_group"),
	}, nil
}
