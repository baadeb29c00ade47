package coupon

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/toko-pricing/internal/money"
)

// ErrMalformed is returned when the coupon source cannot be parsed.
var ErrMalformed = errors.New("coupon: malformed coupon source")

// Format identifies the encoding of a coupon source.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var dateLayouts = []string{"2006-01-02", "2006-01-02T15:04:05", time.RFC3339}

type document struct {
	Coupons []rawCoupon `json:"coupons" yaml:"coupons"`
}

type rawCoupon struct {
	Code         string     `json:"code" yaml:"code"`
	Type         string     `json:"type" yaml:"type"`
	Value        numberText `json:"value" yaml:"value"`
	StartDate    string     `json:"start_date" yaml:"start_date"`
	EndDate      string     `json:"end_date" yaml:"end_date"`
	MinCartValue numberText `json:"min_cart_value" yaml:"min_cart_value"`
}

// numberText holds a numeric field as written in the source, quoted or not.
type numberText string

func (n *numberText) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*n = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		s, err := strconv.Unquote(raw)
		if err != nil {
			return err
		}
		*n = numberText(s)
		return nil
	}
	*n = numberText(raw)
	return nil
}

func (n *numberText) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected scalar at line %d", node.Line)
	}
	if node.Tag == "!!null" {
		*n = ""
		return nil
	}
	*n = numberText(node.Value)
	return nil
}

// Load reads a coupon registry from path. Files ending in .yaml or .yml are read as YAML,
// everything else as JSON.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("coupon: read %s: %w", path, err)
	}
	format := FormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	}
	reg, err := Parse(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Parse decodes a document holding a list under "coupons".
func Parse(r io.Reader, format Format) (*Registry, error) {
	var doc document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}
	coupons := make([]Coupon, 0, len(doc.Coupons))
	for i, raw := range doc.Coupons {
		c, err := raw.toCoupon()
		if err != nil {
			return nil, fmt.Errorf("%w: coupon %d: %v", ErrMalformed, i, err)
		}
		coupons = append(coupons, c)
	}
	return NewRegistry(coupons...)
}

func (raw rawCoupon) toCoupon() (Coupon, error) {
	code := NormalizeCode(raw.Code)
	if code == "" {
		return Coupon{}, errors.New("code is required")
	}
	kind := Kind(strings.ToLower(strings.TrimSpace(raw.Type)))
	if kind == "" {
		kind = KindPercent
	}
	value, err := money.ParseNonNegative(string(raw.Value), money.Zero())
	if err != nil {
		return Coupon{}, fmt.Errorf("%s value: %w", code, err)
	}
	minCart, err := money.ParseNonNegative(string(raw.MinCartValue), money.Zero())
	if err != nil {
		return Coupon{}, fmt.Errorf("%s min_cart_value: %w", code, err)
	}
	start, err := parseDate(raw.StartDate)
	if err != nil {
		return Coupon{}, fmt.Errorf("%s start_date: %w", code, err)
	}
	end, err := parseDate(raw.EndDate)
	if err != nil {
		return Coupon{}, fmt.Errorf("%s end_date: %w", code, err)
	}
	return Coupon{
		Code:         code,
		Kind:         kind,
		Value:        value,
		StartDate:    start,
		EndDate:      end,
		MinCartValue: minCart,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, errors.New("date is required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return DateOf(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}
