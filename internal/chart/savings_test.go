package chart

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pricing/internal/pricing"
)

func bill() pricing.Bill {
	return pricing.Bill{LineItems: []pricing.LineItem{
		{Name: "Headphones", TotalLineSavings: decimal.NewFromInt(200)},
		{Name: "A product with a very long display name", TotalLineSavings: decimal.NewFromInt(50)},
		{Name: "Pen", TotalLineSavings: decimal.Zero},
	}}
}

func TestSavingsDimensions(t *testing.T) {
	img, err := Savings(bill(), Options{Width: 800})
	require.NoError(t, err)
	require.Equal(t, 800, img.Bounds().Dx())
	require.Equal(t, titleHeight+2*margin+3*rowHeight, img.Bounds().Dy())

	// the longest bar ends at the far edge of the bar area
	y := margin + titleHeight + rowHeight/2
	end := margin + labelWidth + (800 - labelWidth - valueWidth - 2*margin) - 1
	require.Equal(t, barColor, img.NRGBAAt(end, y))
	require.Equal(t, background, img.NRGBAAt(end+2, y))
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, bill(), Options{}))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, 640, decoded.Bounds().Dx())
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "savings.png")
	require.NoError(t, SavePNG(path, bill(), Options{}))
	img, err := imaging.Open(path)
	require.NoError(t, err)
	require.Equal(t, 640, img.Bounds().Dx())
}

func TestNoItems(t *testing.T) {
	_, err := Savings(pricing.Bill{}, Options{})
	require.ErrorIs(t, err, ErrNoItems)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
