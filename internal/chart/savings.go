package chart

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/disintegration/imaging"
	"github.com/shopspring/decimal"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/noah-isme/toko-pricing/internal/pricing"
)

// ErrNoItems is returned when the bill has no lines to plot.
var ErrNoItems = errors.New("chart: no items to plot")

const (
	rowHeight   = 28
	barHeight   = 18
	margin      = 16
	titleHeight = 30
	labelWidth  = 160
	valueWidth  = 90
	charWidth   = 7
)

var (
	background = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	barColor   = color.NRGBA{R: 46, G: 139, B: 87, A: 255}
	textColor  = color.NRGBA{A: 255}
	axisColor  = color.NRGBA{R: 160, G: 160, B: 160, A: 255}
)

// Options control the rendered image.
type Options struct {
	Width int
	Title string
}

// Savings renders a horizontal bar chart of each line's total savings.
func Savings(bill pricing.Bill, opts Options) (*image.NRGBA, error) {
	if len(bill.LineItems) == 0 {
		return nil, ErrNoItems
	}
	width := opts.Width
	if width < labelWidth+valueWidth+2*margin+40 {
		width = 640
	}
	title := opts.Title
	if title == "" {
		title = "Savings per Product"
	}
	height := titleHeight + 2*margin + rowHeight*len(bill.LineItems)
	img := imaging.New(width, height, background)

	drawText(img, margin, margin+12, title)

	maxSavings := decimal.Zero
	for _, li := range bill.LineItems {
		if li.TotalLineSavings.GreaterThan(maxSavings) {
			maxSavings = li.TotalLineSavings
		}
	}
	barArea := width - labelWidth - valueWidth - 2*margin
	originX := margin + labelWidth
	top := margin + titleHeight
	fill(img, image.Rect(originX-1, top, originX, top+rowHeight*len(bill.LineItems)), axisColor)

	for i, li := range bill.LineItems {
		y := top + i*rowHeight
		drawText(img, margin, y+barHeight-4, truncate(li.Name, (labelWidth-8)/charWidth))
		length := 0
		if maxSavings.IsPositive() && li.TotalLineSavings.IsPositive() {
			length = int(li.TotalLineSavings.Mul(decimal.NewFromInt(int64(barArea))).Div(maxSavings).Round(0).IntPart())
			if length < 1 {
				length = 1
			}
		}
		fill(img, image.Rect(originX, y+(rowHeight-barHeight)/2, originX+length, y+(rowHeight+barHeight)/2), barColor)
		drawText(img, originX+length+6, y+barHeight-4, li.TotalLineSavings.StringFixed(2))
	}
	return img, nil
}

// WritePNG renders the chart and encodes it as PNG to w.
func WritePNG(w io.Writer, bill pricing.Bill, opts Options) error {
	img, err := Savings(bill, opts)
	if err != nil {
		return err
	}
	return imaging.Encode(w, img, imaging.PNG)
}

// SavePNG renders the chart to a file. The format follows the file extension.
func SavePNG(path string, bill pricing.Bill, opts Options) error {
	img, err := Savings(bill, opts)
	if err != nil {
		return err
	}
	return imaging.Save(img, path)
}

func fill(img draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func drawText(img draw.Image, x, y int, s string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 3 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
