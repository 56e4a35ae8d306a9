package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HSV is a pixel in 8-bit hue/saturation/value space.
//
// The scale follows the common 8-bit convention used by vision libraries:
//   - H: 0-179, the hue angle in degrees divided by two
//   - S: 0-255
//   - V: 0-255
type HSV struct {
	H uint8 `json:"h"`
	S uint8 `json:"s"`
	V uint8 `json:"v"`
}

// ToHSV converts any color to 8-bit HSV.
//
// Fully transparent pixels have no defined hue and convert to black.
func ToHSV(c color.Color) HSV {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return HSV{}
	}
	h, s, v := cc.Hsv()

	hue := int(math.Round(h / 2))
	if hue >= 180 {
		hue -= 180
	}
	return HSV{
		H: uint8(hue),
		S: uint8(math.Round(s * 255)),
		V: uint8(math.Round(v * 255)),
	}
}

// In reports whether p lies inside the closed box [lower, upper] on every
// channel.
func (p HSV) In(lower, upper HSV) bool {
	return p.H >= lower.H && p.H <= upper.H &&
		p.S >= lower.S && p.S <= upper.S &&
		p.V >= lower.V && p.V <= upper.V
}

// HSVImage is an image already converted to HSV, stored row-major.
type HSVImage struct {
	Rect image.Rectangle
	Pix  []HSV
}

// ConvertHSV converts every pixel of img.
func ConvertHSV(img image.Image) *HSVImage {
	bounds := img.Bounds()
	out := &HSVImage{
		Rect: bounds,
		Pix:  make([]HSV, bounds.Dx()*bounds.Dy()),
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.Pix[i] = ToHSV(img.At(x, y))
			i++
		}
	}
	return out
}

// At returns the HSV pixel at (x, y). Coordinates outside Rect return the
// zero value.
func (m *HSVImage) At(x, y int) HSV {
	if !(image.Point{X: x, Y: y}.In(m.Rect)) {
		return HSV{}
	}
	return m.Pix[(y-m.Rect.Min.Y)*m.Rect.Dx()+(x-m.Rect.Min.X)]
}

// InRange builds a mask congruent to m: alpha 255 where the pixel lies in
// [lower, upper] on all three channels, 0 elsewhere.
func (m *HSVImage) InRange(lower, upper HSV) *image.Alpha {
	mask := image.NewAlpha(m.Rect)
	for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
		for x := m.Rect.Min.X; x < m.Rect.Max.X; x++ {
			if m.At(x, y).In(lower, upper) {
				mask.SetAlpha(x, y, color.Alpha{A: 255})
			}
		}
	}
	return mask
}

// ParseHexColor parses "#RRGGBB" into an opaque color.
func ParseHexColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
