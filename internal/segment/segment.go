// Package segment separates water and land in an image by HSV range
// thresholding and paints both classes in flat colors on a black canvas.
//
// The segmentation is purely per pixel: no smoothing and no connected
// component analysis. Light-blue structures that fall inside the water range
// are painted as water.
package segment

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	dimaging "github.com/disintegration/imaging"

	"github.com/ironsheep/shapescan/internal/config"
	"github.com/ironsheep/shapescan/internal/imaging"
)

// Result is the outcome of Segment.
type Result struct {
	// Image is the recolored output. It has the size of the input with its
	// origin moved to (0, 0).
	Image *image.NRGBA `json:"-"`

	// WaterMask and LandMask mark the pixels inside each HSV range. They
	// share the bounds of the input image and may overlap.
	WaterMask *image.Alpha `json:"-"`
	LandMask  *image.Alpha `json:"-"`

	// Painted pixel counts. Pixels in both ranges count as land.
	WaterPixels int `json:"water_pixels"`
	LandPixels  int `json:"land_pixels"`
	TotalPixels int `json:"total_pixels"`
}

// WaterPercent is the share of pixels painted with the water color.
func (r *Result) WaterPercent() float64 {
	return percent(r.WaterPixels, r.TotalPixels)
}

// LandPercent is the share of pixels painted with the land color.
func (r *Result) LandPercent() float64 {
	return percent(r.LandPixels, r.TotalPixels)
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}

// Segment classifies every pixel of img by its 8-bit HSV value:
//
//   - inside the land range: land color
//   - inside the water range only: water color
//   - otherwise: black
//
// Both ranges are closed on every channel. The water mask is painted first
// and the land mask on top of it.
func Segment(img image.Image, cfg config.SegmentConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	waterColor, err := imaging.ParseHexColor(cfg.WaterColor)
	if err != nil {
		return nil, fmt.Errorf("water color: %w", err)
	}
	landColor, err := imaging.ParseHexColor(cfg.LandColor)
	if err != nil {
		return nil, fmt.Errorf("land color: %w", err)
	}

	hsv := imaging.ConvertHSV(img)
	water := hsv.InRange(toHSV(cfg.Water.Lower), toHSV(cfg.Water.Upper))
	land := hsv.InRange(toHSV(cfg.Land.Lower), toHSV(cfg.Land.Upper))

	b := img.Bounds()
	out := dimaging.New(b.Dx(), b.Dy(), color.Black)
	draw.DrawMask(out, out.Bounds(), image.NewUniform(waterColor), image.Point{}, water, b.Min, draw.Over)
	draw.DrawMask(out, out.Bounds(), image.NewUniform(landColor), image.Point{}, land, b.Min, draw.Over)

	res := &Result{
		Image:       out,
		WaterMask:   water,
		LandMask:    land,
		TotalPixels: b.Dx() * b.Dy(),
	}
	for i := range land.Pix {
		switch {
		case land.Pix[i] != 0:
			res.LandPixels++
		case water.Pix[i] != 0:
			res.WaterPixels++
		}
	}

	return res, nil
}

func toHSV(c config.HSV) imaging.HSV {
	return imaging.HSV{H: uint8(c.H), S: uint8(c.S), V: uint8(c.V)}
}
