package detection

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	dimaging "github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Annotation styling.
var (
	ContourColor = color.NRGBA{0, 255, 0, 255}
	MarkerColor  = color.NRGBA{255, 0, 0, 255}
	LabelColor   = color.NRGBA{255, 255, 255, 255}
)

const (
	contourThickness = 2
	markerRadius     = 5
	labelOffset      = 20
)

// Annotate returns a copy of img with every shape's contour outlined, its
// centroid marked with a filled dot, and its label written above and to the
// left of the centroid. img is not modified.
func Annotate(img image.Image, shapes []Shape) *image.NRGBA {
	out := dimaging.Clone(img)
	// Clone moves the origin to (0, 0).
	shift := img.Bounds().Min

	for _, s := range shapes {
		contour := make([]image.Point, len(s.Contour))
		for i, p := range s.Contour {
			contour[i] = p.Sub(shift)
		}
		center := image.Point{X: s.Centroid.X, Y: s.Centroid.Y}.Sub(shift)

		drawPolyline(out, contour, contourThickness, ContourColor)
		fillCircle(out, center, markerRadius, MarkerColor)
		drawLabel(out, string(s.Label), center.Add(image.Point{X: -labelOffset, Y: -labelOffset}), LabelColor)
	}

	return out
}

// drawPolyline strokes the closed outline pts with the given width. Each
// segment is filled as a quad and joints get a round cap.
func drawPolyline(dst draw.Image, pts []image.Point, width float64, c color.Color) {
	if len(pts) == 0 {
		return
	}
	b := dst.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	half := float32(width / 2)

	for i := range pts {
		a := pts[i]
		z := pts[(i+1)%len(pts)]
		ax, ay := float32(a.X)+0.5, float32(a.Y)+0.5
		zx, zy := float32(z.X)+0.5, float32(z.Y)+0.5

		dx, dy := zx-ax, zy-ay
		l := float32(math.Hypot(float64(dx), float64(dy)))
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half

		r.MoveTo(ax+nx, ay+ny)
		r.LineTo(zx+nx, zy+ny)
		r.LineTo(zx-nx, zy-ny)
		r.LineTo(ax-nx, ay-ny)
		r.ClosePath()
	}
	r.Draw(dst, b, image.NewUniform(c), image.Point{})

	for _, p := range pts {
		fillCircle(dst, p, width/2, c)
	}
}

// fillCircle draws a filled disk centered on the pixel center.
func fillCircle(dst draw.Image, center image.Point, radius float64, c color.Color) {
	b := dst.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())

	const segments = 32
	cx, cy := float64(center.X)+0.5, float64(center.Y)+0.5
	for i := 0; i < segments; i++ {
		theta := 2 * math.Pi * float64(i) / segments
		x := float32(cx + radius*math.Cos(theta))
		y := float32(cy + radius*math.Sin(theta))
		if i == 0 {
			r.MoveTo(x, y)
		} else {
			r.LineTo(x, y)
		}
	}
	r.ClosePath()
	r.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// drawLabel writes text with its baseline starting at origin.
func drawLabel(dst draw.Image, text string, origin image.Point, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(origin.X, origin.Y),
	}
	d.DrawString(text)
}
