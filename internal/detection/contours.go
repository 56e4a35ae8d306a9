package detection

import (
	"image"
)

// Neighbor offsets indexed by chain direction. Direction 0 points east and
// increasing indices turn counterclockwise on screen (Y pointing down).
var chainDirs = [8]image.Point{
	{X: 1, Y: 0},
	{X: 1, Y: -1},
	{X: 0, Y: -1},
	{X: -1, Y: -1},
	{X: -1, Y: 0},
	{X: -1, Y: 1},
	{X: 0, Y: 1},
	{X: 1, Y: 1},
}

// binaryGrid is a 0-origin view of a binary image.
type binaryGrid struct {
	width, height int
	fg            []bool
}

func newBinaryGrid(img *image.Gray) *binaryGrid {
	b := img.Bounds()
	g := &binaryGrid{
		width:  b.Dx(),
		height: b.Dy(),
		fg:     make([]bool, b.Dx()*b.Dy()),
	}
	for y := 0; y < g.height; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < g.width; x++ {
			g.fg[y*g.width+x] = row[x] != 0
		}
	}
	return g
}

func (g *binaryGrid) in(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

func (g *binaryGrid) on(x, y int) bool {
	return g.in(x, y) && g.fg[y*g.width+x]
}

// FindExternalContours returns the outer boundary of every 8-connected
// foreground region of a binary image that is not enclosed by another
// region. Non-zero pixels are foreground.
//
// Contours are ordered by the raster position of their first pixel, which is
// also the first point of each contour. Straight runs are compressed so only
// their end points remain. A region made of a single pixel yields a
// one-point contour.
//
// Returned coordinates are in the image's coordinate space.
func FindExternalContours(img *image.Gray) [][]image.Point {
	g := newBinaryGrid(img)
	if g.width == 0 || g.height == 0 {
		return nil
	}

	outside := g.outsideBackground()
	labels := make([]int32, len(g.fg))
	origin := img.Bounds().Min

	contours := make([][]image.Point, 0)
	var next int32

	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			i := y*g.width + x
			if !g.fg[i] || labels[i] != 0 {
				continue
			}

			next++
			if !g.labelRegion(x, y, next, labels, outside) {
				continue
			}

			contour := compressChain(g.traceBorder(image.Point{X: x, Y: y}))
			for k := range contour {
				contour[k] = contour[k].Add(origin)
			}
			contours = append(contours, contour)
		}
	}

	return contours
}

// outsideBackground marks background pixels 4-connected to the image frame.
func (g *binaryGrid) outsideBackground() []bool {
	outside := make([]bool, len(g.fg))
	stack := make([]image.Point, 0, 2*(g.width+g.height))

	push := func(x, y int) {
		i := y*g.width + x
		if g.fg[i] || outside[i] {
			return
		}
		outside[i] = true
		stack = append(stack, image.Point{X: x, Y: y})
	}

	for x := 0; x < g.width; x++ {
		push(x, 0)
		push(x, g.height-1)
	}
	for y := 0; y < g.height; y++ {
		push(0, y)
		push(g.width-1, y)
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, d := range [4]image.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {
			nx, ny := p.X+d.X, p.Y+d.Y
			if g.in(nx, ny) {
				push(nx, ny)
			}
		}
	}

	return outside
}

// labelRegion flood-fills the 8-connected region containing (x, y) with
// label and reports whether the region touches the image frame or the
// outside background.
func (g *binaryGrid) labelRegion(x, y int, label int32, labels []int32, outside []bool) bool {
	external := false
	stack := []image.Point{{X: x, Y: y}}
	labels[y*g.width+x] = label

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X == 0 || p.Y == 0 || p.X == g.width-1 || p.Y == g.height-1 {
			external = true
		}

		for _, d := range chainDirs {
			nx, ny := p.X+d.X, p.Y+d.Y
			if !g.in(nx, ny) {
				continue
			}
			i := ny*g.width + nx
			if !g.fg[i] {
				// Background holes only see the region through 4-neighbors.
				if (d.X == 0 || d.Y == 0) && outside[i] {
					external = true
				}
				continue
			}
			if labels[i] == 0 {
				labels[i] = label
				stack = append(stack, image.Point{X: nx, Y: ny})
			}
		}
	}

	return external
}

// traceBorder follows the outer border of the region whose raster-first
// pixel is start. Every visited border pixel is returned in order; pixels on
// one-pixel-wide parts appear once per pass.
func (g *binaryGrid) traceBorder(start image.Point) []image.Point {
	// Search clockwise from the west neighbor for the first foreground pixel.
	second, found := image.Point{}, false
	for k := 0; k < 8; k++ {
		d := chainDirs[(4-k+8)%8]
		if g.on(start.X+d.X, start.Y+d.Y) {
			second, found = start.Add(d), true
			break
		}
	}
	if !found {
		return []image.Point{start}
	}

	border := make([]image.Point, 0, 64)
	prev, cur := second, start

	for {
		from := direction(cur, prev)
		var nextPt image.Point
		for k := 1; k <= 8; k++ {
			d := chainDirs[(from+k)%8]
			if g.on(cur.X+d.X, cur.Y+d.Y) {
				nextPt = cur.Add(d)
				break
			}
		}

		border = append(border, cur)

		if nextPt == start && cur == second {
			break
		}
		prev, cur = cur, nextPt
	}

	return border
}

// direction returns the chain direction leading from a to its neighbor b.
func direction(a, b image.Point) int {
	d := b.Sub(a)
	for i, c := range chainDirs {
		if c == d {
			return i
		}
	}
	return 0
}

// compressChain drops points lying inside a straight run of equal chain
// steps. The first point is always kept.
func compressChain(pts []image.Point) []image.Point {
	n := len(pts)
	if n < 3 {
		return pts
	}

	out := make([]image.Point, 0, n/2+1)
	out = append(out, pts[0])
	for i := 1; i < n; i++ {
		prev := pts[i-1]
		next := pts[(i+1)%n]
		if pts[i].Sub(prev) != next.Sub(pts[i]) {
			out = append(out, pts[i])
		}
	}
	return out
}
