package detection

import (
	"image"
	"math"
	"sort"
)

// Moments holds the raw spatial moments of a closed polygon.
type Moments struct {
	M00, M10, M01 float64
}

// PolygonMoments computes the area moments of the closed polygon pts using
// Green's theorem. M00 is signed and follows the winding of pts.
func PolygonMoments(pts []image.Point) Moments {
	var m Moments
	n := len(pts)
	if n < 3 {
		return m
	}

	for i := 0; i < n; i++ {
		x0, y0 := float64(pts[i].X), float64(pts[i].Y)
		x1, y1 := float64(pts[(i+1)%n].X), float64(pts[(i+1)%n].Y)
		a := x0*y1 - x1*y0
		m.M00 += a
		m.M10 += a * (x0 + x1)
		m.M01 += a * (y0 + y1)
	}

	m.M00 /= 2
	m.M10 /= 6
	m.M01 /= 6
	return m
}

// Centroid returns (M10/M00, M01/M00) truncated toward zero, or the zero
// point when the polygon has no area.
func (m Moments) Centroid() image.Point {
	if m.M00 == 0 {
		return image.Point{}
	}
	return image.Point{
		X: int(m.M10 / m.M00),
		Y: int(m.M01 / m.M00),
	}
}

// PolygonArea returns the absolute shoelace area of the closed polygon pts.
func PolygonArea(pts []image.Point) float64 {
	return math.Abs(PolygonMoments(pts).M00)
}

// ArcLength returns the perimeter of the closed polygon pts.
func ArcLength(pts []image.Point) float64 {
	n := len(pts)
	if n < 2 {
		return 0
	}
	var length float64
	for i := 0; i < n; i++ {
		length += dist(pts[i], pts[(i+1)%n])
	}
	return length
}

// BoundingRect returns the smallest rectangle containing every point. Max is
// exclusive, so Dx and Dy count pixels inclusively.
func BoundingRect(pts []image.Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	r.Max = r.Max.Add(image.Point{X: 1, Y: 1})
	return r
}

// ApproxPolyDP simplifies the closed polygon pts with the Douglas-Peucker
// algorithm. Points farther than epsilon from the simplified outline are
// kept.
//
// The closed curve is first split at two anchors: the point farthest from
// pts[0], and the point farthest from that one. Each half is then simplified
// independently and the results are joined.
func ApproxPolyDP(pts []image.Point, epsilon float64) []image.Point {
	n := len(pts)
	if n < 3 {
		out := make([]image.Point, n)
		copy(out, pts)
		return out
	}

	a := farthestFrom(pts, pts[0])
	b := farthestFrom(pts, pts[a])
	if pts[a] == pts[b] {
		return []image.Point{pts[a]}
	}
	if a > b {
		a, b = b, a
	}

	first := pts[a : b+1]
	second := make([]image.Point, 0, n-(b-a)+1)
	second = append(second, pts[b:]...)
	second = append(second, pts[:a+1]...)

	keep := douglasPeucker(first, epsilon)
	keepSecond := douglasPeucker(second, epsilon)

	// Both halves share their end points.
	out := make([]image.Point, 0, len(keep)+len(keepSecond))
	out = append(out, keep...)
	out = append(out, keepSecond[1:len(keepSecond)-1]...)
	return out
}

// douglasPeucker simplifies an open polyline, always keeping both ends.
func douglasPeucker(pts []image.Point, epsilon float64) []image.Point {
	n := len(pts)
	if n < 3 {
		out := make([]image.Point, n)
		copy(out, pts)
		return out
	}

	keep := make([]bool, n)
	keep[0], keep[n-1] = true, true

	type span struct{ lo, hi int }
	stack := []span{{0, n - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		idx, maxDist := -1, 0.0
		for i := s.lo + 1; i < s.hi; i++ {
			if d := lineDist(pts[i], pts[s.lo], pts[s.hi]); d > maxDist {
				idx, maxDist = i, d
			}
		}
		if idx < 0 || maxDist <= epsilon {
			continue
		}
		keep[idx] = true
		stack = append(stack, span{s.lo, idx}, span{idx, s.hi})
	}

	out := make([]image.Point, 0, n)
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return out
}

// ConvexHull returns the convex hull of pts in counterclockwise order
// (mathematical orientation), without collinear points.
func ConvexHull(pts []image.Point) []image.Point {
	if len(pts) < 3 {
		out := make([]image.Point, len(pts))
		copy(out, pts)
		return out
	}

	sorted := make([]image.Point, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	hull := make([]image.Point, 0, 2*len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return hull[:len(hull)-1]
}

// cross returns the z component of (a-o) x (b-o).
func cross(o, a, b image.Point) int {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func farthestFrom(pts []image.Point, from image.Point) int {
	idx, best := 0, -1.0
	for i, p := range pts {
		if d := dist(p, from); d > best {
			idx, best = i, d
		}
	}
	return idx
}

func dist(a, b image.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// lineDist is the distance from p to the line through a and b.
func lineDist(p, a, b image.Point) float64 {
	if a == b {
		return dist(p, a)
	}
	num := math.Abs(float64(cross(a, b, p)))
	return num / dist(a, b)
}
