package detection

import (
	"fmt"
	"image"

	"github.com/ironsheep/shapescan/internal/config"
	"github.com/ironsheep/shapescan/internal/imaging"
)

// Label names a shape class.
type Label string

// Shape classes assigned by Classify.
const (
	Triangle  Label = "Triangle"
	Rectangle Label = "Rectangle"
	Square    Label = "Square"
	Circle    Label = "Circle"
	Star      Label = "Star"
	Unknown   Label = "Unknown"
)

// Bounds represents a rectangular bounding box in pixel coordinates.
//
// Both corners are inclusive: a box covering a single pixel has X1 == X2
// and Y1 == Y2.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Shape is one detected contour with its classification.
type Shape struct {
	// Label is the assigned shape class. Unknown shapes are reported too.
	Label Label `json:"label"`

	// Centroid is the polygon centroid of the contour, truncated to whole
	// pixels. It is (0, 0) for contours without area.
	Centroid Point `json:"centroid"`

	// Area is the absolute area enclosed by the contour in square pixels.
	Area float64 `json:"area"`

	// Vertices is the number of points left after polygon approximation.
	Vertices int `json:"vertices"`

	// Solidity is contour area over convex hull area. Only computed for
	// shapes that are neither triangles nor quadrilaterals.
	Solidity float64 `json:"solidity,omitempty"`

	// Bounds is the bounding box of the contour.
	Bounds Bounds `json:"bounds"`

	// Contour is the traced outer boundary used for annotation.
	Contour []image.Point `json:"-"`
}

// String formats the shape as "[Label, (x, y)]".
func (s Shape) String() string {
	return fmt.Sprintf("[%s, (%d, %d)]", s.Label, s.Centroid.X, s.Centroid.Y)
}

// ShapesResult contains all shapes detected in an image.
type ShapesResult struct {
	// Shapes lists the detections in the raster order of each contour's
	// first pixel.
	Shapes []Shape `json:"shapes"`

	// Count is the number of shapes detected.
	Count int `json:"count"`
}

// EdgeMap returns the dilated Canny edge map the detector extracts contours
// from.
func EdgeMap(img image.Image, cfg config.ShapeConfig) *image.Gray {
	gray := imaging.Grayscale(img)
	blurred := imaging.GaussianBlur(gray, cfg.BlurKernel)
	edges := imaging.Canny(blurred, cfg.CannyLow, cfg.CannyHigh)
	return imaging.Dilate(edges, cfg.DilateKernel)
}

// DetectShapes finds closed outlines in img and classifies each one.
//
// # Algorithm
//
//  1. Edge map: grayscale, Gaussian blur, Canny, dilation (see EdgeMap)
//  2. External contours of the edge map (nested outlines are ignored)
//  3. Area filter: contours with area outside [MinArea, MaxArea] are dropped;
//     both limits are inclusive
//  4. Per contour: centroid from polygon moments, Douglas-Peucker
//     approximation with epsilon = ApproxEpsilon x perimeter, then Classify
//
// Shapes labeled Unknown are kept in the result. Running DetectShapes twice
// on the same image returns identical results.
//
// An error is returned only for an invalid configuration.
func DetectShapes(img image.Image, cfg config.ShapeConfig) (*ShapesResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	shapes := classifyContours(FindExternalContours(EdgeMap(img, cfg)), cfg)

	return &ShapesResult{
		Shapes: shapes,
		Count:  len(shapes),
	}, nil
}

// classifyContours applies the area filter and analyzes the remaining
// contours, keeping their order.
func classifyContours(contours [][]image.Point, cfg config.ShapeConfig) []Shape {
	shapes := make([]Shape, 0)
	for _, contour := range contours {
		area := PolygonArea(contour)
		if area < cfg.MinArea || area > cfg.MaxArea {
			continue
		}
		shapes = append(shapes, analyzeContour(contour, cfg))
	}
	return shapes
}

// analyzeContour computes centroid, approximation and label for a contour.
// Degenerate contours yield centroid (0, 0) rather than an error.
func analyzeContour(contour []image.Point, cfg config.ShapeConfig) Shape {
	moments := PolygonMoments(contour)
	area := PolygonArea(contour)

	approx := ApproxPolyDP(contour, cfg.ApproxEpsilon*ArcLength(contour))

	var hullArea float64
	if n := len(approx); n != 3 && n != 4 {
		hullArea = PolygonArea(ConvexHull(contour))
	}
	label, solidity := Classify(approx, area, hullArea, cfg)

	c := moments.Centroid()
	r := BoundingRect(contour)

	return Shape{
		Label:    label,
		Centroid: Point{X: c.X, Y: c.Y},
		Area:     area,
		Vertices: len(approx),
		Solidity: solidity,
		Bounds: Bounds{
			X1: r.Min.X,
			Y1: r.Min.Y,
			X2: r.Max.X - 1,
			Y2: r.Max.Y - 1,
		},
		Contour: contour,
	}
}

// Classify assigns a label from the approximated polygon:
//
//   - 3 vertices: Triangle
//   - 4 vertices: Square when the bounding box aspect ratio w/h of approx lies
//     in [SquareMinRatio, SquareMaxRatio], otherwise Rectangle
//   - otherwise: solidity = area / hullArea; Star below StarSolidity, Circle
//     at or above it, Unknown when hullArea is 0
//
// The returned solidity is 0 unless it was computed.
func Classify(approx []image.Point, area, hullArea float64, cfg config.ShapeConfig) (Label, float64) {
	switch len(approx) {
	case 3:
		return Triangle, 0
	case 4:
		r := BoundingRect(approx)
		ratio := float64(r.Dx()) / float64(r.Dy())
		if ratio >= cfg.SquareMinRatio && ratio <= cfg.SquareMaxRatio {
			return Square, 0
		}
		return Rectangle, 0
	}

	if hullArea == 0 {
		return Unknown, 0
	}
	solidity := area / hullArea
	if solidity < cfg.StarSolidity {
		return Star, solidity
	}
	return Circle, solidity
}
