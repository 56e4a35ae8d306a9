// Package detection finds closed outlines in an image and classifies them as
// simple geometric shapes.
//
// It is designed for clean, high-contrast images such as diagrams or
// synthetic test scenes: solid shapes on a plain background.
//
// # Pipeline
//
// DetectShapes runs a fixed sequence:
//
//  1. Edge map: grayscale, Gaussian blur, Canny, dilation
//  2. External contours: outer boundaries of 8-connected edge regions that
//     are not enclosed in a hole of another region
//  3. Area filter with inclusive limits
//  4. Centroid from polygon moments, Douglas-Peucker approximation and a
//     rule-based label (Triangle, Square, Rectangle, Star, Circle, Unknown)
//
// Annotate renders the detections onto a copy of the source image.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Contour points are pixel indices in the coordinate space of the source
// image. Bounds are inclusive on both corners.
//
// # Degenerate Geometry
//
// A contour without area never causes an error: its centroid is (0, 0) and
// a zero convex hull area yields the Unknown label.
//
// # Limitations
//
//   - Area limits are absolute pixel counts and do not scale with the image
//   - Outlines that touch or overlap merge into one contour
//   - Shapes nested inside other outlines are not reported
package detection
