// Package imaging provides the low-level image operations shared by the
// segmenter and the shape detector.
//
// This package implements loading (with a path-keyed cache), 8-bit HSV
// conversion and range masks, grayscale conversion, Gaussian blur, binary
// dilation and Canny edge detection. All operations work with standard Go
// image.Image types and use a coordinate system where (0,0) is at the
// top-left corner, X increases rightward, and Y increases downward.
//
// # Buffers
//
// Inputs are never modified. Grayscale returns a *image.Gray input as is;
// every other operation allocates its result. Binary images are *image.Gray
// holding only 0 and 255. Masks are *image.Alpha so
// they can be passed straight to draw.DrawMask.
//
// # HSV Scale
//
// HSV values use the 8-bit convention common to vision libraries:
//   - H: 0-179 (degrees divided by two)
//   - S: 0-255
//   - V: 0-255
//
// # Error Handling
//
// Only loading can fail. Load and ImageCache.Load return *InputError for
// missing, unreadable or undecodable files.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless.
package imaging
