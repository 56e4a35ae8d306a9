package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
)

// Luminance weights (ITU-R BT.601).
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Grayscale converts img to a single intensity channel using BT.601 weights.
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	return redChannel(effect.GrayscaleWithWeights(img, lumaR, lumaG, lumaB), img.Bounds())
}

// smallGaussian holds the fixed kernels used for the common small sizes when
// no sigma is given.
var smallGaussian = map[int][]float64{
	1: {1},
	3: {0.25, 0.5, 0.25},
	5: {0.0625, 0.25, 0.375, 0.25, 0.0625},
	7: {0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125},
}

// GaussianKernel1D returns a normalized Gaussian kernel of the given odd size.
// Sigma is derived from the size: 0.3*((size-1)*0.5-1)+0.8.
func GaussianKernel1D(size int) []float64 {
	if k, ok := smallGaussian[size]; ok {
		out := make([]float64, len(k))
		copy(out, k)
		return out
	}

	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	k := make([]float64, size)
	var sum float64
	for i := range k {
		x := float64(i - size/2)
		k[i] = math.Exp(-(x * x) / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// GaussianBlur smooths a grayscale image with a size x size Gaussian kernel.
// Borders are mirrored without repeating the edge pixel (gfedcb|abcdefgh|gfedcba).
func GaussianBlur(src *image.Gray, size int) *image.Gray {
	if size <= 1 {
		return cloneGray(src)
	}

	k1 := GaussianKernel1D(size)
	kernel := convolution.NewKernel(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			kernel.Matrix[y*size+x] = k1[y] * k1[x]
		}
	}

	r := size / 2
	padded := reflectPad(src, r)
	blurred := convolution.Convolve(padded, kernel, &convolution.Options{Bias: 0, Wrap: false})
	interior := image.Rect(r, r, r+src.Bounds().Dx(), r+src.Bounds().Dy())
	return redChannel(blurred.SubImage(interior).(*image.RGBA), src.Bounds())
}

// reflectPad returns src grown by r pixels on every side, origin at (0, 0),
// with the border filled by reflect101.
func reflectPad(src *image.Gray, r int) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w+2*r, h+2*r))
	for y := 0; y < h+2*r; y++ {
		sy := reflect101(y-r, h)
		for x := 0; x < w+2*r; x++ {
			sx := reflect101(x-r, w)
			out.Pix[y*out.Stride+x] = src.Pix[src.PixOffset(b.Min.X+sx, b.Min.Y+sy)]
		}
	}
	return out
}

// reflect101 maps i into [0, n) by mirroring around the end pixels.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*n - 2 - i
		}
	}
	return i
}

// Dilate thickens the white regions of a binary image with a square
// structuring element of the given odd size, then re-binarizes so the
// output only holds 0 and 255.
func Dilate(src *image.Gray, size int) *image.Gray {
	if size <= 1 {
		return cloneGray(src)
	}
	dilated := effect.Dilate(src, float64(size/2))
	return Binarize(dilated, 128)
}

// Binarize maps pixels with luminance >= level to 255 and the rest to 0.
func Binarize(img image.Image, level uint8) *image.Gray {
	return segment.Threshold(img, level)
}

// redChannel copies the red channel of an RGBA produced from a gray source
// back into a gray image with the requested bounds.
func redChannel(rgba *image.RGBA, bounds image.Rectangle) *image.Gray {
	out := image.NewGray(bounds)
	rb := rgba.Bounds()
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			r, _, _, _ := rgba.At(rb.Min.X+x, rb.Min.Y+y).RGBA()
			out.SetGray(bounds.Min.X+x, bounds.Min.Y+y, color.Gray{Y: uint8(r >> 8)})
		}
	}
	return out
}

func cloneGray(src *image.Gray) *image.Gray {
	b := src.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		copy(out.Pix[out.PixOffset(b.Min.X, y):out.PixOffset(b.Max.X, y)], src.Pix[src.PixOffset(b.Min.X, y):])
	}
	return out
}
