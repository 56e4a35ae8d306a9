//go:build gocv
// +build gocv

package render

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Window shows each image in a native window and blocks until a key is
// pressed.
type Window struct{}

// NewWindow returns a window sink.
func NewWindow() (*Window, error) {
	return &Window{}, nil
}

// Show implements Sink.
func (w *Window) Show(title string, img image.Image) error {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("convert image: %w", err)
	}
	defer mat.Close()

	window := gocv.NewWindow(title)
	defer window.Close()

	window.IMShow(mat)
	window.WaitKey(0)
	return nil
}
