//go:build !gocv
// +build !gocv

package render

import "image"

// Window is unavailable without the gocv build tag.
type Window struct{}

// NewWindow always fails with ErrWindowUnavailable.
func NewWindow() (*Window, error) {
	return nil, ErrWindowUnavailable
}

// Show implements Sink.
func (w *Window) Show(string, image.Image) error {
	return ErrWindowUnavailable
}
