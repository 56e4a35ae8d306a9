// Package render delivers pipeline output images to the user.
//
// Pipelines never display anything themselves; they return images and the
// caller hands them to a Sink. Nop discards, Dir writes PNG files, Window
// opens a native window (only in builds with the gocv tag) and Multi fans
// out to several sinks.
package render

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Sink receives a titled image.
type Sink interface {
	Show(title string, img image.Image) error
}

// ErrWindowUnavailable is returned by Window in builds without native
// display support.
var ErrWindowUnavailable = errors.New("window display not available in this build (rebuild with -tags gocv)")

// Nop discards every image.
type Nop struct{}

// Show implements Sink.
func (Nop) Show(string, image.Image) error { return nil }

// Dir writes each image as <Path>/<title>-<run id>.png.
type Dir struct {
	Path string

	// RunID distinguishes files of one run from another. NewDir sets it to
	// a random UUID.
	RunID string
}

// NewDir returns a Dir sink with a fresh run id.
func NewDir(path string) *Dir {
	return &Dir{Path: path, RunID: uuid.NewString()}
}

// Show implements Sink. The directory is created when missing.
func (d *Dir) Show(title string, img image.Image) error {
	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := d.FileName(title)
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// FileName returns the path Show writes title to.
func (d *Dir) FileName(title string) string {
	name := slug(title)
	if d.RunID != "" {
		name += "-" + d.RunID
	}
	return filepath.Join(d.Path, name+".png")
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slug lowercases title and replaces runs of other characters with '-'.
func slug(title string) string {
	s := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if s == "" {
		return "image"
	}
	return s
}

// Multi shows each image on every sink in order and stops at the first
// error.
type Multi []Sink

// Show implements Sink.
func (m Multi) Show(title string, img image.Image) error {
	for _, s := range m {
		if err := s.Show(title, img); err != nil {
			return err
		}
	}
	return nil
}
