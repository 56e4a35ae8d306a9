package segment

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/shapescan/internal/config"
)

var (
	black  = color.NRGBA{0, 0, 0, 255}
	blue   = color.NRGBA{0, 0, 255, 255}
	yellow = color.NRGBA{255, 255, 0, 255}
)

// createStripeImage creates a 1-pixel-high image with one column per color.
func createStripeImage(colors ...color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, len(colors), 1))
	for x, c := range colors {
		img.Set(x, 0, c)
	}
	return img
}

func TestSegment_PixelClasses(t *testing.T) {
	tests := []struct {
		name  string
		color color.Color
		want  color.NRGBA
	}{
		// H=120 S=255 V=255: water only.
		{"pure blue is water", color.RGBA{0, 0, 255, 255}, blue},
		// H=105 S=204 V=200.
		{"sea blue is water", color.RGBA{40, 120, 200, 255}, blue},
		// H=60 S=255 V=255: land only.
		{"pure green is land", color.RGBA{0, 255, 0, 255}, yellow},
		{"dark green is land", color.RGBA{0, 100, 0, 255}, yellow},
		{"red is neither", color.RGBA{255, 0, 0, 255}, black},
		{"white is neither", color.RGBA{255, 255, 255, 255}, black},
		{"black is neither", color.RGBA{0, 0, 0, 255}, black},
		// H=120 but S=63: below the water saturation floor.
		{"pale blue is neither", color.RGBA{192, 192, 255, 255}, black},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Segment(createStripeImage(tt.color), config.DefaultSegment())
			if err != nil {
				t.Fatalf("Segment failed: %v", err)
			}
			if got := res.Image.NRGBAAt(0, 0); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSegment_LandWinsOverlap(t *testing.T) {
	cfg := config.DefaultSegment()
	// Widen land so it covers blue as well.
	cfg.Land = config.HSVRange{
		Lower: config.HSV{H: 50, S: 50, V: 50},
		Upper: config.HSV{H: 125, S: 255, V: 255},
	}

	res, err := Segment(createStripeImage(color.RGBA{0, 0, 255, 255}), cfg)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}

	if res.WaterMask.AlphaAt(0, 0).A != 255 || res.LandMask.AlphaAt(0, 0).A != 255 {
		t.Fatal("pixel should be in both masks")
	}
	if got := res.Image.NRGBAAt(0, 0); got != yellow {
		t.Errorf("overlap: got %v, want land color %v", got, yellow)
	}
	if res.LandPixels != 1 || res.WaterPixels != 0 {
		t.Errorf("counts: land=%d water=%d, want 1 and 0", res.LandPixels, res.WaterPixels)
	}
}

func TestSegment_InclusiveBounds(t *testing.T) {
	cfg := config.DefaultSegment()
	// Exactly the upper hue bound of water and the lower bound of land.
	cfg.Water.Upper.H = 120
	cfg.Land.Lower.H = 60

	res, err := Segment(createStripeImage(
		color.RGBA{0, 0, 255, 255},
		color.RGBA{0, 255, 0, 255},
	), cfg)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}

	if got := res.Image.NRGBAAt(0, 0); got != blue {
		t.Errorf("hue at upper bound: got %v, want water", got)
	}
	if got := res.Image.NRGBAAt(1, 0); got != yellow {
		t.Errorf("hue at lower bound: got %v, want land", got)
	}
}

func TestSegment_Counts(t *testing.T) {
	img := createStripeImage(
		color.RGBA{0, 0, 255, 255},
		color.RGBA{0, 0, 255, 255},
		color.RGBA{0, 255, 0, 255},
		color.RGBA{255, 0, 0, 255},
	)

	res, err := Segment(img, config.DefaultSegment())
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}

	if res.TotalPixels != 4 || res.WaterPixels != 2 || res.LandPixels != 1 {
		t.Errorf("counts: total=%d water=%d land=%d", res.TotalPixels, res.WaterPixels, res.LandPixels)
	}
	if res.WaterPercent() != 50 || res.LandPercent() != 25 {
		t.Errorf("percent: water=%v land=%v", res.WaterPercent(), res.LandPercent())
	}
}

func TestSegment_CustomColors(t *testing.T) {
	cfg := config.DefaultSegment()
	cfg.WaterColor = "#102030"
	cfg.LandColor = "#A0B0C0"

	res, err := Segment(createStripeImage(color.RGBA{0, 0, 255, 255}, color.RGBA{0, 255, 0, 255}), cfg)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if got := res.Image.NRGBAAt(0, 0); got != (color.NRGBA{0x10, 0x20, 0x30, 255}) {
		t.Errorf("water: got %v", got)
	}
	if got := res.Image.NRGBAAt(1, 0); got != (color.NRGBA{0xA0, 0xB0, 0xC0, 255}) {
		t.Errorf("land: got %v", got)
	}
}

func TestSegment_OffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(50, 60, 52, 61))
	img.Set(50, 60, color.RGBA{0, 255, 0, 255})
	img.Set(51, 60, color.RGBA{0, 0, 255, 255})

	res, err := Segment(img, config.DefaultSegment())
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if res.Image.Bounds() != image.Rect(0, 0, 2, 1) {
		t.Fatalf("bounds: got %v", res.Image.Bounds())
	}
	if res.Image.NRGBAAt(0, 0) != yellow || res.Image.NRGBAAt(1, 0) != blue {
		t.Errorf("got %v %v", res.Image.NRGBAAt(0, 0), res.Image.NRGBAAt(1, 0))
	}
}

func TestSegment_InvalidConfig(t *testing.T) {
	cfg := config.DefaultSegment()
	cfg.LandColor = "not-a-color"

	if _, err := Segment(createStripeImage(color.Black), cfg); err == nil {
		t.Error("expected error for invalid land color")
	}
}

func TestPercent_EmptyImage(t *testing.T) {
	var r Result
	if r.WaterPercent() != 0 || r.LandPercent() != 0 {
		t.Error("empty result should report 0%")
	}
}
