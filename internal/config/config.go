// Package config holds the tunable parameters of the segmenter and the shape
// detector. Default returns the tuned literals; Load layers a config file,
// environment variables and flags on top through viper.
package config

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// HSV is a bound in 8-bit HSV space: hue 0-179 (degrees / 2), saturation and
// value 0-255.
type HSV struct {
	H int `mapstructure:"h" json:"h"`
	S int `mapstructure:"s" json:"s"`
	V int `mapstructure:"v" json:"v"`
}

// HSVRange is a closed interval per channel.
type HSVRange struct {
	Lower HSV `mapstructure:"lower" json:"lower"`
	Upper HSV `mapstructure:"upper" json:"upper"`
}

// SegmentConfig parameterizes the water/land color segmenter.
type SegmentConfig struct {
	// Water is the HSV range painted with WaterColor.
	Water HSVRange `mapstructure:"water" json:"water"`

	// Land is the HSV range painted with LandColor. It is applied after
	// Water, so it wins where both ranges match.
	Land HSVRange `mapstructure:"land" json:"land"`

	// WaterColor and LandColor are hex colors ("#RRGGBB").
	WaterColor string `mapstructure:"water_color" json:"water_color"`
	LandColor  string `mapstructure:"land_color" json:"land_color"`
}

// ShapeConfig parameterizes the shape and centroid detector.
type ShapeConfig struct {
	BlurKernel     int     `mapstructure:"blur_kernel" json:"blur_kernel"`
	CannyLow       float64 `mapstructure:"canny_low" json:"canny_low"`
	CannyHigh      float64 `mapstructure:"canny_high" json:"canny_high"`
	DilateKernel   int     `mapstructure:"dilate_kernel" json:"dilate_kernel"`
	MinArea        float64 `mapstructure:"min_area" json:"min_area"`
	MaxArea        float64 `mapstructure:"max_area" json:"max_area"`
	ApproxEpsilon  float64 `mapstructure:"approx_epsilon" json:"approx_epsilon"`
	SquareMinRatio float64 `mapstructure:"square_min_ratio" json:"square_min_ratio"`
	SquareMaxRatio float64 `mapstructure:"square_max_ratio" json:"square_max_ratio"`
	StarSolidity   float64 `mapstructure:"star_solidity" json:"star_solidity"`
}

// Config is the complete runtime configuration.
type Config struct {
	LogLevel string        `mapstructure:"log_level" json:"log_level"`
	Segment  SegmentConfig `mapstructure:"segment" json:"segment"`
	Shapes   ShapeConfig   `mapstructure:"shapes" json:"shapes"`
}

// DefaultSegment returns the segmenter defaults.
func DefaultSegment() SegmentConfig {
	return SegmentConfig{
		Water: HSVRange{
			Lower: HSV{H: 95, S: 80, V: 50},
			Upper: HSV{H: 130, S: 255, V: 255},
		},
		Land: HSVRange{
			Lower: HSV{H: 50, S: 50, V: 50},
			Upper: HSV{H: 65, S: 255, V: 255},
		},
		WaterColor: "#0000FF",
		LandColor:  "#FFFF00",
	}
}

// DefaultShapes returns the detector defaults.
//
// MinArea and MaxArea are absolute pixel areas and do not scale with the
// image resolution.
func DefaultShapes() ShapeConfig {
	return ShapeConfig{
		BlurKernel:     7,
		CannyLow:       50,
		CannyHigh:      150,
		DilateKernel:   5,
		MinArea:        500,
		MaxArea:        10000,
		ApproxEpsilon:  0.04,
		SquareMinRatio: 0.9,
		SquareMaxRatio: 1.1,
		StarSolidity:   0.85,
	}
}

// Default returns a Config populated with all defaults.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Segment:  DefaultSegment(),
		Shapes:   DefaultShapes(),
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if err := c.Segment.Validate(); err != nil {
		return fmt.Errorf("segment: %w", err)
	}
	if err := c.Shapes.Validate(); err != nil {
		return fmt.Errorf("shapes: %w", err)
	}
	return nil
}

// Validate checks channel limits and the two paint colors.
func (c SegmentConfig) Validate() error {
	if err := c.Water.validate(); err != nil {
		return fmt.Errorf("water range: %w", err)
	}
	if err := c.Land.validate(); err != nil {
		return fmt.Errorf("land range: %w", err)
	}
	if _, err := colorful.Hex(c.WaterColor); err != nil {
		return fmt.Errorf("water color %q: %w", c.WaterColor, err)
	}
	if _, err := colorful.Hex(c.LandColor); err != nil {
		return fmt.Errorf("land color %q: %w", c.LandColor, err)
	}
	return nil
}

func (r HSVRange) validate() error {
	for _, b := range []HSV{r.Lower, r.Upper} {
		if b.H < 0 || b.H > 179 {
			return fmt.Errorf("hue %d outside 0-179", b.H)
		}
		if b.S < 0 || b.S > 255 || b.V < 0 || b.V > 255 {
			return fmt.Errorf("saturation/value (%d,%d) outside 0-255", b.S, b.V)
		}
	}
	if r.Lower.H > r.Upper.H || r.Lower.S > r.Upper.S || r.Lower.V > r.Upper.V {
		return errors.New("lower bound exceeds upper bound")
	}
	return nil
}

// Validate checks kernel sizes, thresholds and ratios.
func (c ShapeConfig) Validate() error {
	if c.BlurKernel < 1 || c.BlurKernel%2 == 0 {
		return fmt.Errorf("blur kernel must be a positive odd size, got %d", c.BlurKernel)
	}
	if c.DilateKernel < 1 || c.DilateKernel%2 == 0 {
		return fmt.Errorf("dilate kernel must be a positive odd size, got %d", c.DilateKernel)
	}
	if c.CannyLow <= 0 || c.CannyHigh < c.CannyLow {
		return fmt.Errorf("invalid canny thresholds %v/%v", c.CannyLow, c.CannyHigh)
	}
	if c.MinArea < 0 || c.MaxArea < c.MinArea {
		return fmt.Errorf("invalid area range [%v, %v]", c.MinArea, c.MaxArea)
	}
	if c.ApproxEpsilon <= 0 || c.ApproxEpsilon >= 1 {
		return fmt.Errorf("approx epsilon must be in (0, 1), got %v", c.ApproxEpsilon)
	}
	if c.SquareMinRatio <= 0 || c.SquareMaxRatio < c.SquareMinRatio {
		return fmt.Errorf("invalid square ratio range [%v, %v]", c.SquareMinRatio, c.SquareMaxRatio)
	}
	if c.StarSolidity <= 0 || c.StarSolidity > 1 {
		return fmt.Errorf("star solidity must be in (0, 1], got %v", c.StarSolidity)
	}
	return nil
}
