package config

import (
	"fmt"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// SHAPESCAN_SHAPES_MIN_AREA=300.
const EnvPrefix = "SHAPESCAN"

// DefaultFileName is the config file searched for in the home directory
// (without extension, any format viper understands).
const DefaultFileName = ".shapescan"

// SetDefaults registers every default on v so that environment variables
// and Unmarshal see the full key set.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("log_level", d.LogLevel)

	setRange := func(prefix string, r HSVRange) {
		v.SetDefault(prefix+".lower.h", r.Lower.H)
		v.SetDefault(prefix+".lower.s", r.Lower.S)
		v.SetDefault(prefix+".lower.v", r.Lower.V)
		v.SetDefault(prefix+".upper.h", r.Upper.H)
		v.SetDefault(prefix+".upper.s", r.Upper.S)
		v.SetDefault(prefix+".upper.v", r.Upper.V)
	}
	setRange("segment.water", d.Segment.Water)
	setRange("segment.land", d.Segment.Land)
	v.SetDefault("segment.water_color", d.Segment.WaterColor)
	v.SetDefault("segment.land_color", d.Segment.LandColor)

	v.SetDefault("shapes.blur_kernel", d.Shapes.BlurKernel)
	v.SetDefault("shapes.canny_low", d.Shapes.CannyLow)
	v.SetDefault("shapes.canny_high", d.Shapes.CannyHigh)
	v.SetDefault("shapes.dilate_kernel", d.Shapes.DilateKernel)
	v.SetDefault("shapes.min_area", d.Shapes.MinArea)
	v.SetDefault("shapes.max_area", d.Shapes.MaxArea)
	v.SetDefault("shapes.approx_epsilon", d.Shapes.ApproxEpsilon)
	v.SetDefault("shapes.square_min_ratio", d.Shapes.SquareMinRatio)
	v.SetDefault("shapes.square_max_ratio", d.Shapes.SquareMaxRatio)
	v.SetDefault("shapes.star_solidity", d.Shapes.StarSolidity)
}

// FileError reports a config file that exists but could not be read or
// parsed. Optional is set for the default $HOME file, which callers may skip
// after telling the user.
type FileError struct {
	Path     string
	Optional bool
	Err      error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("failed to read config %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// InitViper prepares v the way the CLI uses it: explicit file if cfgFile is
// set, otherwise $HOME/.shapescan.*, plus SHAPESCAN_* environment overrides.
// A missing config file is not an error. A broken one is a *FileError, with
// Optional set when it is the $HOME file; v stays usable with defaults and
// environment in that case. The returned string is the file actually read,
// empty if none.
func InitViper(v *viper.Viper, cfgFile string) (string, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return "", fmt.Errorf("failed to find home directory: %w", err)
		}
		v.AddConfigPath(home)
		v.SetConfigName(DefaultFileName)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envReplacer())
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return "", nil
		}
		if cfgFile != "" {
			return "", &FileError{Path: filepath.Clean(cfgFile), Err: err}
		}
		return "", &FileError{Path: v.ConfigFileUsed(), Optional: true, Err: err}
	}
	return v.ConfigFileUsed(), nil
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// envReplacer maps nested keys to environment names: shapes.min_area ->
// SHAPESCAN_SHAPES_MIN_AREA.
func envReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}
