// Package config loads checkers-vision settings.
//
// Settings are resolved from lowest to highest priority:
//  1. Defaults in code
//  2. An optional YAML file
//  3. CHECKERS_* environment variables
//
// The merged result is validated before it is returned.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/checkers-vision/internal/recognition"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "CHECKERS_"

// Config is the complete application configuration.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Detection DetectionConfig `yaml:"detection"`
	Annotate  AnnotateConfig  `yaml:"annotate"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// DetectionConfig controls the recognition pipeline.
type DetectionConfig struct {
	Scale      int     `yaml:"scale" validate:"min=1"`
	Workers    int     `yaml:"workers" validate:"min=1,max=256"`
	Downscale  bool    `yaml:"downscale"`
	BlurRadius float64 `yaml:"blur_radius" validate:"min=0,max=50"`

	Params recognition.Params `yaml:"params"`
}

// AnnotateConfig controls annotated output images.
type AnnotateConfig struct {
	BlueColor  string `yaml:"blue_color" validate:"hexcolor"`
	RedColor   string `yaml:"red_color" validate:"hexcolor"`
	LabelColor string `yaml:"label_color" validate:"hexcolor"`
	Radius     int    `yaml:"radius" validate:"min=1,max=500"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Detection: DetectionConfig{
			Scale:   1,
			Workers: 1,
			Params:  recognition.DefaultParams(),
		},
		Annotate: AnnotateConfig{
			BlueColor:  "#00BFFF",
			RedColor:   "#FF3030",
			LabelColor: "#FFFFFF",
			Radius:     14,
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Options converts the detection settings into recognition options.
func (c *Config) Options() recognition.Options {
	return recognition.Options{
		Scale:      c.Detection.Scale,
		Workers:    c.Detection.Workers,
		Downscale:  c.Detection.Downscale,
		BlurRadius: c.Detection.BlurRadius,
		Params:     c.Detection.Params,
	}
}

var validate = validator.New()

// Validate checks every field against its constraints and that the scale
// leaves a block of at least one pixel.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	if _, err := recognition.BlockSize(c.Detection.Params.BaseBlockSize, c.Detection.Scale); err != nil {
		return err
	}
	return nil
}

// applyEnv overlays CHECKERS_* variables. lookup is os.LookupEnv outside tests.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		c.Log.Level = strings.ToLower(v)
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"SCALE", &c.Detection.Scale},
		{"WORKERS", &c.Detection.Workers},
		{"MAX_DISTANCE_SQUARED", &c.Detection.Params.MaxDistanceSquared},
		{"MIN_POINTS", &c.Detection.Params.MinPoints},
		{"MIN_COLOR_POINTS", &c.Detection.Params.MinColorPoints},
		{"KING_YELLOW_POINTS", &c.Detection.Params.KingYellowPoints},
	}
	for _, e := range ints {
		v, ok := lookup(EnvPrefix + e.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, e.key, err)
		}
		*e.dst = n
	}

	if v, ok := lookup(EnvPrefix + "DOWNSCALE"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %sDOWNSCALE: %w", EnvPrefix, err)
		}
		c.Detection.Downscale = b
	}
	if v, ok := lookup(EnvPrefix + "BLUR_RADIUS"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("invalid %sBLUR_RADIUS: %w", EnvPrefix, err)
		}
		c.Detection.BlurRadius = f
	}
	return nil
}
