// Package config loads knotwork settings from a TOML file.
//
// Example file:
//
//	[sampling]
//	curve_samples = 1024
//	divisions_u = 128
//	divisions_v = 128
//
//	[engine]
//	timeout = "5s"
//
//	[log]
//	level = "info"
//
//	[watch]
//	debounce = "200ms"
//
// Keys left out keep their defaults; unknown keys are an error.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/chazu/knotwork/pkg/nurbs"
	"github.com/chazu/knotwork/pkg/scene"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid setting")

// Sampling holds the default discretization of shapes that do not set
// their own.
type Sampling struct {
	CurveSamples int `toml:"curve_samples"`
	DivisionsU   int `toml:"divisions_u"`
	DivisionsV   int `toml:"divisions_v"`
}

// Engine holds script evaluation limits.
type Engine struct {
	Timeout string `toml:"timeout"`
}

// Log selects the diagnostic log level.
type Log struct {
	Level string `toml:"level"`
}

// Watch configures the file watcher.
type Watch struct {
	Debounce string `toml:"debounce"`
}

// Config is the complete configuration.
type Config struct {
	Sampling Sampling `toml:"sampling"`
	Engine   Engine   `toml:"engine"`
	Log      Log      `toml:"log"`
	Watch    Watch    `toml:"watch"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Sampling: Sampling{
			CurveSamples: nurbs.DefaultCurveSamples,
			DivisionsU:   nurbs.DefaultDivisions,
			DivisionsV:   nurbs.DefaultDivisions,
		},
		Engine: Engine{Timeout: "5s"},
		Log:    Log{Level: "info"},
		Watch:  Watch{Debounce: "200ms"},
	}
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML from r on top of the defaults and validates it.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("line %d, column %d: %w", row, col, err)
		}
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every setting and reports the first problem.
func (c *Config) Validate() error {
	for _, s := range []struct {
		key string
		n   int
	}{
		{"sampling.curve_samples", c.Sampling.CurveSamples},
		{"sampling.divisions_u", c.Sampling.DivisionsU},
		{"sampling.divisions_v", c.Sampling.DivisionsV},
	} {
		if s.n < 2 {
			return fmt.Errorf("%w: %s must be at least 2, got %d", ErrInvalid, s.key, s.n)
		}
		if s.n > nurbs.MaxVertices {
			return fmt.Errorf("%w: %s must be at most %d, got %d", ErrInvalid, s.key, nurbs.MaxVertices, s.n)
		}
	}
	if n := int64(c.Sampling.DivisionsU) * int64(c.Sampling.DivisionsV); n > nurbs.MaxVertices {
		return fmt.Errorf("%w: sampling.divisions_u*divisions_v is %d, at most %d vertices allowed",
			ErrInvalid, n, nurbs.MaxVertices)
	}
	if d, err := time.ParseDuration(c.Engine.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("%w: engine.timeout %q is not a positive duration", ErrInvalid, c.Engine.Timeout)
	}
	if d, err := time.ParseDuration(c.Watch.Debounce); err != nil || d < 0 {
		return fmt.Errorf("%w: watch.debounce %q is not a duration", ErrInvalid, c.Watch.Debounce)
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	return nil
}

// Timeout returns the script evaluation timeout. It assumes a validated
// config and falls back to five seconds otherwise.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.Engine.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// Debounce returns how long the watcher waits for writes to settle.
func (c *Config) Debounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d < 0 {
		return 200 * time.Millisecond
	}
	return d
}

// LogLevel parses the configured level name.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.Log.Level))
	return level, err
}

// SceneDefaults returns the sampling settings as scene defaults.
func (c *Config) SceneDefaults() scene.Defaults {
	return scene.Defaults{
		CurveSamples: c.Sampling.CurveSamples,
		DivisionsU:   c.Sampling.DivisionsU,
		DivisionsV:   c.Sampling.DivisionsV,
	}
}
