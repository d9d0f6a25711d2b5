// Package config loads and saves the padedit settings file.
package config

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// EnvLogLevel overrides Log.Level when set.
const EnvLogLevel = "PADEDIT_LOG_LEVEL"

// Config holds persistent editor settings.
type Config struct {
	Canvas CanvasConfig `toml:"canvas"`
	Log    LogConfig    `toml:"log"`
	Render RenderConfig `toml:"render"`
	// LastFile is the graph description opened last.
	LastFile string `toml:"last_file"`
	LastDir  string `toml:"last_dir"`
}

// CanvasConfig bounds interactive moves.
type CanvasConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Bounds is the canvas rectangle.
func (c CanvasConfig) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.Width, c.Height)
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json"
	File   string `toml:"file"`
}

// RenderConfig controls image export.
type RenderConfig struct {
	Format string `toml:"format"` // "png" or "svg"
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// Default returns the default configuration.
func Default() *Config {
	cwd, _ := os.Getwd()
	return &Config{
		Canvas:  CanvasConfig{Width: 1280, Height: 960},
		Log:     LogConfig{Level: "info", Format: "text", File: filepath.Join(os.TempDir(), "padedit.log")},
		Render:  RenderConfig{Format: "png"},
		LastDir: cwd,
	}
}

// Path returns the settings file location.
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".padedit.toml"
	}
	return filepath.Join(home, ".padedit.toml")
}

// Load reads the settings at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, err
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		cfg.Log.Level = lvl
	}
	return cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintln(f, "# padedit configuration")
	return toml.NewEncoder(f).Encode(cfg)
}

func (c *Config) validate() error {
	if c.Canvas.Width < 0 || c.Canvas.Height < 0 {
		return fmt.Errorf("canvas size %dx%d is negative", c.Canvas.Width, c.Canvas.Height)
	}
	switch c.Render.Format {
	case "png", "svg":
	default:
		return fmt.Errorf("render format %q: want png or svg", c.Render.Format)
	}
	return nil
}
