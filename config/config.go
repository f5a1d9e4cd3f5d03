// Package config loads the explorer settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"net/url"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	fractal "github.com/marben/fractal_explorer"
	"github.com/marben/fractal_explorer/palette"
)

// Config holds every setting of the server, the viewer and the export tool.
type Config struct {
	Addr      string `toml:"addr"`
	StaticDir string `toml:"static_dir"`

	RefreshHz       int     `toml:"refresh_hz"`
	Workers         int     `toml:"workers"` // 0 means one per CPU
	TileSize        int     `toml:"tile_size"`
	ZoomSensitivity float64 `toml:"zoom_sensitivity"`
	ExportWidth     int     `toml:"export_width"`

	LogLevel string `toml:"log_level"`

	// DefaultState is a state query string applied on top of the built-in
	// start view, e.g. "mode=julia&iter=800".
	DefaultState string `toml:"default_state"`

	Palettes []Palette `toml:"palettes"`
}

// Palette is a user defined palette.
type Palette struct {
	Name   string   `toml:"name"`
	Colors []string `toml:"colors"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Addr:            ":8080",
		StaticDir:       "./static",
		RefreshHz:       60,
		TileSize:        64,
		ZoomSensitivity: 0.0015,
		ExportWidth:     3840,
		LogLevel:        "info",
	}
}

// Load reads the file at path over Default. A missing file is not an error.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	if err := c.decode(f); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Parse reads TOML from r over Default.
func Parse(r io.Reader) (Config, error) {
	c := Default()
	if err := c.decode(r); err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

func (c *Config) decode(r io.Reader) error {
	d := toml.NewDecoder(r)
	d.DisallowUnknownFields()
	if err := d.Decode(c); err != nil {
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) && len(serr.Errors) > 0 {
			e := serr.Errors[0]
			row, col := e.Position()
			return fmt.Errorf("line %d column %d: unknown key %s", row, col, strings.Join(e.Key(), "."))
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("line %d column %d: %w", row, col, err)
		}
		return err
	}
	return c.Validate()
}

// Validate reports the first setting out of range.
func (c Config) Validate() error {
	switch {
	case c.RefreshHz < 1 || c.RefreshHz > 240:
		return fmt.Errorf("refresh_hz %d out of 1..240", c.RefreshHz)
	case c.Workers < 0:
		return fmt.Errorf("workers %d is negative", c.Workers)
	case c.TileSize < 1:
		return fmt.Errorf("tile_size %d must be positive", c.TileSize)
	case !(c.ZoomSensitivity > 0) || math.IsInf(c.ZoomSensitivity, 1):
		return fmt.Errorf("zoom_sensitivity %v must be positive", c.ZoomSensitivity)
	case c.ExportWidth < 1:
		return fmt.Errorf("export_width %d must be positive", c.ExportWidth)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := url.ParseQuery(c.DefaultState); err != nil {
		return fmt.Errorf("default_state: %w", err)
	}
	for i, p := range c.Palettes {
		if p.Name == "" {
			return fmt.Errorf("palette #%d has no name", i+1)
		}
		if _, err := palette.Parse(p.Colors...); err != nil {
			return fmt.Errorf("palette %q: %w", p.Name, err)
		}
	}
	return nil
}

// Level returns the configured log level.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// View returns the start view: the built-in default with DefaultState
// applied field by field.
func (c Config) View() fractal.ViewState {
	q, _ := url.ParseQuery(c.DefaultState)
	return fractal.ParseValues(q, fractal.DefaultView())
}

// RegisterPalettes adds the configured palettes to the palette registry.
func (c Config) RegisterPalettes() error {
	for _, p := range c.Palettes {
		colors, err := palette.Parse(p.Colors...)
		if err != nil {
			return fmt.Errorf("palette %q: %w", p.Name, err)
		}
		if err := palette.Register(p.Name, colors); err != nil {
			return err
		}
	}
	return nil
}
