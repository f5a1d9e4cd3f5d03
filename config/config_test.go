package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fractal "github.com/marben/fractal_explorer"
	"github.com/marben/fractal_explorer/palette"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, fractal.DefaultView(), c.View())

	l, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, l)
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	c, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "explorer.toml")
	err := os.WriteFile(path, []byte(`
addr = ":9000"
refresh_hz = 30
log_level = "debug"
default_state = "mode=julia&iter=800&scale=oops"

[[palettes]]
name = "ConfigOcean"
colors = ["#001", "#0a3d62", "#60a3bc", "#fff"]
`), 0o644)
	require.NoError(t, err)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", c.Addr)
	assert.Equal(t, 30, c.RefreshHz)
	assert.Equal(t, 64, c.TileSize, "unset keys keep their default")
	assert.Equal(t, "./static", c.StaticDir)

	l, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)

	v := c.View()
	assert.Equal(t, fractal.ModeJulia, v.Mode)
	assert.Equal(t, 800, v.MaxIter)
	assert.Equal(t, 350.0, v.Scale)

	require.NoError(t, c.RegisterPalettes())
	assert.Contains(t, palette.Names(), "ConfigOcean")
	assert.Len(t, palette.Lookup("ConfigOcean"), 4)
	assert.Error(t, c.RegisterPalettes(), "names are registered once")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, doc, want string
	}{
		{"syntax", "addr = ", "config"},
		{"unknown key", "colour = 1", "colour"},
		{"refresh", "refresh_hz = 0", "refresh_hz"},
		{"tile", "tile_size = -4", "tile_size"},
		{"zoom", "zoom_sensitivity = 0.0", "zoom_sensitivity"},
		{"level", `log_level = "loud"`, "log_level"},
		{"palette name", "[[palettes]]\ncolors = [\"#fff\"]", "no name"},
		{"palette colors", "[[palettes]]\nname = \"Broken\"\ncolors = [\"#zzz\"]", "Broken"},
		{"palette empty", "[[palettes]]\nname = \"Empty\"\ncolors = []", "Empty"},
		{"palette size", "[[palettes]]\nname = \"Wide\"\ncolors = [\"#000\",\"#111\",\"#222\",\"#333\",\"#444\",\"#555\",\"#666\",\"#777\",\"#888\"]", "Wide"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
