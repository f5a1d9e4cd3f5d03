package fractal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	v := ViewState{
		Mode:      Mode(7),
		Center:    Point{X: math.NaN(), Y: 1},
		Scale:     0,
		MaxIter:   -5,
		Seed:      Point{X: math.Inf(1)},
		ColorMode: ColorMode(9),
	}
	v.Normalize()

	def := DefaultView()
	assert.Equal(t, def, v)
}

func TestNormalizeKeepsValid(t *testing.T) {
	v := DefaultView()
	v.Mode = ModeJulia
	v.Scale = 1e6
	v.MaxIter = 1
	want := v
	v.Normalize()
	assert.Equal(t, want, v)
}

func TestNormalizeClampsIterations(t *testing.T) {
	v := DefaultView()
	v.MaxIter = math.MaxInt32
	v.Normalize()
	assert.Equal(t, MaxIterLimit, v.MaxIter)
}

func TestToggleModeAndReset(t *testing.T) {
	v := DefaultView()
	v.Center = Point{X: 3, Y: 3}
	v.Scale = 12
	v.ToggleMode()
	assert.Equal(t, ModeJulia, v.Mode)
	v.ToggleMode()
	assert.Equal(t, ModeMandelbrot, v.Mode)

	v.Reset()
	assert.Equal(t, Point{X: -0.5, Y: 0}, v.Center)
	assert.Equal(t, 350.0, v.Scale)
}

func TestEnumNames(t *testing.T) {
	for _, m := range []Mode{ModeMandelbrot, ModeJulia} {
		got, ok := ParseMode(m.String())
		require.True(t, ok)
		assert.Equal(t, m, got)
	}
	for _, c := range []ColorMode{ColorSmooth, ColorEscape, ColorOrbit} {
		got, ok := ParseColorMode(c.String())
		require.True(t, ok)
		assert.Equal(t, c, got)
	}
}

func TestLandmarkFrame(t *testing.T) {
	l, ok := LandmarkByName("seahorse-valley")
	require.True(t, ok)

	v := DefaultView()
	l.Frame(&v, 1920, 1080)
	assert.InDelta(t, -0.75, v.Center.X, 1e-12)
	assert.InDelta(t, 0.10, v.Center.Y, 1e-12)
	// 0.1 wide and 0.1 tall: the height is the binding side
	assert.InDelta(t, 10800, v.Scale, 1e-6)

	_, ok = LandmarkByName("atlantis")
	assert.False(t, ok)
}
