package palette

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fractal "github.com/marben/fractal_explorer"
	"github.com/marben/fractal_explorer/escape"
)

var (
	black = RGB{}
	white = RGB{R: 1, G: 1, B: 1}
	red   = RGB{R: 1}
)

func TestSingleColor(t *testing.T) {
	p := Palette{red}
	results := []escape.Result{
		{Iterations: 0, Escaped: true, Orbit: 1e9},
		{Iterations: 17, Escaped: true, Orbit: 2.5},
		{Iterations: 500, Escaped: false, Orbit: 0.3},
		{Iterations: 500, Escaped: false, Orbit: math.NaN()},
	}
	for _, mode := range []fractal.ColorMode{fractal.ColorSmooth, fractal.ColorEscape, fractal.ColorOrbit} {
		for _, r := range results {
			assert.Equal(t, red, ColorOf(r, mode, p, 500))
		}
	}
	for _, pos := range []float64{-5, 0, 0.5, 3, math.Inf(1)} {
		assert.Equal(t, red, p.At(pos))
	}
}

func TestEmptyPalette(t *testing.T) {
	assert.Equal(t, black, ColorOf(escape.Result{Iterations: 3, Escaped: true, Orbit: 3}, fractal.ColorSmooth, nil, 10))
	assert.Equal(t, black, Palette{}.At(2))
}

func TestDiscrete(t *testing.T) {
	p := Palette{black, red, white}
	for it, want := range []RGB{black, red, white, black, red} {
		got := ColorOf(escape.Result{Iterations: it, Escaped: true, Orbit: 3}, fractal.ColorEscape, p, 100)
		assert.Equal(t, want, got, "iterations %d", it)
	}
}

func TestAtClampsAndInterpolates(t *testing.T) {
	p := Palette{black, white}
	assert.Equal(t, black, p.At(-1))
	assert.Equal(t, black, p.At(math.NaN()))
	assert.Equal(t, white, p.At(1))
	assert.Equal(t, white, p.At(42))

	mid := p.At(0.5)
	assert.InDelta(t, 0.5, mid.R, 1e-12)
	assert.InDelta(t, 0.5, mid.G, 1e-12)
	assert.InDelta(t, 0.5, mid.B, 1e-12)
}

func TestSmooth(t *testing.T) {
	p := Palette{black, white}

	// bounded pixels sit at the far end of the palette
	inside := escape.Result{Iterations: 200, Escaped: false, Orbit: 0.1}
	assert.Equal(t, white, ColorOf(inside, fractal.ColorSmooth, p, 200))

	// |z| = 16 at escape renormalizes by log2(log2(16)) = 2
	res := escape.Result{Iterations: 52, Escaped: true, Orbit: 16}
	assert.InDelta(t, 50.0, Smooth(res, 100), 1e-12)
	c := ColorOf(res, fractal.ColorSmooth, p, 100)
	assert.InDelta(t, 0.5, c.R, 1e-12)
}

func TestOrbitTrap(t *testing.T) {
	p := Palette{black, white}
	res := escape.Result{Iterations: 100, Escaped: false, Orbit: 1}
	c := ColorOf(res, fractal.ColorOrbit, p, 100)
	assert.InDelta(t, 0.5, c.G, 1e-12)

	// escaped pixels keep their smooth color in orbit mode
	esc := escape.Result{Iterations: 52, Escaped: true, Orbit: 16}
	assert.Equal(t, ColorOf(esc, fractal.ColorSmooth, p, 100), ColorOf(esc, fractal.ColorOrbit, p, 100))
}

func TestSlots(t *testing.T) {
	slots, size := Palette{red, white}.Slots()
	assert.Equal(t, 2, size)
	assert.Equal(t, red, slots[0])
	for _, c := range slots[1:] {
		assert.Equal(t, white, c)
	}

	long := make(Palette, 11)
	for i := range long {
		long[i] = RGB{R: float64(i) / 10}
	}
	slots, size = long.Slots()
	assert.Equal(t, MaxColors, size)
	assert.Equal(t, long[7], slots[7])

	slots, size = Palette(nil).Slots()
	assert.Equal(t, 0, size)
	assert.Equal(t, [MaxColors]RGB{}, slots)
}

func TestParse(t *testing.T) {
	p, err := Parse("#000000", "#0ef")
	require.NoError(t, err)
	require.Len(t, p, 2)
	want, _ := colorful.Hex("#00eeff")
	assert.True(t, p[1].AlmostEqualRgb(want))

	_, err = Parse()
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = Parse("#1", "#2", "#3", "#4", "#5", "#6", "#7", "#8", "#9")
	assert.ErrorIs(t, err, ErrTooLarge)
	_, err = Parse("chartreuse")
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	require.NoError(t, Register("TestOcean", MustParse("#001f3f", "#39cccc")))
	assert.Len(t, Lookup("TestOcean"), 2)
	assert.Error(t, Register("TestOcean", MustParse("#ffffff")))
	assert.Error(t, Register("TestEmpty", nil))

	assert.Equal(t, Lookup(fractal.DefaultPalette), Lookup("no-such-palette"))
	assert.Contains(t, Names(), "Grayscale")
	assert.Equal(t, Names()[0], Next(Names()[len(Names())-1]))
}
