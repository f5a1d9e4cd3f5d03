package overview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	fractal "github.com/marben/fractal_explorer"
)

func TestDescribe(t *testing.T) {
	v := fractal.DefaultView()
	want := "Mode: MANDELBROT\n" +
		"Center: -0.500000, 0.000000\n" +
		"Scale: 350.00 px/unit\n" +
		"Iter: 500\n" +
		"FPS: 60\n" +
		"Palette: Aurora (smooth)\n" +
		"Theme: dark"
	assert.Equal(t, want, Describe(v, 60, 500))
}

func TestDescribeJulia(t *testing.T) {
	v := fractal.DefaultView()
	v.Mode = fractal.ModeJulia
	v.Scale = 1234567.891
	v.MaxIter = 2000

	got := Describe(v, 0, 800)
	assert.Contains(t, got, "Mode: JULIA\n")
	assert.Contains(t, got, "Scale: 1,234,567.89 px/unit\n")
	assert.Contains(t, got, "Iter: 2,000 (800 while moving)\n")
	assert.Contains(t, got, "Julia C: -0.700000, 0.270150\n")
}

func TestFPSMeter(t *testing.T) {
	var m FPSMeter
	t0 := time.Unix(100, 0)
	assert.False(t, m.Tick(t0))

	frame := time.Second / 50
	for i := 1; i < 50; i++ {
		assert.False(t, m.Tick(t0.Add(time.Duration(i)*frame)))
	}
	assert.True(t, m.Tick(t0.Add(50*frame)))
	assert.Equal(t, 50, m.FPS())

	assert.False(t, m.Tick(t0.Add(51*frame)))
	assert.Equal(t, 50, m.FPS())
}
