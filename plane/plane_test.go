package plane

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	fractal "github.com/marben/fractal_explorer"
)

func TestRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for range 2000 {
		vp := Viewport{W: float64(1 + rnd.Intn(4000)), H: float64(1 + rnd.Intn(4000))}
		center := fractal.Point{X: rnd.Float64()*4 - 2, Y: rnd.Float64()*4 - 2}
		scale := math.Exp(rnd.Float64() * 30) // 1 .. ~1e13 px/unit
		x := rnd.Float64() * vp.W
		y := rnd.Float64() * vp.H

		p := ScreenToPlane(x, y, vp, center, scale)
		gx, gy := PlaneToScreen(p, vp, center, scale)

		// rounding of the plane point is magnified by scale on the way back
		tolX := 1e-6 + 8e-16*scale*(1+math.Abs(center.X)+math.Abs(p.X))
		tolY := 1e-6 + 8e-16*scale*(1+math.Abs(center.Y)+math.Abs(p.Y))
		assert.InDelta(t, x, gx, tolX)
		assert.InDelta(t, y, gy, tolY)
	}
}

func TestCenterPixel(t *testing.T) {
	vp := Size(960, 540)
	c := fractal.Point{X: -0.5, Y: 0}
	p := ScreenToPlane(480, 270, vp, c, 350)
	assert.Equal(t, c, p)
}

func TestAxisOrientation(t *testing.T) {
	vp := Size(100, 100)
	c := fractal.Point{}

	right := ScreenToPlane(100, 50, vp, c, 50)
	assert.InDelta(t, 1.0, right.X, 1e-15)

	top := ScreenToPlane(50, 0, vp, c, 50)
	assert.InDelta(t, 1.0, top.Y, 1e-15, "pixel row 0 is the top of the plane")
}

func TestBounds(t *testing.T) {
	r := Bounds(Size(700, 400), fractal.Point{X: -0.5}, 200)
	assert.InDelta(t, -2.25, r.Xmin, 1e-12)
	assert.InDelta(t, 1.25, r.Xmax, 1e-12)
	assert.InDelta(t, -1.0, r.Ymin, 1e-12)
	assert.InDelta(t, 1.0, r.Ymax, 1e-12)
}

func TestFrameMapping(t *testing.T) {
	r := fractal.Region{Xmin: -2, Xmax: 1, Ymin: -1, Ymax: 1}

	p := FrameToPlane(0, 0, 300, 200, r)
	assert.Equal(t, fractal.Point{X: -2, Y: 1}, p)

	p = FrameToPlane(300, 200, 300, 200, r)
	assert.Equal(t, fractal.Point{X: 1, Y: -1}, p)

	x, y := PlaneToFrame(fractal.Point{X: -0.5, Y: 0.5}, 300, 200, r)
	assert.InDelta(t, 150, x, 1e-12)
	assert.InDelta(t, 50, y, 1e-12)
}
