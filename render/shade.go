package render

import (
	"github.com/marben/fractal_explorer/escape"
	"github.com/marben/fractal_explorer/palette"
	"github.com/marben/fractal_explorer/plane"
)

// Shade computes the color of pixel (x, y) from the uniform bundle, the
// same way the fragment stage of kernel.wgsl does. Pixels are sampled at
// their centers.
func Shade(u *Uniforms, x, y int) palette.RGB {
	vp := plane.Viewport{W: u.Resolution[0], H: u.Resolution[1]}
	p := plane.ScreenToPlane(float64(x)+0.5, float64(y)+0.5, vp, u.Center, u.Scale)
	res := escape.Evaluate(p, u.Mode, u.Seed, u.MaxIter)
	return palette.ColorOf(res, u.ColorMode, u.colors(), u.MaxIter)
}
