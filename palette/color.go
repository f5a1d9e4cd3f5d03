package palette

import (
	"math"

	fractal "github.com/marben/fractal_explorer"
	"github.com/marben/fractal_explorer/escape"
)

// ColorOf maps an escape result onto p. maxIter is the iteration budget the
// result was computed with.
func ColorOf(res escape.Result, mode fractal.ColorMode, p Palette, maxIter int) RGB {
	switch len(p) {
	case 0:
		return RGB{}
	case 1:
		return p[0]
	}

	switch mode {
	case fractal.ColorEscape:
		return p[res.Iterations%len(p)]
	case fractal.ColorOrbit:
		if !res.Escaped {
			return p.At(res.Orbit / escape.Radius * float64(len(p)-1))
		}
	}
	return p.At(Smooth(res, maxIter) / float64(max(maxIter, 1)) * float64(len(p)-1))
}

// Smooth returns the continuous escape count of res: the renormalized
// iteration count for escaped orbits, maxIter for bounded ones.
func Smooth(res escape.Result, maxIter int) float64 {
	if !res.Escaped {
		return float64(maxIter)
	}
	return float64(res.Iterations) - math.Log2(math.Log2(res.Orbit))
}

// At interpolates linearly between the two palette colors around pos.
// pos is clamped to [0, len(p)-1]; NaN counts as 0.
func (p Palette) At(pos float64) RGB {
	if len(p) == 0 {
		return RGB{}
	}
	last := float64(len(p) - 1)
	if !(pos > 0) {
		pos = 0
	} else if pos > last {
		pos = last
	}

	i := int(pos)
	if i >= len(p)-1 {
		return p[len(p)-1]
	}
	return p[i].BlendRgb(p[i+1], pos-float64(i))
}
