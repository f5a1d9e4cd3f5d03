// Package escape evaluates the escape time of a single plane point under
// z ← z² + c.
package escape

import (
	"math"

	fractal "github.com/marben/fractal_explorer"
)

// Radius is the bail-out magnitude. Orbits leaving it are guaranteed to
// diverge; smooth coloring assumes exactly this radius.
const Radius = 2

// Result of evaluating one point.
type Result struct {
	// Iterations is the smallest n with |z_n| > Radius, or the iteration
	// limit when the orbit stays bounded.
	Iterations int
	Escaped    bool
	// Orbit is |z| at escape, or the smallest |z| the bounded orbit reached.
	Orbit float64
}

// Evaluate iterates p in the family selected by mode. In ModeMandelbrot the
// orbit starts at the origin and p is the offset; in ModeJulia it starts at
// p and seed is the offset. maxIter below 1 is treated as 1.
func Evaluate(p fractal.Point, mode fractal.Mode, seed fractal.Point, maxIter int) Result {
	if maxIter < 1 {
		maxIter = 1
	}

	var zr, zi, cr, ci float64
	if mode == fractal.ModeJulia {
		zr, zi = p.X, p.Y
		cr, ci = seed.X, seed.Y
	} else {
		cr, ci = p.X, p.Y
	}

	const r2 = Radius * Radius
	if m := zr*zr + zi*zi; m > r2 {
		return Result{Iterations: 0, Escaped: true, Orbit: math.Sqrt(m)}
	}

	minMag := math.Inf(1)
	for i := 1; i <= maxIter; i++ {
		zr, zi = zr*zr-zi*zi+cr, 2*zr*zi+ci
		m := zr*zr + zi*zi
		if m > r2 {
			return Result{Iterations: i, Escaped: true, Orbit: math.Sqrt(m)}
		}
		if m < minMag {
			minMag = m
		}
	}

	return Result{Iterations: maxIter, Escaped: false, Orbit: math.Sqrt(minMag)}
}
