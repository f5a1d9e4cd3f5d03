// Package gesture turns raw pointer, wheel and touch input into changes of
// the view state.
package gesture

import (
	"math"
	"time"

	fractal "github.com/marben/fractal_explorer"
	"github.com/marben/fractal_explorer/plane"
	"github.com/marben/fractal_explorer/quality"
)

// DefaultSensitivity is the wheel zoom rate per wheel delta unit.
const DefaultSensitivity = 0.0015

// Controller applies gestures to a view. Every gesture, applied or not,
// marks the scheduler as interacting.
//
// A Controller must only be used from the goroutine owning the view.
type Controller struct {
	view     *fractal.ViewState
	sched    *quality.Scheduler
	viewport func() plane.Viewport

	// Sensitivity is the wheel zoom rate k in scale × exp(−dy·k).
	Sensitivity float64
	// Now is the clock used to poke the scheduler.
	Now func() time.Time
}

// NewController returns a controller for view. viewport reports the current
// size of the rendering surface and is used to map taps onto the plane.
func NewController(view *fractal.ViewState, sched *quality.Scheduler, viewport func() plane.Viewport) *Controller {
	return &Controller{
		view:        view,
		sched:       sched,
		viewport:    viewport,
		Sensitivity: DefaultSensitivity,
		Now:         time.Now,
	}
}

func (c *Controller) poke() {
	c.sched.Poke(c.Now())
}

// setScale accepts only scales that keep the view renderable.
func (c *Controller) setScale(s float64) {
	if s > 0 && !math.IsInf(s, 1) {
		c.view.Scale = s
	}
}

// Wheel zooms multiplicatively: positive dy zooms out.
func (c *Controller) Wheel(dy float64) {
	c.poke()
	if !finite(dy) {
		return
	}
	c.setScale(c.view.Scale * math.Exp(-dy*c.Sensitivity))
}

// Pan moves the view by a pointer drag of (dx, dy) pixels.
func (c *Controller) Pan(dx, dy float64) {
	c.poke()
	if !finite(dx) || !finite(dy) {
		return
	}
	c.view.Center.X -= dx / c.view.Scale
	c.view.Center.Y += dy / c.view.Scale
}

// Pinch zooms by the ratio of the current to the previous finger distance.
func (c *Controller) Pinch(ratio float64) {
	c.poke()
	if !finite(ratio) || ratio <= 0 {
		return
	}
	c.setScale(c.view.Scale * ratio)
}

// Tap picks the julia seed at pixel (x, y). In mandelbrot mode the view
// switches to the julia family seeded with the tapped point; in julia mode
// the seed moves to the tapped point, negated when secondary is set.
func (c *Controller) Tap(x, y float64, secondary bool) {
	c.poke()
	if !finite(x) || !finite(y) {
		return
	}
	p := plane.ScreenToPlane(x, y, c.viewport(), c.view.Center, c.view.Scale)
	switch c.view.Mode {
	case fractal.ModeJulia:
		if secondary {
			p = p.Neg()
		}
		c.view.Seed = p
	default:
		c.view.Mode = fractal.ModeJulia
		c.view.Seed = p
	}
}

// Jump centers the view on p, as picked on the navigation thumbnail.
func (c *Controller) Jump(p fractal.Point) {
	c.poke()
	if !finite(p.X) || !finite(p.Y) {
		return
	}
	c.view.Center = p
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
