// Package fractal holds the view state shared by the fractal explorer's
// renderer, gesture controller and the collaborators around them.
package fractal

import (
	"math"
)

// Mode selects the fractal family.
type Mode int

const (
	// ModeMandelbrot iterates from the origin with the sampled point as offset.
	ModeMandelbrot Mode = iota
	// ModeJulia iterates from the sampled point with the fixed seed as offset.
	ModeJulia
)

func (m Mode) String() string {
	switch m {
	case ModeMandelbrot:
		return "mandelbrot"
	case ModeJulia:
		return "julia"
	}
	return "unknown"
}

// ParseMode returns the mode named s.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "mandelbrot":
		return ModeMandelbrot, true
	case "julia":
		return ModeJulia, true
	}
	return 0, false
}

// ColorMode selects how an escape result is turned into a color.
type ColorMode int

const (
	ColorSmooth ColorMode = iota // continuous escape count
	ColorEscape                  // discrete escape bands
	ColorOrbit                   // orbit trap
)

func (c ColorMode) String() string {
	switch c {
	case ColorSmooth:
		return "smooth"
	case ColorEscape:
		return "escape"
	case ColorOrbit:
		return "orbit"
	}
	return "unknown"
}

// ParseColorMode returns the color mode named s.
func ParseColorMode(s string) (ColorMode, bool) {
	switch s {
	case "smooth":
		return ColorSmooth, true
	case "escape":
		return ColorEscape, true
	case "orbit":
		return ColorOrbit, true
	}
	return 0, false
}

// Themes known to the user interface. The theme never reaches the kernel.
var Themes = []string{"dark", "amoled", "light", "gradient"}

func validTheme(t string) bool {
	for _, k := range Themes {
		if k == t {
			return true
		}
	}
	return false
}

// Point is a point of the complex plane.
type Point struct {
	X, Y float64
}

func (p Point) Complex() complex128 {
	return complex(p.X, p.Y)
}

func (p Point) Neg() Point {
	return Point{X: -p.X, Y: -p.Y}
}

func (p Point) finite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

// ViewState is the mutable record of the current navigation and rendering
// parameters. It has a single owner: the goroutine that drives the render
// loop. Everything else mutates it through that goroutine.
type ViewState struct {
	Mode      Mode
	Center    Point   // plane point shown in the middle of the viewport
	Scale     float64 // pixels per plane unit, > 0
	MaxIter   int     // >= 1
	Seed      Point   // offset of the julia family
	Palette   string
	ColorMode ColorMode
	Theme     string
}

// MaxIterLimit bounds MaxIter. Views restored from untrusted input are
// clamped to it.
const MaxIterLimit = 10000

// DefaultPalette names the palette used when none (or an unknown one) is set.
const DefaultPalette = "Aurora"

// DefaultView returns the view shown at application start.
func DefaultView() ViewState {
	return ViewState{
		Mode:      ModeMandelbrot,
		Center:    Point{X: -0.5, Y: 0},
		Scale:     350,
		MaxIter:   500,
		Seed:      Point{X: -0.7, Y: 0.27015},
		Palette:   DefaultPalette,
		ColorMode: ColorSmooth,
		Theme:     "dark",
	}
}

// Normalize restores the view invariants field by field, taking the
// replacement for every broken field from DefaultView.
func (v *ViewState) Normalize() {
	def := DefaultView()
	if v.Mode != ModeMandelbrot && v.Mode != ModeJulia {
		v.Mode = def.Mode
	}
	if !v.Center.finite() {
		v.Center = def.Center
	}
	if !isFinite(v.Scale) || v.Scale <= 0 {
		v.Scale = def.Scale
	}
	if v.MaxIter < 1 {
		v.MaxIter = def.MaxIter
	}
	v.MaxIter = min(v.MaxIter, MaxIterLimit)
	if !v.Seed.finite() {
		v.Seed = def.Seed
	}
	if v.Palette == "" {
		v.Palette = def.Palette
	}
	if v.ColorMode < ColorSmooth || v.ColorMode > ColorOrbit {
		v.ColorMode = def.ColorMode
	}
	if !validTheme(v.Theme) {
		v.Theme = def.Theme
	}
}

// Reset moves the view back to the home framing, keeping everything else.
func (v *ViewState) Reset() {
	def := DefaultView()
	v.Center = def.Center
	v.Scale = def.Scale
}

// ToggleMode switches between the two fractal families.
func (v *ViewState) ToggleMode() {
	if v.Mode == ModeMandelbrot {
		v.Mode = ModeJulia
	} else {
		v.Mode = ModeMandelbrot
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
