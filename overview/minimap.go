// Package overview draws the navigation thumbnail and formats the info
// panel of the explorer.
package overview

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"

	fractal "github.com/marben/fractal_explorer"
	"github.com/marben/fractal_explorer/plane"
)

// World is the plane region the minimap shows.
var World = fractal.Home

const (
	gradientFrom = "#0b132b"
	gradientTo   = "#1c2541"
	frameColor   = "#00ffd1"
	frameWidth   = 2
	// minFrame keeps the viewport frame visible at deep zoom.
	minFrame = 4
	// MaxSide bounds both sides of a minimap.
	MaxSide = 4096
)

// Minimap draws a w×h thumbnail of World with the region covered by a
// surface of size vp outlined on top of it.
func Minimap(v fractal.ViewState, vp plane.Viewport, w, h int) (*image.RGBA, error) {
	if w <= 0 || h <= 0 || w > MaxSide || h > MaxSide {
		return nil, fmt.Errorf("overview: minimap size %dx%d", w, h)
	}
	dc := gg.NewContext(w, h)
	defer dc.Close()

	fw, fh := float64(w), float64(h)
	dc.SetFillBrush(gg.NewLinearGradientBrush(0, 0, fw, fh).
		AddColorStop(0, gg.Hex(gradientFrom)).
		AddColorStop(1, gg.Hex(gradientTo)))
	dc.DrawRectangle(0, 0, fw, fh)
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("overview: background: %w", err)
	}

	if vp.W > 0 && vp.H > 0 {
		b := plane.Bounds(vp, v.Center, v.Scale)
		x0, y0 := plane.PlaneToFrame(fractal.Point{X: b.Xmin, Y: b.Ymax}, fw, fh, World)
		x1, y1 := plane.PlaneToFrame(fractal.Point{X: b.Xmax, Y: b.Ymin}, fw, fh, World)
		x0, x1 = frameSpan(x0, x1, fw)
		y0, y1 = frameSpan(y0, y1, fh)

		dc.SetHexColor(frameColor)
		dc.SetLineWidth(frameWidth)
		dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("overview: viewport frame: %w", err)
		}
	}

	img, ok := dc.Image().(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("overview: unexpected image type %T", dc.Image())
	}
	return img, nil
}

// JumpTarget maps a click at (x, y) on a w×h minimap to the plane point
// the view should be centered on.
func JumpTarget(x, y, w, h float64) fractal.Point {
	return plane.FrameToPlane(x, y, w, h, World)
}

// frameSpan widens [lo, hi] to at least minFrame pixels and clips it to a
// band around the thumbnail so far zoomed out views stay drawable.
func frameSpan(lo, hi, size float64) (float64, float64) {
	if hi-lo < minFrame {
		mid := (lo + hi) / 2
		lo, hi = mid-minFrame/2, mid+minFrame/2
	}
	lo = math.Max(lo, -frameWidth)
	hi = math.Min(hi, size+frameWidth)
	return lo, hi
}
