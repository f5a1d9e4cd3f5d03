// Package plane maps between viewport pixels and points of the complex plane.
//
// A view is described by the plane point shown in the middle of the viewport
// and a scale in pixels per plane unit. Pixel Y grows downwards while plane Y
// grows upwards, so the vertical axis is flipped.
package plane

import (
	fractal "github.com/marben/fractal_explorer"
)

// Viewport is the size of a rendering surface in pixels.
type Viewport struct {
	W, H float64
}

// Size returns the viewport of a w×h pixel surface.
func Size(w, h int) Viewport {
	return Viewport{W: float64(w), H: float64(h)}
}

// ScreenToPlane returns the plane point under pixel (x, y).
func ScreenToPlane(x, y float64, vp Viewport, center fractal.Point, scale float64) fractal.Point {
	return fractal.Point{
		X: center.X + (x-vp.W/2)/scale,
		Y: center.Y - (y-vp.H/2)/scale,
	}
}

// PlaneToScreen returns the pixel showing plane point p. It is the inverse
// of ScreenToPlane.
func PlaneToScreen(p fractal.Point, vp Viewport, center fractal.Point, scale float64) (x, y float64) {
	x = (p.X-center.X)*scale + vp.W/2
	y = vp.H/2 - (p.Y-center.Y)*scale
	return x, y
}

// Bounds returns the plane region covered by the viewport.
func Bounds(vp Viewport, center fractal.Point, scale float64) fractal.Region {
	hw := vp.W / 2 / scale
	hh := vp.H / 2 / scale
	return fractal.Region{
		Xmin: center.X - hw,
		Xmax: center.X + hw,
		Ymin: center.Y - hh,
		Ymax: center.Y + hh,
	}
}

// FrameToPlane returns the point under pixel (x, y) of a w×h image that
// shows region r stretched to fit, as thumbnails do.
func FrameToPlane(x, y, w, h float64, r fractal.Region) fractal.Point {
	return fractal.Point{
		X: r.Xmin + x/w*(r.Xmax-r.Xmin),
		Y: r.Ymin + (1-y/h)*(r.Ymax-r.Ymin),
	}
}

// PlaneToFrame is the inverse of FrameToPlane.
func PlaneToFrame(p fractal.Point, w, h float64, r fractal.Region) (x, y float64) {
	x = (p.X - r.Xmin) / (r.Xmax - r.Xmin) * w
	y = (r.Ymax - p.Y) / (r.Ymax - r.Ymin) * h
	return x, y
}
