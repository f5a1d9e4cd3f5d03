package render

import (
	"context"
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"

	fractal "github.com/marben/fractal_explorer"
)

const (
	// DefaultExportWidth is the width of an export when none is asked for.
	DefaultExportWidth = 3840
	// MaxExportSide bounds both sides of an exported image, supersampling
	// included.
	MaxExportSide = 16384
	// MaxSupersample bounds the supersampling factor of a still.
	MaxSupersample = 4
)

// Rescale returns the view and size of a still targetWidth pixels wide
// showing the same plane region as v does on a curW×curH surface.
func Rescale(v fractal.ViewState, curW, curH, targetWidth int) (fractal.ViewState, int, int, error) {
	if curW <= 0 || curH <= 0 {
		return v, 0, 0, ErrNoSurface
	}
	if targetWidth <= 0 {
		targetWidth = DefaultExportWidth
	}
	ratio := float64(targetWidth) / float64(curW)
	hf := math.Round(float64(curH) * ratio)
	if targetWidth > MaxExportSide || hf > MaxExportSide {
		return v, 0, 0, fmt.Errorf("render: export of %dx%.0f exceeds %d pixels per side", targetWidth, hf, MaxExportSide)
	}
	h := int(hf)
	v.Scale *= ratio
	return v, targetWidth, max(h, 1), nil
}

// Still renders a single w×h frame of v with the full iteration limit. With
// supersample > 1 (at most MaxSupersample) every side is rendered that many
// times larger and scaled down with a Catmull-Rom filter.
func (d Dispatcher) Still(ctx context.Context, v fractal.ViewState, w, h, supersample int) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrNoSurface
	}
	supersample = max(supersample, 1)
	if supersample > MaxSupersample {
		return nil, fmt.Errorf("render: supersampling %dx exceeds %dx", supersample, MaxSupersample)
	}
	if supersample > MaxExportSide/w || supersample > MaxExportSide/h {
		return nil, fmt.Errorf("render: still of %dx%d at %dx supersampling exceeds %d pixels per side", w, h, supersample, MaxExportSide)
	}

	v.Scale *= float64(supersample)
	req := NewFrameRequest(v, w*supersample, h*supersample, v.MaxIter)
	u := req.Uniforms(0)

	big := image.NewRGBA(image.Rect(0, 0, req.Width, req.Height))
	if err := d.Render(ctx, &u, big); err != nil {
		return nil, fmt.Errorf("render: still: %w", err)
	}
	if supersample == 1 {
		return big, nil
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(img, img.Bounds(), big, big.Bounds(), xdraw.Src, nil)
	return img, nil
}
