package fractal

import (
	"context"
	"image"
)

// Presenter shows a finished frame on a rendering surface.
type Presenter interface {
	Present(img *image.RGBA) error
}

// Exporter renders a single still of the current view at width pixels.
type Exporter interface {
	Export(ctx context.Context, width int) (*image.RGBA, error)
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(img *image.RGBA) error

func (f PresenterFunc) Present(img *image.RGBA) error {
	return f(img)
}
