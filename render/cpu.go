package render

import (
	"image"
)

// CPURenderer shades tiles on the calling goroutine.
type CPURenderer struct {
	// OnTile is called before a tile is rendered. It may be called from
	// several goroutines at once.
	OnTile func(tile image.Rectangle)
}

// RenderTile implements TileRenderer.
func (r CPURenderer) RenderTile(u *Uniforms, dst *image.RGBA, tile image.Rectangle) error {
	if r.OnTile != nil {
		r.OnTile(tile)
	}

	tile = tile.Intersect(dst.Bounds())
	for py := tile.Min.Y; py < tile.Max.Y; py++ {
		i := dst.PixOffset(tile.Min.X, py)
		for px := tile.Min.X; px < tile.Max.X; px++ {
			cr, cg, cb := Shade(u, px, py).RGB255()
			dst.Pix[i+0] = cr
			dst.Pix[i+1] = cg
			dst.Pix[i+2] = cb
			dst.Pix[i+3] = 255
			i += 4
		}
	}
	return nil
}

var _ TileRenderer = CPURenderer{}
