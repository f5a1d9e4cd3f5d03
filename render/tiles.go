package render

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// DefaultTileSize is the edge of the square tiles a frame is split into.
const DefaultTileSize = 64

// TileRenderer fills one tile of dst. Tiles of the same frame are rendered
// concurrently and never overlap.
type TileRenderer interface {
	RenderTile(u *Uniforms, dst *image.RGBA, tile image.Rectangle) error
}

// Dispatcher splits a frame into tiles and renders them in parallel. The
// zero value renders on the CPU with one worker per CPU.
type Dispatcher struct {
	Renderer TileRenderer
	Workers  int
	TileSize int

	// OnProgress is called after each finished tile with the number of
	// finished and total tiles. It may be called from several goroutines.
	OnProgress func(done, total int)
}

// Render shades every pixel of dst and returns once all tiles are done.
func (d Dispatcher) Render(ctx context.Context, u *Uniforms, dst *image.RGBA) error {
	renderer := d.Renderer
	if renderer == nil {
		renderer = CPURenderer{}
	}
	workers := d.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	size := d.TileSize
	if size <= 0 {
		size = DefaultTileSize
	}

	tiles := splitRectNoClip(dst.Bounds(), size, size)
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, tile := range tiles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := renderer.RenderTile(u, dst, tile); err != nil {
				return fmt.Errorf("tile %s: %w", tile, err)
			}
			if d.OnProgress != nil {
				d.OnProgress(int(done.Add(1)), len(tiles))
			}
			return nil
		})
	}
	return g.Wait()
}

// splitRectNoClip splits r into tiles of size tileW × tileH.
// Tiles at the right and bottom edges are smaller if r is not divisible.
func splitRectNoClip(r image.Rectangle, tileW, tileH int) []image.Rectangle {
	if tileW <= 0 || tileH <= 0 {
		panic("tile dimensions must be positive")
	}

	w := r.Dx()
	h := r.Dy()

	var tiles []image.Rectangle

	for oy := 0; oy < h; oy += tileH {
		th := min(tileH, h-oy)

		for ox := 0; ox < w; ox += tileW {
			tw := min(tileW, w-ox)

			tiles = append(tiles, image.Rect(
				r.Min.X+ox,
				r.Min.Y+oy,
				r.Min.X+ox+tw,
				r.Min.Y+oy+th,
			))
		}
	}

	return tiles
}
