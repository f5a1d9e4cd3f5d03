package render

import (
	"encoding/binary"
	"math"
	"time"

	fractal "github.com/marben/fractal_explorer"
	"github.com/marben/fractal_explorer/palette"
)

// FrameRequest describes one frame: its resolution, the parts of the view
// the kernel needs and the iteration budget picked for it.
type FrameRequest struct {
	Width, Height int

	Mode      fractal.Mode
	Center    fractal.Point
	Scale     float64
	Seed      fractal.Point
	ColorMode fractal.ColorMode
	Palette   string

	Budget int
}

// NewFrameRequest snapshots v for a w×h frame rendered with budget
// iterations.
func NewFrameRequest(v fractal.ViewState, w, h, budget int) FrameRequest {
	return FrameRequest{
		Width:     w,
		Height:    h,
		Mode:      v.Mode,
		Center:    v.Center,
		Scale:     v.Scale,
		Seed:      v.Seed,
		ColorMode: v.ColorMode,
		Palette:   v.Palette,
		Budget:    budget,
	}
}

// Uniforms builds the kernel parameter bundle of the request. elapsed is
// the time since the loop started.
func (r FrameRequest) Uniforms(elapsed time.Duration) Uniforms {
	slots, size := palette.Lookup(r.Palette).Slots()
	return Uniforms{
		Resolution:  [2]float64{float64(r.Width), float64(r.Height)},
		Time:        elapsed.Seconds(),
		MaxIter:     r.Budget,
		Center:      r.Center,
		Scale:       r.Scale,
		Seed:        r.Seed,
		Mode:        r.Mode,
		ColorMode:   r.ColorMode,
		PaletteSize: size,
		Palette:     slots,
	}
}

// Uniforms is the per-frame parameter bundle of the kernel.
type Uniforms struct {
	Resolution  [2]float64
	Time        float64
	MaxIter     int
	Center      fractal.Point
	Scale       float64
	Seed        fractal.Point
	Mode        fractal.Mode
	ColorMode   fractal.ColorMode
	PaletteSize int
	Palette     [palette.MaxColors]palette.RGB
}

// UniformSize is the size of the Params struct in kernel.wgsl.
const UniformSize = 48 + palette.MaxColors*16

// Bytes packs u in the uniform buffer layout of kernel.wgsl:
//
//	0   resolution vec2<f32>
//	8   center     vec2<f32>
//	16  seed       vec2<f32>
//	24  scale      f32
//	28  time       f32
//	32  max_iter   i32
//	36  mode       i32
//	40  color_mode i32
//	44  palette_size i32
//	48  palette    array<vec4<f32>, 8>
func (u *Uniforms) Bytes() []byte {
	b := make([]byte, UniformSize)
	f32 := func(off int, v float64) {
		binary.LittleEndian.PutUint32(b[off:], math.Float32bits(float32(v)))
	}
	i32 := func(off int, v int) {
		binary.LittleEndian.PutUint32(b[off:], uint32(int32(v)))
	}

	f32(0, u.Resolution[0])
	f32(4, u.Resolution[1])
	f32(8, u.Center.X)
	f32(12, u.Center.Y)
	f32(16, u.Seed.X)
	f32(20, u.Seed.Y)
	f32(24, u.Scale)
	f32(28, u.Time)
	i32(32, u.MaxIter)
	i32(36, int(u.Mode))
	i32(40, int(u.ColorMode))
	i32(44, u.PaletteSize)
	for i, c := range u.Palette {
		off := 48 + i*16
		f32(off, c.R)
		f32(off+4, c.G)
		f32(off+8, c.B)
		f32(off+12, 1)
	}
	return b
}

func (u *Uniforms) colors() palette.Palette {
	return u.Palette[:u.PaletteSize]
}
