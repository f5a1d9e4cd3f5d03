package render

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fractal "github.com/marben/fractal_explorer"
	"github.com/marben/fractal_explorer/escape"
	"github.com/marben/fractal_explorer/palette"
)

func TestDefaultKernel(t *testing.T) {
	k, err := DefaultKernel()
	if err != nil && (strings.Contains(err.Error(), "not yet implemented") || strings.Contains(err.Error(), "not supported")) {
		t.Skipf("shader compiler limitation: %v", err)
	}
	require.NoError(t, err)
	require.NotEmpty(t, k.SPIRV)
	assert.Equal(t, uint32(0x07230203), k.SPIRV[0], "SPIR-V magic")
	assert.Contains(t, k.Source, "fn fs_main")

	k.Release()
	assert.Nil(t, k.SPIRV)
}

func TestBuildKernelError(t *testing.T) {
	_, err := BuildKernel("fn broken( {")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kernel build")
}

// paramsLayout reads the field offsets of the Params struct in kernel.wgsl
// using uniform buffer alignment rules.
func paramsLayout(t *testing.T, src string) (offsets map[string]int, size int) {
	t.Helper()
	sizes := map[string][2]int{ // size, alignment
		"f32":       {4, 4},
		"i32":       {4, 4},
		"vec2<f32>": {8, 8},
		fmt.Sprintf("array<vec4<f32>, %d>", palette.MaxColors): {16 * palette.MaxColors, 16},
	}
	start := strings.Index(src, "struct Params {")
	require.NotEqual(t, -1, start)
	body := src[start+len("struct Params {"):]
	body = body[:strings.Index(body, "\n}")]

	offsets = map[string]int{}
	maxAlign := 1
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSuffix(strings.TrimSpace(line), ",")
		if line == "" {
			continue
		}
		name, typ, ok := strings.Cut(line, ": ")
		require.True(t, ok, line)
		sa, ok := sizes[typ]
		require.True(t, ok, "unexpected field type %q", typ)
		size = (size + sa[1] - 1) / sa[1] * sa[1]
		offsets[name] = size
		size += sa[0]
		maxAlign = max(maxAlign, sa[1])
	}
	size = (size + maxAlign - 1) / maxAlign * maxAlign
	return offsets, size
}

func TestKernelParamsMatchUniforms(t *testing.T) {
	offsets, size := paramsLayout(t, kernelWGSL)
	assert.Equal(t, UniformSize, size)

	u := Uniforms{
		Resolution:  [2]float64{640, 480},
		Time:        1.5,
		MaxIter:     321,
		Center:      fractal.Point{X: -0.25, Y: 0.5},
		Scale:       77,
		Seed:        fractal.Point{X: 0.125, Y: -0.75},
		Mode:        fractal.ModeJulia,
		ColorMode:   fractal.ColorOrbit,
		PaletteSize: 3,
	}
	u.Palette[0] = palette.RGB{R: 0.5, G: 0.25, B: 1}
	b := u.Bytes()
	f32 := func(name string) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(b[offsets[name]:]))
	}
	i32 := func(name string) int32 {
		return int32(binary.LittleEndian.Uint32(b[offsets[name]:]))
	}
	assert.Equal(t, float32(640), f32("resolution"))
	assert.Equal(t, float32(-0.25), f32("center"))
	assert.Equal(t, float32(0.125), f32("seed"))
	assert.Equal(t, float32(77), f32("scale"))
	assert.Equal(t, float32(1.5), f32("time"))
	assert.Equal(t, int32(321), i32("max_iter"))
	assert.Equal(t, int32(fractal.ModeJulia), i32("mode"))
	assert.Equal(t, int32(fractal.ColorOrbit), i32("color_mode"))
	assert.Equal(t, int32(3), i32("palette_size"))
	assert.Equal(t, float32(0.5), f32("palette"))
}

func TestKernelConstantsMatchShade(t *testing.T) {
	assert.Contains(t, kernelWGSL, fmt.Sprintf("mag2 > %.1f", float64(escape.Radius*escape.Radius)))
	assert.Contains(t, kernelWGSL, fmt.Sprintf("params.mode == %d", int(fractal.ModeMandelbrot)))
	assert.Contains(t, kernelWGSL, fmt.Sprintf("params.color_mode == %d", int(fractal.ColorEscape)))
	assert.Contains(t, kernelWGSL, fmt.Sprintf("params.color_mode == %d", int(fractal.ColorOrbit)))
	assert.Contains(t, kernelWGSL, fmt.Sprintf("sqrt(min_mag2) / %.1f", float64(escape.Radius)))
}
