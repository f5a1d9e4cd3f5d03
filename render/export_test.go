package render

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fractal "github.com/marben/fractal_explorer"
	"github.com/marben/fractal_explorer/quality"
)

func TestRescale(t *testing.T) {
	v := fractal.DefaultView()
	got, w, h, err := Rescale(v, 960, 540, 3840)
	require.NoError(t, err)
	assert.Equal(t, 3840, w)
	assert.Equal(t, 2160, h)
	assert.Equal(t, v.Scale*4, got.Scale)
	assert.Equal(t, v.Center, got.Center)

	_, w, _, err = Rescale(v, 960, 540, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultExportWidth, w)

	_, _, _, err = Rescale(v, 0, 540, 3840)
	assert.ErrorIs(t, err, ErrNoSurface)

	_, _, _, err = Rescale(v, 100, 100, MaxExportSide+1)
	assert.Error(t, err)
}

func TestExportWhileInteracting(t *testing.T) {
	view := fractal.DefaultView()
	view.MaxIter = 800
	var sched quality.Scheduler
	rec := &recorder{}
	l := newTestLoop(t, &view, &sched, rec, &frames{}, WithSize(960, 4))

	now := time.Now()
	sched.Poke(now)
	img, err := l.Export(context.Background(), 3840)
	require.NoError(t, err)
	assert.Equal(t, 3840, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())

	require.NotEmpty(t, rec.budgets)
	for i := range rec.budgets {
		assert.Equal(t, 800, rec.budgets[i])
		assert.Equal(t, 350.0*4, rec.scales[i])
	}
	assert.Equal(t, quality.Interacting, sched.State())
	assert.Equal(t, now, sched.LastInteraction())
	assert.Equal(t, 350.0, view.Scale)
}

func TestExportNoSurface(t *testing.T) {
	view := fractal.DefaultView()
	var sched quality.Scheduler
	l := newTestLoop(t, &view, &sched, &recorder{}, &frames{})
	_, err := l.Export(context.Background(), 3840)
	assert.ErrorIs(t, err, ErrNoSurface)
}

func TestStillSupersample(t *testing.T) {
	v := fractal.DefaultView()
	v.MaxIter = 1
	v.Palette = "Grayscale"

	d := Dispatcher{Workers: 2}
	img, err := d.Still(context.Background(), v, 20, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())

	plain, err := d.Still(context.Background(), v, 20, 10, 1)
	require.NoError(t, err)

	// a single iteration leaves the image nearly flat, so the filtered
	// still stays close to the plain one
	for y := 2; y < 8; y++ {
		for x := 2; x < 18; x++ {
			a, b := img.RGBAAt(x, y), plain.RGBAAt(x, y)
			assert.InDelta(t, float64(b.R), float64(a.R), 64, "pixel %d,%d", x, y)
			assert.Equal(t, uint8(255), a.A)
		}
	}

	_, err = d.Still(context.Background(), v, MaxExportSide, 1, 2)
	assert.Error(t, err)
	_, err = d.Still(context.Background(), v, 0, 10, 1)
	assert.ErrorIs(t, err, ErrNoSurface)
}

func TestStillSupersampleBounds(t *testing.T) {
	d := Dispatcher{Workers: 1}
	v := fractal.DefaultView()

	_, err := d.Still(context.Background(), v, 20, 10, MaxSupersample+1)
	assert.ErrorContains(t, err, "supersampling")

	// w*supersample would wrap around int.
	_, err = d.Still(context.Background(), v, 2, 2, math.MaxInt/2+1)
	assert.Error(t, err)
}

func TestRescaleHugeCanvasRatio(t *testing.T) {
	_, _, _, err := Rescale(fractal.DefaultView(), 1, math.MaxInt32, 3840)
	assert.Error(t, err)
}

