package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/lucasb-eyer/go-colorful"

	fractal "github.com/marben/fractal_explorer"
	"github.com/marben/fractal_explorer/config"
	"github.com/marben/fractal_explorer/gesture"
	"github.com/marben/fractal_explorer/overview"
	"github.com/marben/fractal_explorer/palette"
	"github.com/marben/fractal_explorer/plane"
	"github.com/marben/fractal_explorer/quality"
	"github.com/marben/fractal_explorer/render"
)

const (
	minimapW, minimapH = 220, 120
	margin             = 10
	iterStep           = 100
)

var landmarkKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
}

// themeBackdrop is the color behind the info panel and minimap per theme.
var themeBackdrop = map[string]string{
	"dark":     "#0b132b",
	"amoled":   "#000000",
	"light":    "#5c677d",
	"gradient": "#1c2541",
}

// Game is the desktop explorer. ebiten calls Update, Draw and Layout on one
// goroutine, which owns the view, the scheduler and the loop.
type Game struct {
	ctx       context.Context
	log       *slog.Logger
	exportDir string
	exportW   int

	view  fractal.ViewState
	sched quality.Scheduler
	loop  *render.Loop
	ctrl  *gesture.Controller

	input    tracker
	touchIDs []ebiten.TouchID
	fps      overview.FPSMeter

	canvas     *ebiten.Image
	minimap    *ebiten.Image
	minimapKey minimapKey
	info       string
}

type minimapKey struct {
	center fractal.Point
	scale  float64
	vp     plane.Viewport
}

func newGame(ctx context.Context, cfg config.Config, view fractal.ViewState, exportDir string, log *slog.Logger, opts ...render.Option) (*Game, error) {
	g := &Game{
		ctx:       ctx,
		log:       log,
		exportDir: exportDir,
		exportW:   cfg.ExportWidth,
		view:      view,
	}
	opts = append([]render.Option{
		render.WithDispatcher(render.Dispatcher{Workers: cfg.Workers, TileSize: cfg.TileSize}),
		render.WithLogger(log),
	}, opts...)
	loop, err := render.NewLoop(&g.view, &g.sched, fractal.PresenterFunc(g.present), opts...)
	if err != nil {
		return nil, err
	}
	g.loop = loop
	g.ctrl = gesture.NewController(&g.view, &g.sched, loop.Viewport)
	g.ctrl.Sensitivity = cfg.ZoomSensitivity
	return g, nil
}

// Update applies input and renders a frame if the view changed.
func (g *Game) Update() error {
	var in inputFrame
	in, g.touchIDs = readInput(g.touchIDs)
	g.input.feed(in, viewerGestures{g})

	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if err := g.key(k); err != nil {
			g.log.Error("key", "key", k, "err", err)
		}
	}

	if _, err := g.loop.Step(g.ctx, time.Now()); err != nil {
		return err
	}
	g.info = overview.Describe(g.view, g.fps.FPS(), g.sched.Current(g.view.MaxIter))
	return nil
}

func (g *Game) present(img *image.RGBA) error {
	b := img.Bounds()
	if g.canvas == nil || g.canvas.Bounds() != b {
		if g.canvas != nil {
			g.canvas.Deallocate()
		}
		g.canvas = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.canvas.WritePixels(img.Pix)
	g.fps.Tick(time.Now())
	return nil
}

// key performs the action bound to k.
func (g *Game) key(k ebiten.Key) error {
	switch k {
	case ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6:
		for i, lk := range landmarkKeys {
			if lk == k && i < len(fractal.Landmarks) {
				g.ctrl.Apply(url.Values{gesture.KeyLandmark: {fractal.Landmarks[i].Name}})
			}
		}
	case ebiten.KeyM:
		g.ctrl.Apply(url.Values{gesture.KeyAction: {gesture.ActionToggle}})
	case ebiten.KeyR:
		g.ctrl.Apply(url.Values{gesture.KeyAction: {gesture.ActionReset}})
	case ebiten.KeyC:
		next := (g.view.ColorMode + 1) % (fractal.ColorOrbit + 1)
		g.ctrl.Apply(url.Values{"interp": {next.String()}})
	case ebiten.KeyP:
		g.ctrl.Apply(url.Values{"palette": {palette.Next(g.view.Palette)}})
	case ebiten.KeyT:
		g.ctrl.Apply(url.Values{"theme": {nextTheme(g.view.Theme)}})
	case ebiten.KeyEqual, ebiten.KeyNumpadAdd:
		g.ctrl.Apply(url.Values{"iter": {strconv.Itoa(g.view.MaxIter + iterStep)}})
	case ebiten.KeyMinus, ebiten.KeyNumpadSubtract:
		g.ctrl.Apply(url.Values{"iter": {strconv.Itoa(max(g.view.MaxIter-iterStep, iterStep))}})
	case ebiten.KeyS:
		g.log.Info("state", "query", g.view.Values().Encode())
	case ebiten.KeyE:
		return g.export()
	}
	return nil
}

func nextTheme(t string) string {
	for i, k := range fractal.Themes {
		if k == t {
			return fractal.Themes[(i+1)%len(fractal.Themes)]
		}
	}
	return fractal.Themes[0]
}

func (g *Game) export() error {
	img, err := g.loop.Export(g.ctx, g.exportW)
	if err != nil {
		return err
	}
	name := filepath.Join(g.exportDir, fmt.Sprintf("fractal-%s.png", time.Now().Format("20060102-150405")))
	if err := savePNG(name, img); err != nil {
		return err
	}
	g.log.Info("exported", "file", name)
	return nil
}

// minimapRect is where the minimap sits on a w wide screen.
func minimapRect(w int) image.Rectangle {
	return image.Rect(w-margin-minimapW, margin, w-margin, margin+minimapH)
}

// viewerGestures sends taps on the minimap to Jump and everything else to
// the controller.
type viewerGestures struct {
	g *Game
}

func (v viewerGestures) Wheel(dy float64)    { v.g.ctrl.Wheel(dy) }
func (v viewerGestures) Pan(dx, dy float64)  { v.g.ctrl.Pan(dx, dy) }
func (v viewerGestures) Pinch(ratio float64) { v.g.ctrl.Pinch(ratio) }

func (v viewerGestures) Tap(x, y float64, secondary bool) {
	w, _ := v.g.loop.Size()
	r := minimapRect(w)
	if image.Pt(int(x), int(y)).In(r) {
		v.g.ctrl.Jump(overview.JumpTarget(x-float64(r.Min.X), y-float64(r.Min.Y), minimapW, minimapH))
		return
	}
	v.g.ctrl.Tap(x, y, secondary)
}

// Draw shows the last frame with the minimap and the info panel on top.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.canvas != nil {
		screen.DrawImage(g.canvas, nil)
	}
	w, _ := g.loop.Size()
	backdrop := backdropColor(g.view.Theme)

	if mm := g.minimapImage(); mm != nil {
		r := minimapRect(w)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
		screen.DrawImage(mm, op)
	}

	panel := image.Rect(margin, margin, margin+260, margin+16*9)
	screen.SubImage(panel).(*ebiten.Image).Fill(backdrop)
	ebitenutil.DebugPrintAt(screen, g.info, panel.Min.X+6, panel.Min.Y+4)
}

func (g *Game) minimapImage() *ebiten.Image {
	key := minimapKey{center: g.view.Center, scale: g.view.Scale, vp: g.loop.Viewport()}
	if g.minimap != nil && key == g.minimapKey {
		return g.minimap
	}
	img, err := overview.Minimap(g.view, key.vp, minimapW, minimapH)
	if err != nil {
		g.log.Debug("minimap", "err", err)
		return g.minimap
	}
	if g.minimap == nil {
		g.minimap = ebiten.NewImage(minimapW, minimapH)
	}
	g.minimap.WritePixels(img.Pix)
	g.minimapKey = key
	return g.minimap
}

func backdropColor(theme string) color.Color {
	c, err := colorful.Hex(themeBackdrop[theme])
	if err != nil {
		c, _ = colorful.Hex(themeBackdrop["dark"])
	}
	r, gr, b := c.RGB255()
	return color.NRGBA{R: r, G: gr, B: b, A: 0xc0}
}

// Layout follows the window size one to one.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.loop.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func (g *Game) Close() error {
	return g.loop.Close()
}
