// Package render drives the per-frame evaluation of the escape-time kernel:
// it turns the view state into frame requests, shades them in parallel
// tiles and hands finished frames to a presenter.
//
// kernel.wgsl is compiled and validated by BuildKernel but not executed;
// frames are shaded on the CPU by Shade, which follows the kernel line for
// line.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"time"

	fractal "github.com/marben/fractal_explorer"
	"github.com/marben/fractal_explorer/plane"
	"github.com/marben/fractal_explorer/quality"
)

var (
	// ErrNoSurface is returned when a frame is requested before the
	// rendering surface has a size.
	ErrNoSurface = errors.New("render: surface has no size")
	ErrClosed    = errors.New("render: loop closed")
)

// Loop is the per-frame orchestrator. It reads the view state, asks the
// scheduler for the iteration budget, renders the frame and presents it.
//
// A Loop, its view and its scheduler belong to one goroutine: the one
// calling Step (or running Run). Mutations of the view coming from other
// goroutines go through the inbox of Run.
type Loop struct {
	view    *fractal.ViewState
	sched   *quality.Scheduler
	present fractal.Presenter
	disp    Dispatcher
	kernel  *Kernel
	ownKern bool
	log     *slog.Logger

	start         time.Time
	width, height int
	frame         *image.RGBA
	last          FrameRequest
	presented     bool
	closed        bool
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger. Loops log nothing by default.
func WithLogger(l *slog.Logger) Option {
	return func(lp *Loop) {
		if l != nil {
			lp.log = l
		}
	}
}

// WithKernel uses an already built kernel instead of building one.
func WithKernel(k *Kernel) Option {
	return func(lp *Loop) { lp.kernel = k }
}

// WithDispatcher sets how frames are split and rendered.
func WithDispatcher(d Dispatcher) Option {
	return func(lp *Loop) { lp.disp = d }
}

// WithSize sets the initial surface size.
func WithSize(w, h int) Option {
	return func(lp *Loop) { lp.width, lp.height = w, h }
}

// NewLoop creates a loop rendering view into present. Unless a kernel is
// given, the kernel program is built here; if that fails the loop is not
// created and the error carries the compiler diagnostic.
func NewLoop(view *fractal.ViewState, sched *quality.Scheduler, present fractal.Presenter, opts ...Option) (*Loop, error) {
	l := &Loop{
		view:    view,
		sched:   sched,
		present: present,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		start:   time.Now(),
	}
	for _, o := range opts {
		o(l)
	}

	if l.kernel == nil {
		k, err := DefaultKernel()
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		l.kernel = k
		l.ownKern = true
		l.log.Debug("kernel built", "spirv_words", len(k.SPIRV))
	}
	return l, nil
}

// Resize sets the surface size in pixels.
func (l *Loop) Resize(w, h int) {
	if w == l.width && h == l.height {
		return
	}
	l.width, l.height = max(w, 0), max(h, 0)
	l.log.Debug("surface resized", "width", l.width, "height", l.height)
}

// Size returns the surface size in pixels.
func (l *Loop) Size() (w, h int) {
	return l.width, l.height
}

// Viewport returns the surface size for coordinate mapping.
func (l *Loop) Viewport() plane.Viewport {
	return plane.Size(l.width, l.height)
}

// Request snapshots the view into the request for a frame at now.
func (l *Loop) Request(now time.Time) FrameRequest {
	v := *l.view
	return NewFrameRequest(v, l.width, l.height, l.sched.Budget(v.MaxIter, now))
}

// Step runs one refresh: it renders and presents a frame unless the
// request equals the last presented one. It reports whether a frame was
// presented. The presenter must be done with the image when it returns;
// the buffer is reused by the next frame.
func (l *Loop) Step(ctx context.Context, now time.Time) (bool, error) {
	if l.closed {
		return false, ErrClosed
	}
	if l.width == 0 || l.height == 0 {
		return false, nil
	}

	req := l.Request(now)
	if l.presented && req == l.last {
		return false, nil
	}

	bounds := image.Rect(0, 0, req.Width, req.Height)
	if l.frame == nil || l.frame.Rect != bounds {
		l.frame = image.NewRGBA(bounds)
	}

	start := time.Now()
	u := req.Uniforms(now.Sub(l.start))
	if err := l.disp.Render(ctx, &u, l.frame); err != nil {
		return false, fmt.Errorf("render: frame: %w", err)
	}
	if err := l.present.Present(l.frame); err != nil {
		return false, fmt.Errorf("render: present: %w", err)
	}
	l.last = req
	l.presented = true

	l.log.Debug("frame",
		"size", bounds.Size(),
		"budget", req.Budget,
		"state", l.sched.State(),
		"took", time.Since(start))
	return true, nil
}

// Run is the control loop of a rendering surface. It applies every
// function received on inbox and steps once per value received on refresh,
// all on the calling goroutine. Run returns when ctx is done, when inbox is
// closed, or on the first failing frame. The loop is closed on return.
func (l *Loop) Run(ctx context.Context, refresh <-chan time.Time, inbox <-chan func()) error {
	defer l.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn, ok := <-inbox:
			if !ok {
				return nil
			}
			fn()
		case now := <-refresh:
			if _, err := l.Step(ctx, now); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

// Export renders a still of the current view width pixels wide. It frames
// the same plane region as the surface, uses the full iteration limit and
// leaves the scheduler alone.
func (l *Loop) Export(ctx context.Context, width int) (*image.RGBA, error) {
	if l.closed {
		return nil, ErrClosed
	}
	if l.width == 0 || l.height == 0 {
		return nil, ErrNoSurface
	}
	v, w, h, err := Rescale(*l.view, l.width, l.height, width)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	img, err := l.disp.Still(ctx, v, w, h, 1)
	if err != nil {
		return nil, err
	}
	l.log.Info("exported still", "width", w, "height", h, "iterations", v.MaxIter, "took", time.Since(start))
	return img, nil
}

var _ fractal.Exporter = (*Loop)(nil)

// Close stops the loop and releases the frame buffer and the kernel, unless
// the kernel was handed in with WithKernel. It is safe to call more than
// once.
func (l *Loop) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	if l.ownKern {
		l.kernel.Release()
	}
	l.kernel = nil
	l.frame = nil
	return nil
}
