package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/url"
	"time"

	"github.com/coder/websocket"

	fractal "github.com/marben/fractal_explorer"
	"github.com/marben/fractal_explorer/gesture"
	"github.com/marben/fractal_explorer/overview"
	"github.com/marben/fractal_explorer/quality"
	"github.com/marben/fractal_explorer/render"
	"github.com/marben/fractal_explorer/wire"
)

// session is one browser tab: a view, its render loop and the websocket
// the frames go out on. Everything but the reader goroutine runs on the
// goroutine of run.
type session struct {
	conn conn
	log  *slog.Logger
	hz   int

	view  fractal.ViewState
	sched quality.Scheduler
	loop  *render.Loop
	ctrl  *gesture.Controller
	fps   overview.FPSMeter

	ctx context.Context
	buf []byte
}

// conn is the part of *websocket.Conn a session uses.
type conn interface {
	Read(ctx context.Context) (websocket.MessageType, []byte, error)
	Write(ctx context.Context, typ websocket.MessageType, p []byte) error
}

func newSession(e *explorer, c conn, q url.Values, log *slog.Logger) (*session, error) {
	s := &session{
		conn: c,
		log:  log,
		hz:   e.cfg.RefreshHz,
		view: e.viewOf(q),
		ctx:  context.Background(),
	}
	loop, err := render.NewLoop(&s.view, &s.sched, fractal.PresenterFunc(s.present),
		render.WithKernel(e.kernel),
		render.WithDispatcher(e.dispatcher()),
		render.WithLogger(log),
		render.WithSize(clampSide(intParam(q, "cw", 0)), clampSide(intParam(q, "ch", 0))),
	)
	if err != nil {
		return nil, err
	}
	s.loop = loop
	s.ctrl = gesture.NewController(&s.view, &s.sched, loop.Viewport)
	s.ctrl.Sensitivity = e.cfg.ZoomSensitivity
	return s, nil
}

// run serves the session until the client leaves or ctx is done. Client
// events are read on a separate goroutine and handed to the loop.
func (s *session) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.ctx = ctx

	inbox := make(chan func())
	readErr := make(chan error, 1)
	go func() {
		defer close(inbox)
		readErr <- s.read(ctx, inbox)
	}()

	ticker := time.NewTicker(time.Second / time.Duration(s.hz))
	defer ticker.Stop()

	err := s.loop.Run(ctx, ticker.C, inbox)
	cancel()
	rerr := <-readErr
	if err != nil {
		return err
	}
	if errors.Is(rerr, context.Canceled) {
		return nil
	}
	return rerr
}

func (s *session) read(ctx context.Context, inbox chan<- func()) error {
	for {
		typ, data, err := s.conn.Read(ctx)
		if err != nil {
			return err
		}
		if typ != websocket.MessageText {
			continue
		}
		ev, err := wire.ParseEvent(data)
		if err != nil {
			s.log.Debug("dropping event", "err", err)
			continue
		}
		select {
		case inbox <- func() { s.apply(ev) }:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// apply runs on the loop goroutine.
func (s *session) apply(ev wire.Event) {
	switch ev.Type {
	case wire.EventResize:
		s.loop.Resize(clampSide(ev.Width), clampSide(ev.Height))
	case wire.EventWheel:
		s.ctrl.Wheel(ev.DY)
	case wire.EventPan:
		s.ctrl.Pan(ev.DX, ev.DY)
	case wire.EventPinch:
		s.ctrl.Pinch(ev.Ratio)
	case wire.EventTap:
		s.ctrl.Tap(ev.X, ev.Y, ev.Secondary)
	case wire.EventJump:
		s.ctrl.Jump(fractal.Point{X: ev.X, Y: ev.Y})
	case wire.EventSet:
		q, err := url.ParseQuery(ev.Query)
		if err != nil {
			s.status(s.budget(), fmt.Sprintf("bad query: %v", err))
			return
		}
		s.ctrl.Apply(q)
	case wire.EventExport:
		if err := s.export(ev.Width); err != nil {
			s.log.Warn("export", "err", err)
			s.status(s.budget(), err.Error())
		}
	}
}

func (s *session) export(width int) error {
	img, err := s.loop.Export(s.ctx, width)
	if err != nil {
		return err
	}
	msg, err := wire.EncodeExport(img)
	if err != nil {
		return err
	}
	return s.conn.Write(s.ctx, websocket.MessageBinary, msg)
}

// present sends a finished frame followed by a status message.
func (s *session) present(img *image.RGBA) error {
	budget := s.budget()
	s.buf = wire.AppendFrame(s.buf[:0], img, budget)
	if err := s.conn.Write(s.ctx, websocket.MessageBinary, s.buf); err != nil {
		return err
	}
	s.fps.Tick(time.Now())
	return s.status(budget, "")
}

func (s *session) status(budget int, errMsg string) error {
	msg, err := wire.Status{
		State:  s.view.Values().Encode(),
		Info:   overview.Describe(s.view, s.fps.FPS(), budget),
		Budget: budget,
		FPS:    s.fps.FPS(),
		Error:  errMsg,
	}.Marshal()
	if err != nil {
		return err
	}
	return s.conn.Write(s.ctx, websocket.MessageText, msg)
}

// budget is the iteration budget of the frame being presented.
func (s *session) budget() int {
	return s.sched.Current(s.view.MaxIter)
}

func clampSide(n int) int {
	return min(max(n, 0), maxSurfaceSide)
}
