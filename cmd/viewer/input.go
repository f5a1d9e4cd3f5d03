package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	// tapSlop is how far a press may travel and still count as a tap.
	tapSlop = 4
	// wheelScale turns an ebiten wheel notch into browser wheel units.
	wheelScale = 100
)

type pointer struct {
	X, Y float64
}

func (p pointer) dist(q pointer) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// inputFrame is the pointer input of one tick.
type inputFrame struct {
	Cursor    pointer
	Primary   bool // left button held
	Secondary bool // right button held
	Shift     bool
	WheelY    float64 // ebiten convention: positive scrolls up
	Touches   []pointer
}

// gestures receives what the tracker recognizes.
type gestures interface {
	Wheel(dy float64)
	Pan(dx, dy float64)
	Pinch(ratio float64)
	Tap(x, y float64, secondary bool)
}

// tracker turns per-tick pointer state into gestures: wheel zoom, drag
// pan, two finger pinch and taps (presses released without moving).
type tracker struct {
	down      bool
	secondary bool
	moved     bool
	start     pointer
	last      pointer
	relast    bool // take the next position as last without panning
	pinchDist float64
}

func (t *tracker) feed(in inputFrame, g gestures) {
	if in.WheelY != 0 {
		g.Wheel(-in.WheelY * wheelScale)
	}

	if len(in.Touches) >= 2 {
		d := in.Touches[0].dist(in.Touches[1])
		if t.pinchDist > 0 && d > 0 {
			g.Pinch(d / t.pinchDist)
		}
		t.pinchDist = d
		// the remaining finger keeps dragging but never taps
		t.down, t.moved, t.relast = true, true, true
		return
	}
	t.pinchDist = 0

	p, pressed, secondary := in.Cursor, in.Primary || in.Secondary, in.Secondary || in.Shift
	if len(in.Touches) == 1 {
		p, pressed, secondary = in.Touches[0], true, false
	}

	switch {
	case pressed && !t.down:
		*t = tracker{down: true, secondary: secondary, start: p, last: p}
	case pressed && t.relast:
		t.last, t.relast = p, false
	case pressed && !t.moved:
		if p.dist(t.start) > tapSlop {
			t.moved = true
			g.Pan(p.X-t.start.X, p.Y-t.start.Y)
		}
		t.last = p
	case pressed:
		if p != t.last {
			g.Pan(p.X-t.last.X, p.Y-t.last.Y)
		}
		t.last = p
	case t.down:
		if !t.moved {
			g.Tap(t.start.X, t.start.Y, t.secondary)
		}
		t.down = false
	}
}

// readInput samples ebiten's input state.
func readInput(touchIDs []ebiten.TouchID) (inputFrame, []ebiten.TouchID) {
	cx, cy := ebiten.CursorPosition()
	_, wy := ebiten.Wheel()
	in := inputFrame{
		Cursor:    pointer{float64(cx), float64(cy)},
		Primary:   ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Secondary: ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		Shift:     ebiten.IsKeyPressed(ebiten.KeyShift),
		WheelY:    wy,
	}
	touchIDs = ebiten.AppendTouchIDs(touchIDs[:0])
	for _, id := range touchIDs {
		x, y := ebiten.TouchPosition(id)
		in.Touches = append(in.Touches, pointer{float64(x), float64(y)})
	}
	return in, touchIDs
}
