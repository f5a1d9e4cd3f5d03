//go:build js && wasm

// webclient is the browser front end of the explorer. The server renders;
// the client forwards pointer, wheel and touch input over a websocket and
// draws the frames it gets back.
package main

import (
	"fmt"
	"log"
	"maps"
	"math"
	"net/url"
	"slices"
	"strconv"
	"syscall/js"
	"time"

	fractal "github.com/marben/fractal_explorer"
	"github.com/marben/fractal_explorer/plane"
	"github.com/marben/fractal_explorer/wire"
)

// tapSlop is how far a press may travel and still count as a tap.
const tapSlop = 4

func main() {
	logScreenf("Starting WASM web client...")

	doc := js.Global().Get("document")
	canvas := doc.Call("getElementById", "canvas")
	w, h := canvasSize(canvas)

	// Step 1: connect, restoring the view from our own URL
	loc := js.Global().Get("window").Get("location")
	proto := "ws"
	if loc.Get("protocol").String() == "https:" {
		proto = "wss"
	}
	q, _ := url.ParseQuery(trimQuery(loc.Get("search").String()))
	q.Set("cw", strconv.Itoa(w))
	q.Set("ch", strconv.Itoa(h))
	wsURL := proto + "://" + loc.Get("host").String() + "/ws?" + q.Encode()
	logScreenf("Connecting to %s...", wsURL)
	conn := newWSConn(js.Global().Get("WebSocket").New(wsURL))

	c := &client{conn: conn, canvas: canvas, w: w, h: h, out: make(chan []byte, 64)}
	go c.sendLoop()
	c.send(wire.Event{Type: wire.EventResize, Width: w, Height: h})

	// Step 2: forward input
	c.listen()

	// Step 3: draw what comes back
	if err := c.readLoop(); err != nil {
		logFatalf("readLoop: %v", err)
	}
	logScreenf("Disconnected. Reload the page to reconnect.")
	select {}
}

type client struct {
	conn   *wsConn
	canvas js.Value
	w, h   int

	pointers map[int]fractal.Point // active pointers by id
	down     bool
	moved    bool
	start    fractal.Point
	last     fractal.Point
	pinch    float64
	second   bool

	out   chan []byte
	funcs []js.Func
}

func (c *client) send(ev wire.Event) {
	b, err := ev.Marshal()
	if err != nil {
		logScreenf("marshal %s: %v", ev.Type, err)
		return
	}
	select {
	case c.out <- b:
	default:
		logScreenf("dropping %s event, connection is too slow", ev.Type)
	}
}

// sendLoop sends queued events in order. js callbacks must not block on
// the connection opening, so they only queue.
func (c *client) sendLoop() {
	for b := range c.out {
		if err := c.conn.Send(b); err != nil {
			logScreenf("send: %v", err)
			return
		}
	}
}

func (c *client) readLoop() error {
	info := js.Global().Get("document").Call("getElementById", "info")
	minimap := js.Global().Get("document").Call("getElementById", "minimap")
	for m := range c.conn.Messages() {
		if m.text {
			st, err := wire.ParseStatus(m.data)
			if err != nil {
				logScreenf("status: %v", err)
				continue
			}
			if st.Error != "" {
				logScreenf("server: %s", st.Error)
			}
			info.Set("textContent", st.Info)
			js.Global().Get("history").Call("replaceState", nil, "", "?"+st.State)
			minimap.Set("src", fmt.Sprintf("/overview.png?%s&cw=%d&ch=%d", st.State, c.w, c.h))
			continue
		}

		kind, err := wire.KindOf(m.data)
		if err != nil {
			return err
		}
		switch kind {
		case wire.KindFrame:
			img, _, err := wire.DecodeFrame(m.data)
			if err != nil {
				return err
			}
			displayFrame(c.canvas, img)
		case wire.KindExport:
			b, err := wire.ExportPNG(m.data)
			if err != nil {
				return err
			}
			download(b, "image/png", fmt.Sprintf("fractal-%s.png", time.Now().Format("20060102-150405")))
			logScreenf("Export saved (%d kB)", len(b)/1024)
		}
	}
	return nil
}

func (c *client) on(target js.Value, event string, fn func(e js.Value)) {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		fn(args[0])
		return nil
	})
	c.funcs = append(c.funcs, f)
	target.Call("addEventListener", event, f, map[string]any{"passive": false})
}

func (c *client) listen() {
	doc := js.Global().Get("document")
	win := js.Global().Get("window")
	c.pointers = make(map[int]fractal.Point)

	c.on(c.canvas, "wheel", func(e js.Value) {
		e.Call("preventDefault")
		c.send(wire.Event{Type: wire.EventWheel, DY: e.Get("deltaY").Float()})
	})
	c.on(c.canvas, "contextmenu", func(e js.Value) { e.Call("preventDefault") })
	c.on(c.canvas, "pointerdown", func(e js.Value) {
		c.canvas.Call("setPointerCapture", e.Get("pointerId"))
		p := offset(e)
		c.pointers[e.Get("pointerId").Int()] = p
		if len(c.pointers) == 1 {
			c.down, c.moved, c.start, c.last = true, false, p, p
			c.second = e.Get("button").Int() == 2 || e.Get("shiftKey").Bool()
		} else {
			c.moved = true
			c.pinch = 0
		}
	})
	c.on(c.canvas, "pointermove", func(e js.Value) {
		id := e.Get("pointerId").Int()
		if _, ok := c.pointers[id]; !ok {
			return
		}
		p := offset(e)
		c.pointers[id] = p
		if len(c.pointers) >= 2 {
			d := c.pinchDistance()
			if c.pinch > 0 && d > 0 {
				c.send(wire.Event{Type: wire.EventPinch, Ratio: d / c.pinch})
			}
			c.pinch = d
			return
		}
		if !c.moved && math.Hypot(p.X-c.start.X, p.Y-c.start.Y) > tapSlop {
			c.moved = true
			c.last = c.start
		}
		if c.moved {
			c.send(wire.Event{Type: wire.EventPan, DX: p.X - c.last.X, DY: p.Y - c.last.Y})
		}
		c.last = p
	})
	up := func(e js.Value) {
		id := e.Get("pointerId").Int()
		if _, ok := c.pointers[id]; !ok {
			return
		}
		delete(c.pointers, id)
		if len(c.pointers) > 0 {
			for _, p := range c.pointers {
				c.last = p
			}
			c.pinch = 0
			return
		}
		if c.down && !c.moved {
			c.send(wire.Event{Type: wire.EventTap, X: c.start.X, Y: c.start.Y, Secondary: c.second})
		}
		c.down = false
	}
	c.on(c.canvas, "pointerup", up)
	c.on(c.canvas, "pointercancel", up)

	c.on(win, "resize", func(js.Value) {
		c.w, c.h = canvasSize(c.canvas)
		c.send(wire.Event{Type: wire.EventResize, Width: c.w, Height: c.h})
	})

	minimap := doc.Call("getElementById", "minimap")
	c.on(minimap, "click", func(e js.Value) {
		p := plane.FrameToPlane(e.Get("offsetX").Float(), e.Get("offsetY").Float(),
			minimap.Get("clientWidth").Float(), minimap.Get("clientHeight").Float(), fractal.Home)
		c.send(wire.Event{Type: wire.EventJump, X: p.X, Y: p.Y})
	})

	// control widgets: <button data-set="action=reset">, <select data-key="palette">
	buttons := doc.Call("querySelectorAll", "[data-set]")
	for i := 0; i < buttons.Length(); i++ {
		b := buttons.Index(i)
		c.on(b, "click", func(js.Value) {
			c.send(wire.Event{Type: wire.EventSet, Query: b.Get("dataset").Get("set").String()})
		})
	}
	inputs := doc.Call("querySelectorAll", "[data-key]")
	for i := 0; i < inputs.Length(); i++ {
		in := inputs.Index(i)
		c.on(in, "change", func(js.Value) {
			q := url.Values{in.Get("dataset").Get("key").String(): {in.Get("value").String()}}
			c.send(wire.Event{Type: wire.EventSet, Query: q.Encode()})
		})
	}

	c.on(doc.Call("getElementById", "export"), "click", func(js.Value) {
		width, _ := strconv.Atoi(doc.Call("getElementById", "exportWidth").Get("value").String())
		logScreenf("Exporting %d px wide...", width)
		c.send(wire.Event{Type: wire.EventExport, Width: width})
	})
}

// pinchDistance is the distance between the two pointers with the lowest ids.
func (c *client) pinchDistance() float64 {
	ids := slices.Sorted(maps.Keys(c.pointers))
	a, b := c.pointers[ids[0]], c.pointers[ids[1]]
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// offset returns the event position in canvas pixels.
func offset(e js.Value) fractal.Point {
	return fractal.Point{X: e.Get("offsetX").Float(), Y: e.Get("offsetY").Float()}
}

func canvasSize(canvas js.Value) (int, int) {
	return canvas.Get("clientWidth").Int(), canvas.Get("clientHeight").Int()
}

func trimQuery(s string) string {
	if len(s) > 0 && s[0] == '?' {
		return s[1:]
	}
	return s
}

// logScreenf appends a formatted message to the log element in the DOM.
func logScreenf(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)

	doc := js.Global().Get("document")
	logElem := doc.Call("getElementById", "log")
	logElem.Set("textContent", logElem.Get("textContent").String()+msg+"\n")
}

// logFatalf logs a fatal error to the log window and terminates the program.
func logFatalf(format string, a ...any) {
	logScreenf("FATAL: "+format, a...)
	log.Fatalf(format, a...)
}
