package main

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marben/fractal_explorer/config"
	"github.com/marben/fractal_explorer/render"
	"github.com/marben/fractal_explorer/wire"
)

type message struct {
	typ  websocket.MessageType
	data []byte
}

// fakeConn feeds text messages from in and records writes on out. Closing
// in acts like the client closing the socket.
type fakeConn struct {
	in  chan []byte
	out chan message
}

func newFakeConn() *fakeConn {
	return &fakeConn{in: make(chan []byte), out: make(chan message, 256)}
}

func (c *fakeConn) Read(ctx context.Context) (websocket.MessageType, []byte, error) {
	select {
	case b, ok := <-c.in:
		if !ok {
			return 0, nil, websocket.CloseError{Code: websocket.StatusNormalClosure}
		}
		return websocket.MessageText, b, nil
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	}
}

func (c *fakeConn) Write(ctx context.Context, typ websocket.MessageType, p []byte) error {
	select {
	case c.out <- message{typ, append([]byte(nil), p...)}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *fakeConn) send(t *testing.T, ev wire.Event) {
	t.Helper()
	b, err := ev.Marshal()
	require.NoError(t, err)
	select {
	case c.in <- b:
	case <-time.After(5 * time.Second):
		t.Fatalf("session did not read %s", ev.Type)
	}
}

// next returns the next binary message of kind k, skipping anything else.
func (c *fakeConn) next(t *testing.T, k wire.Kind) []byte {
	t.Helper()
	timeout := time.After(10 * time.Second)
	for {
		select {
		case m := <-c.out:
			if m.typ != websocket.MessageBinary {
				continue
			}
			if got, _ := wire.KindOf(m.data); got == k {
				return m.data
			}
		case <-timeout:
			t.Fatalf("no message of kind %d", k)
		}
	}
}

func (c *fakeConn) nextStatus(t *testing.T) wire.Status {
	t.Helper()
	timeout := time.After(10 * time.Second)
	for {
		select {
		case m := <-c.out:
			if m.typ != websocket.MessageText {
				continue
			}
			s, err := wire.ParseStatus(m.data)
			require.NoError(t, err)
			return s
		case <-timeout:
			t.Fatal("no status message")
		}
	}
}

func testExplorer() *explorer {
	cfg := config.Default()
	cfg.Workers = 2
	return newExplorer(cfg, &render.Kernel{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSession(t *testing.T) {
	e := testExplorer()
	c := newFakeConn()
	s, err := newSession(e, c, url.Values{"mode": {"julia"}, "iter": {"300"}}, e.log)
	require.NoError(t, err)

	errc := make(chan error, 1)
	go func() { errc <- s.run(context.Background()) }()

	c.send(t, wire.Event{Type: wire.EventResize, Width: 64, Height: 32})
	img, budget, err := wire.DecodeFrame(c.next(t, wire.KindFrame))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())
	assert.Equal(t, 300, budget)

	st := c.nextStatus(t)
	q, err := url.ParseQuery(st.State)
	require.NoError(t, err)
	assert.Equal(t, "julia", q.Get("mode"))
	assert.Contains(t, st.Info, "Mode: JULIA")

	c.send(t, wire.Event{Type: wire.EventWheel, DY: -200})
	_, budget, err = wire.DecodeFrame(c.next(t, wire.KindFrame))
	require.NoError(t, err)
	assert.Equal(t, 120, budget, "reduced while zooming")
	_, budget, err = wire.DecodeFrame(c.next(t, wire.KindFrame))
	require.NoError(t, err)
	assert.Equal(t, 300, budget, "full quality once settled")

	c.send(t, wire.Event{Type: wire.EventExport, Width: 128})
	b, err := wire.ExportPNG(c.next(t, wire.KindExport))
	require.NoError(t, err)
	still, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 128, still.Bounds().Dx())
	assert.Equal(t, 64, still.Bounds().Dy())

	close(c.in)
	select {
	case err := <-errc:
		assert.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err))
	case <-time.After(5 * time.Second):
		t.Fatal("session did not stop")
	}
}

func TestSessionCancel(t *testing.T) {
	e := testExplorer()
	c := newFakeConn()
	s, err := newSession(e, c, url.Values{"cw": {"16"}, "ch": {"16"}}, e.log)
	require.NoError(t, err)
	w, h := s.loop.Size()
	assert.Equal(t, 16, w)
	assert.Equal(t, 16, h)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.run(ctx) }()
	c.next(t, wire.KindFrame)
	cancel()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("session did not stop")
	}
}

func TestClampSide(t *testing.T) {
	assert.Equal(t, 0, clampSide(-5))
	assert.Equal(t, 800, clampSide(800))
	assert.Equal(t, maxSurfaceSide, clampSide(1<<20))
}
