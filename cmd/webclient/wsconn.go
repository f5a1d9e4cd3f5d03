//go:build js && wasm

package main

import (
	"io"
	"sync"
	"syscall/js"
)

// wsMessage is one websocket message; text messages carry JSON.
type wsMessage struct {
	text bool
	data []byte
}

// wsConn wraps a browser WebSocket into a message channel and a send call.
type wsConn struct {
	ws js.Value

	mu     sync.Mutex // needed because js onClose event can preempt Send() call
	closed bool

	readCh chan wsMessage

	openCh chan struct{} // closed when connected
	err    error
}

func newWSConn(ws js.Value) *wsConn {
	c := &wsConn{
		ws:     ws,
		readCh: make(chan wsMessage, 8),
		openCh: make(chan struct{}),
	}

	ws.Set("binaryType", "arraybuffer")

	ws.Set("onopen", js.FuncOf(func(js.Value, []js.Value) any {
		close(c.openCh)
		return nil
	}))

	ws.Set("onerror", js.FuncOf(func(js.Value, []js.Value) any {
		c.mu.Lock()
		c.err = io.ErrUnexpectedEOF
		c.mu.Unlock()
		select {
		case <-c.openCh:
		default:
			close(c.openCh)
		}
		return nil
	}))

	ws.Set("onmessage", js.FuncOf(func(this js.Value, args []js.Value) any {
		data := args[0].Get("data")
		if data.Type() == js.TypeString {
			c.deliver(wsMessage{text: true, data: []byte(data.String())})
			return nil
		}
		jsDataToBytes(data, func(b []byte) {
			c.deliver(wsMessage{data: b})
		})
		return nil
	}))

	ws.Set("onclose", js.FuncOf(func(js.Value, []js.Value) any {
		logScreenf("connection closed")
		c.mu.Lock()
		if !c.closed {
			c.closed = true
			close(c.readCh)
		}
		c.mu.Unlock()
		return nil
	}))

	return c
}

// deliver hands a message to the reader. It blocks the js event loop while
// the buffer is full, which keeps messages in order.
func (c *wsConn) deliver(m wsMessage) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if !closed {
		c.readCh <- m
	}
}

// Messages returns the channel of received messages. It is closed when the
// connection closes.
func (c *wsConn) Messages() <-chan wsMessage {
	return c.readCh
}

// Send sends a text message.
func (c *wsConn) Send(p []byte) error {
	if err := c.waitOpen(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return io.ErrClosedPipe
	}
	c.ws.Call("send", string(p))
	return nil
}

func (c *wsConn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}

	c.closed = true

	select {
	case <-c.openCh:
	default:
		close(c.openCh)
	}

	close(c.readCh)
	c.mu.Unlock()

	c.ws.Call("close")
	return nil
}

func (c *wsConn) waitOpen() error {
	<-c.openCh

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return c.err
	}
	if c.closed {
		return io.ErrClosedPipe
	}
	return nil
}

func jsDataToBytes(data js.Value, deliver func([]byte)) {
	// Uint8Array / Uint8ClampedArray
	if data.InstanceOf(js.Global().Get("Uint8Array")) ||
		data.InstanceOf(js.Global().Get("Uint8ClampedArray")) {

		b := make([]byte, data.Get("byteLength").Int())
		js.CopyBytesToGo(b, data)
		deliver(b)
		return
	}

	// ArrayBuffer
	if data.InstanceOf(js.Global().Get("ArrayBuffer")) {
		u8 := js.Global().Get("Uint8Array").New(data)
		b := make([]byte, u8.Get("byteLength").Int())
		js.CopyBytesToGo(b, u8)
		deliver(b)
		return
	}

	// Blob -> async
	if data.InstanceOf(js.Global().Get("Blob")) {
		promise := data.Call("arrayBuffer")
		var then js.Func
		then = js.FuncOf(func(this js.Value, args []js.Value) any {
			defer then.Release()
			u8 := js.Global().Get("Uint8Array").New(args[0])
			b := make([]byte, u8.Get("byteLength").Int())
			js.CopyBytesToGo(b, u8)
			deliver(b)
			return nil
		})
		promise.Call("then", then)
		return
	}

	logScreenf("unsupported message type %s", data.Type())
}
