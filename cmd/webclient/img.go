//go:build js && wasm

package main

import (
	"image"
	"syscall/js"
)

// displayFrame puts a frame on the canvas, resizing the canvas buffer to
// the frame when the two differ.
func displayFrame(canvas js.Value, img *image.RGBA) {
	width := img.Rect.Dx()
	height := img.Rect.Dy()
	if canvas.Get("width").Int() != width || canvas.Get("height").Int() != height {
		canvas.Set("width", width)
		canvas.Set("height", height)
	}
	ctx := canvas.Call("getContext", "2d")

	// ImageData wants a Uint8ClampedArray of width * height * 4 bytes
	jsData := js.Global().Get("Uint8ClampedArray").New(len(img.Pix))
	js.CopyBytesToJS(jsData, img.Pix)

	imageData := js.Global().Get("ImageData").New(jsData, width, height)
	ctx.Call("putImageData", imageData, 0, 0)
}

// download offers b to the user as a file.
func download(b []byte, mime, filename string) {
	u8 := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(u8, b)
	blob := js.Global().Get("Blob").New([]any{u8}, map[string]any{"type": mime})
	url := js.Global().Get("URL").Call("createObjectURL", blob)

	doc := js.Global().Get("document")
	a := doc.Call("createElement", "a")
	a.Set("href", url)
	a.Set("download", filename)
	doc.Get("body").Call("appendChild", a)
	a.Call("click")
	a.Call("remove")
	js.Global().Get("URL").Call("revokeObjectURL", url)
}
