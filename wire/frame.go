package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"
)

// Kind tags a binary message.
type Kind byte

const (
	KindFrame  Kind = 1 // header + raw RGBA pixels
	KindExport Kind = 2 // PNG file
)

// frameHeader is kind, width, height and budget; little endian uint32s.
const frameHeader = 1 + 3*4

var ErrShort = errors.New("wire: message too short")

// AppendFrame appends the frame message of img rendered with budget
// iterations to dst.
func AppendFrame(dst []byte, img *image.RGBA, budget int) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	dst = append(dst, byte(KindFrame))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(w))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(h))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(budget))
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		i := img.PixOffset(img.Rect.Min.X, y)
		dst = append(dst, img.Pix[i:i+w*4]...)
	}
	return dst
}

// DecodeFrame decodes a frame message. The image shares memory with msg.
func DecodeFrame(msg []byte) (img *image.RGBA, budget int, err error) {
	if len(msg) < frameHeader {
		return nil, 0, ErrShort
	}
	if k := Kind(msg[0]); k != KindFrame {
		return nil, 0, fmt.Errorf("wire: kind %d is not a frame", k)
	}
	w := int(binary.LittleEndian.Uint32(msg[1:]))
	h := int(binary.LittleEndian.Uint32(msg[5:]))
	budget = int(binary.LittleEndian.Uint32(msg[9:]))
	pix := msg[frameHeader:]
	if len(pix) != w*h*4 {
		return nil, 0, fmt.Errorf("wire: frame %dx%d carries %d bytes of pixels", w, h, len(pix))
	}
	return &image.RGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}, budget, nil
}

// EncodeExport encodes img as an export message.
func EncodeExport(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(byte(KindExport))
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("wire: export: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportPNG returns the PNG file of an export message.
func ExportPNG(msg []byte) ([]byte, error) {
	if len(msg) < 1 {
		return nil, ErrShort
	}
	if k := Kind(msg[0]); k != KindExport {
		return nil, fmt.Errorf("wire: kind %d is not an export", k)
	}
	return msg[1:], nil
}

// KindOf returns the kind of a binary message.
func KindOf(msg []byte) (Kind, error) {
	if len(msg) < 1 {
		return 0, ErrShort
	}
	return Kind(msg[0]), nil
}
