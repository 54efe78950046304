package pixel

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
)

// ErrBounds is returned when a pixel coordinate lies outside the frame.
var ErrBounds = errors.New("pixel: coordinate out of frame bounds")

// Frame is a 1-bit frame buffer in the native layout of SSD1xxx and SH1106
// class controllers: pages of 8 vertically stacked pixels, least significant
// bit on top. Byte x + (y/8)*Stride carries the pixels (x, y/8*8) through
// (x, y/8*8+7), so the buffer streams to the device without translation.
//
// Frame implements [draw.Image]; Set clips silently per the stdlib image
// contract, while SetPixel reports out-of-range coordinates.
type Frame struct {
	// Rect is the frame bounding box.
	Rect image.Rectangle

	// Pix holds the packed pixels.
	Pix []byte

	// Stride is the number of bytes between vertically adjacent pages.
	Stride int
}

// NewFrame returns a zero-filled frame. The height is rounded up to whole
// pages.
func NewFrame(w, h int) *Frame {
	bands := ((h + 7) & ^7) / 8
	return &Frame{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, bands*w),
		Stride: w,
	}
}

// Pages is the number of 8 pixel high bands in the frame.
func (f *Frame) Pages() int {
	return len(f.Pix) / f.Stride
}

func (f *Frame) pos(x, y int) (index int, bit byte) {
	return y/8*f.Stride + x, 1 << uint(y&7)
}

// SetPixel sets or clears the pixel at (x, y).
func (f *Frame) SetPixel(x, y int, on bool) error {
	if !(image.Point{X: x, Y: y}).In(f.Rect) {
		return ErrBounds
	}
	index, bit := f.pos(x, y)
	if on {
		f.Pix[index] |= bit
	} else {
		f.Pix[index] &^= bit
	}
	return nil
}

// Pixel reports the state of the pixel at (x, y).
func (f *Frame) Pixel(x, y int) (bool, error) {
	if !(image.Point{X: x, Y: y}).In(f.Rect) {
		return false, ErrBounds
	}
	index, bit := f.pos(x, y)
	return f.Pix[index]&bit != 0, nil
}

// Clear resets every pixel to off.
func (f *Frame) Clear() {
	for i := range f.Pix {
		f.Pix[i] = 0x00
	}
}

// Bytes is the packed pixel data in controller transmission order. The
// returned slice aliases the frame, treat it as read-only.
func (f *Frame) Bytes() []byte {
	return f.Pix
}

func (f *Frame) ColorModel() color.Model {
	return MonoModel
}

func (f *Frame) Bounds() image.Rectangle {
	return f.Rect
}

func (f *Frame) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(f.Rect) {
		return color.Transparent
	}
	index, bit := f.pos(x, y)
	return Mono{On: f.Pix[index]&bit != 0}
}

func (f *Frame) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(f.Rect) {
		return
	}
	index, bit := f.pos(x, y)
	if monoModel(c).(Mono).On {
		f.Pix[index] |= bit
	} else {
		f.Pix[index] &^= bit
	}
}

// Fill sets every pixel to the given color.
func (f *Frame) Fill(c color.Color) {
	var value byte
	if monoModel(c).(Mono).On {
		value = 0xff
	}
	for i := range f.Pix {
		f.Pix[i] = value
	}
}

// Interface check.
var _ draw.Image = (*Frame)(nil)
