package pixel

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"
)

func TestFrameAllocation(t *testing.T) {
	testCases := []struct {
		w, h  int
		pages int
	}{
		{128, 32, 4},
		{128, 64, 8},
	}
	for _, test := range testCases {
		f := NewFrame(test.w, test.h)
		if v := f.Bounds().Size(); !v.Eq(image.Pt(test.w, test.h)) {
			t.Errorf("expected frame size %dx%d, got %s", test.w, test.h, v)
		}
		if v := f.Pages(); v != test.pages {
			t.Errorf("expected %d pages, got %d", test.pages, v)
		}
		if v := len(f.Bytes()); v != test.pages*test.w {
			t.Errorf("expected %d bytes, got %d", test.pages*test.w, v)
		}
		for i, b := range f.Bytes() {
			if b != 0 {
				t.Fatalf("byte %d is %#02x, expected a zero-filled frame", i, b)
			}
		}
	}
}

func TestFrameBitAddressing(t *testing.T) {
	f := NewFrame(128, 64)

	if err := f.SetPixel(0, 0, true); err != nil {
		t.Fatal(err)
	}
	if v := f.Bytes()[0]; v != 0x01 {
		t.Errorf("pixel (0,0): byte 0 is %#02x, expected 0x01", v)
	}

	if err := f.SetPixel(127, 63, true); err != nil {
		t.Fatal(err)
	}
	if v := f.Bytes()[1023]; v != 0x80 {
		t.Errorf("pixel (127,63): byte 1023 is %#02x, expected 0x80", v)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	f := NewFrame(128, 64)
	for y := 0; y < 64; y++ {
		for x := 0; x < 128; x++ {
			on := rand.Intn(2) == 1
			if err := f.SetPixel(x, y, on); err != nil {
				t.Fatal(err)
			}
			v, err := f.Pixel(x, y)
			if err != nil {
				t.Fatal(err)
			}
			if v != on {
				t.Fatalf("pixel (%d,%d) read back %v, expected %v", x, y, v, on)
			}
			index, bit := x+(y/8)*128, byte(1)<<uint(y%8)
			if got := f.Bytes()[index]&bit != 0; got != on {
				t.Fatalf("pixel (%d,%d) byte %d bit %#02x is %v, expected %v", x, y, index, bit, got, on)
			}
		}
	}
}

func TestFrameToggleIdempotence(t *testing.T) {
	f := NewFrame(128, 32)
	f.Fill(Mono{On: true})
	_ = f.SetPixel(3, 17, false)

	before := make([]byte, len(f.Bytes()))
	copy(before, f.Bytes())

	for _, p := range []image.Point{{0, 0}, {3, 17}, {64, 8}, {127, 31}} {
		was, err := f.Pixel(p.X, p.Y)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetPixel(p.X, p.Y, !was); err != nil {
			t.Fatal(err)
		}
		if err := f.SetPixel(p.X, p.Y, was); err != nil {
			t.Fatal(err)
		}
	}

	for i, b := range f.Bytes() {
		if b != before[i] {
			t.Fatalf("byte %d changed from %#02x to %#02x after toggling", i, before[i], b)
		}
	}
}

func TestFrameClear(t *testing.T) {
	f := NewFrame(128, 64)
	f.Fill(Mono{On: true})
	f.Clear()
	if v := len(f.Bytes()); v != 8*128 {
		t.Fatalf("cleared frame is %d bytes, expected %d", v, 8*128)
	}
	for i, b := range f.Bytes() {
		if b != 0 {
			t.Fatalf("byte %d is %#02x after Clear", i, b)
		}
	}
}

func TestFrameBounds(t *testing.T) {
	f := NewFrame(128, 64)
	testCases := []image.Point{
		{128, 0},
		{-1, 0},
		{0, 64},
		{0, -1},
		{128, 64},
	}
	for _, p := range testCases {
		if err := f.SetPixel(p.X, p.Y, true); !errors.Is(err, ErrBounds) {
			t.Errorf("SetPixel(%d,%d) returned %v, expected ErrBounds", p.X, p.Y, err)
		}
		if _, err := f.Pixel(p.X, p.Y); !errors.Is(err, ErrBounds) {
			t.Errorf("Pixel(%d,%d) returned %v, expected ErrBounds", p.X, p.Y, err)
		}
	}
	for i, b := range f.Bytes() {
		if b != 0 {
			t.Fatalf("byte %d is %#02x, out-of-range writes must not touch the buffer", i, b)
		}
	}
}

func TestFrameImage(t *testing.T) {
	f := NewFrame(128, 32)

	if v := f.ColorModel(); v != MonoModel {
		t.Errorf("expected color model %T, got %T", MonoModel, v)
	}

	f.Set(5, 9, color.White)
	if v := f.At(5, 9); v != On {
		t.Errorf("pixel (5,9) is %#+v, expected On", v)
	}
	f.Set(5, 9, color.Black)
	if v := f.At(5, 9); v != Off {
		t.Errorf("pixel (5,9) is %#+v, expected Off", v)
	}

	// Set clips, At is transparent outside the frame.
	f.Set(-1, 999, color.White)
	if v := f.At(-1, 999); v != color.Transparent {
		t.Errorf("out of bounds At is %#+v, expected transparent", v)
	}
}
