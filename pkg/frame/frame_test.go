package frame

import (
	"image/color"
	"testing"
)

func TestBlank(t *testing.T) {
	b := Blank(4, 3)
	if !b.Valid() {
		t.Fatalf("blank buffer is not valid: %d bytes", len(b.Pix))
	}
	if len(b.Pix) != 4*3*4 {
		t.Fatalf("len = %d, want %d", len(b.Pix), 4*3*4)
	}
	for i, v := range b.Pix {
		if v != 0 {
			t.Fatalf("pix[%d] = %d, want 0", i, v)
		}
	}
}

func TestValid(t *testing.T) {
	cases := []struct {
		name string
		buf  Buffer
		want bool
	}{
		{"zero value", Buffer{}, false},
		{"short", Buffer{Pix: make([]byte, 7), Width: 2, Height: 1}, false},
		{"exact", Buffer{Pix: make([]byte, 8), Width: 2, Height: 1}, true},
		{"long", Buffer{Pix: make([]byte, 9), Width: 2, Height: 1}, false},
	}
	for _, c := range cases {
		if got := c.buf.Valid(); got != c.want {
			t.Errorf("%s: Valid() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestImageSharesPix(t *testing.T) {
	b := Blank(2, 2)
	img := b.Image()
	img.SetRGBA(1, 1, color.RGBA{R: 1, G: 2, B: 3, A: 4})

	off := (1*2 + 1) * BytesPerPixel
	if got := b.Pix[off : off+4]; got[0] != 1 || got[1] != 2 || got[2] != 3 || got[3] != 4 {
		t.Fatalf("pixel (1,1) = %v, want [1 2 3 4]", got)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
}
