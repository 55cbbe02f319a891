package image

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"
)

const (
	width  = 4
	height = 2
)

func TestRGB(t *testing.T) {
	in := make([]byte, width*height*3)
	for i := range in {
		in[i] = byte(i)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	RGBToRGBA(in, img.Pix, width, height, 0)
	for p := 0; p < width*height; p++ {
		got := img.Pix[p*4 : p*4+4]
		want := []byte{in[p*3], in[p*3+1], in[p*3+2], 0xff}
		if !bytes.Equal(got, want) {
			t.Fatalf("pixel %d = %v, want %v", p, got, want)
		}
	}

	var jpgBuf bytes.Buffer
	if err := EncodeJPEG(img, &jpgBuf, 95); err != nil {
		t.Fatal(err)
	}
	if _, err := jpeg.Decode(&jpgBuf); err != nil {
		t.Fatal(err)
	}
}

func TestRGBPaddedStride(t *testing.T) {
	// two bytes of padding per row
	stride := width*3 + 2
	in := make([]byte, stride*height)
	in[stride] = 7 // first pixel of the second row
	out := make([]byte, width*height*4)
	RGBToRGBA(in, out, width, height, stride)
	if out[width*4] != 7 {
		t.Fatalf("row 1 starts with %d, want 7", out[width*4])
	}
}

func TestYUYV(t *testing.T) {
	// neutral chroma: full-range grey levels straight from luma
	in := []byte{
		16, 128, 235, 128, 16, 128, 235, 128,
		126, 128, 126, 128, 126, 128, 126, 128,
	}
	out := make([]byte, width*height*4)
	YUYVToRGBA(in, out, width, height, 0)

	if !bytes.Equal(out[0:4], []byte{16, 16, 16, 0xff}) {
		t.Fatalf("dark pixel = %v", out[0:4])
	}
	if !bytes.Equal(out[4:8], []byte{235, 235, 235, 0xff}) {
		t.Fatalf("light pixel = %v", out[4:8])
	}
	mid := out[width*4 : width*4+4]
	if mid[0] != mid[1] || mid[1] != mid[2] {
		t.Fatalf("grey pixel not neutral: %v", mid)
	}
}

func TestCopyRGBA(t *testing.T) {
	in := make([]byte, width*height*4)
	out := make([]byte, len(in))
	in[0], in[1], in[2] = 1, 2, 3
	CopyRGBA(in, out, width, height, 0)
	if !bytes.Equal(out[0:4], []byte{1, 2, 3, 0xff}) {
		t.Fatalf("pixel 0 = %v", out[0:4])
	}
	for j := 3; j < len(out); j += 4 {
		if out[j] != 0xff {
			t.Fatalf("alpha at %d = %d", j, out[j])
		}
	}
}
