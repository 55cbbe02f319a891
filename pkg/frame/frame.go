// Package frame defines the decoded image that travels from the capture
// worker to the display driver.
package frame

import (
	"image"
	"time"
)

const (
	CanvasWidth   = 1280
	CanvasHeight  = 720
	BytesPerPixel = 4
)

// Buffer is one decoded RGBA image. Pix is owned by whoever holds the
// Buffer; a sender must not touch Pix after handing the Buffer off.
type Buffer struct {
	Pix    []byte
	Width  int
	Height int

	// Seq is the capture sequence number, starting at 1. Zero means the
	// buffer never came from a camera.
	Seq        uint64
	CapturedAt time.Time
}

// Size returns the number of bytes a width x height buffer occupies.
func Size(width, height int) int {
	return width * height * BytesPerPixel
}

// Blank returns a zeroed buffer of the given dimensions.
func Blank(width, height int) Buffer {
	return Buffer{
		Pix:    make([]byte, Size(width, height)),
		Width:  width,
		Height: height,
	}
}

// Valid reports whether Pix holds exactly Width x Height pixels.
func (b Buffer) Valid() bool {
	return b.Width > 0 && b.Height > 0 && len(b.Pix) == Size(b.Width, b.Height)
}

// Image returns an *image.RGBA that shares Pix with the buffer.
func (b Buffer) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Width * BytesPerPixel,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}
