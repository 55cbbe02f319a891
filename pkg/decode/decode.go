// Package decode turns raw camera payloads into canvas-sized RGBA frames.
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"

	"camview/pkg/camera"
	"camview/pkg/frame"
	imgutil "camview/pkg/utils/image"
)

var (
	ErrShortFrame        = errors.New("decode: frame shorter than its geometry")
	ErrUnsupportedFormat = errors.New("decode: unsupported pixel format")
	ErrInvalidCanvas     = errors.New("decode: invalid canvas size")
)

// Decode converts raw to a w x h RGBA buffer, resampling when the source
// size differs from the canvas. The returned Pix is freshly allocated.
func Decode(raw camera.RawFrame, w, h int) (frame.Buffer, error) {
	if w <= 0 || h <= 0 {
		return frame.Buffer{}, ErrInvalidCanvas
	}

	src, err := toRGBA(raw)
	if err != nil {
		return frame.Buffer{}, err
	}

	if src.Rect.Dx() == w && src.Rect.Dy() == h && src.Stride == w*frame.BytesPerPixel {
		return frame.Buffer{Pix: src.Pix, Width: w, Height: h}, nil
	}

	out := frame.Blank(w, h)
	draw.BiLinear.Scale(out.Image(), image.Rect(0, 0, w, h), src, src.Bounds(), draw.Src, nil)

	return out, nil
}

func toRGBA(raw camera.RawFrame) (*image.RGBA, error) {
	switch raw.Format {
	case camera.MJPEG, camera.JPEG:
		return decodeJPEG(raw.Data)
	case camera.RGB24, camera.RGBA, camera.YUYV:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw.Format)
	}

	if raw.Width <= 0 || raw.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrShortFrame, raw.Width, raw.Height)
	}
	stride := raw.Stride
	if stride <= 0 {
		stride = len(raw.Data) / raw.Height
	}
	if stride < raw.Width*bytesPerPixel(raw.Format) || len(raw.Data) < stride*(raw.Height-1)+raw.Width*bytesPerPixel(raw.Format) {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d %s", ErrShortFrame, len(raw.Data), raw.Width, raw.Height, raw.Format)
	}

	img := image.NewRGBA(image.Rect(0, 0, raw.Width, raw.Height))
	switch raw.Format {
	case camera.RGB24:
		imgutil.RGBToRGBA(raw.Data, img.Pix, raw.Width, raw.Height, stride)
	case camera.RGBA:
		imgutil.CopyRGBA(raw.Data, img.Pix, raw.Width, raw.Height, stride)
	case camera.YUYV:
		if raw.Width%2 != 0 {
			return nil, fmt.Errorf("%w: odd YUYV width %d", ErrUnsupportedFormat, raw.Width)
		}
		imgutil.YUYVToRGBA(raw.Data, img.Pix, raw.Width, raw.Height, stride)
	}

	return img, nil
}

func bytesPerPixel(f camera.PixelFormat) int {
	switch f {
	case camera.RGB24:
		return 3
	case camera.YUYV:
		return 2
	default:
		return 4
	}
}

func decodeJPEG(data []byte) (*image.RGBA, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty jpeg payload", ErrShortFrame)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode jpeg: %w", err)
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}

	// jpeg hands back YCbCr or Gray, draw.Draw converts and sets alpha
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	return rgba, nil
}
