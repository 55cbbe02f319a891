package camera

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"camview/pkg/types"
)

const (
	DefaultDevice = "/dev/video0"
	DefaultWidth  = 1280
	DefaultHeight = 720

	DefaultFrameTimeout = 2 * time.Second
)

var (
	ErrFrameTimeout = errors.New("camera: timed out waiting for frame")
	ErrDeviceGone   = errors.New("camera: device stream closed")
	ErrNotStarted   = errors.New("camera: stream not started")
	StartedErr      = errors.New("camera: already started")
)

type PixelFormat string

const (
	RGB24 PixelFormat = "RGB24"
	RGBA  PixelFormat = "RGBA"
	YUYV  PixelFormat = "YUYV"
	MJPEG PixelFormat = "MJPEG"
	JPEG  PixelFormat = "JPEG"
)

// RawFrame is one undecoded frame straight from the driver.
type RawFrame struct {
	Data   []byte
	Format PixelFormat
	Width  int
	Height int
	// Stride is bytes per row; 0 means derive it from len(Data)/Height.
	Stride int
}

type Policy int

const (
	// Exact asks for the requested size as-is.
	Exact Policy = iota
	// HighestResolution picks the largest advertised size at or above
	// the requested one.
	HighestResolution
)

type FormatRequest struct {
	Width  int
	Height int
	Policy Policy
}

func DefaultRequest() FormatRequest {
	return FormatRequest{Width: DefaultWidth, Height: DefaultHeight, Policy: HighestResolution}
}

// Device is a camera handle. It is owned by a single goroutine.
type Device interface {
	StartStream() error
	// NextFrame blocks until the driver delivers a frame.
	NextFrame() (RawFrame, error)
	Close() error
}

// Opener opens camera number index.
type Opener func(index int, req FormatRequest) (Device, error)

// DevicePath maps a camera index to its V4L2 node.
func DevicePath(index int) string {
	return fmt.Sprintf("/dev/video%d", index)
}

// Options tune the hardware backends.
type Options struct {
	// Path overrides DevicePath(index) when set.
	Path     string
	Settings types.CameraSettings
	// Timeout bounds a single NextFrame call.
	Timeout time.Duration
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultFrameTimeout
	}
	return o.Timeout
}

func (o Options) path(index int) string {
	if o.Path != "" {
		return o.Path
	}
	return DevicePath(index)
}

// Backend resolves a backend name to an Opener.
func Backend(name string, opts Options) (Opener, error) {
	switch strings.ToLower(name) {
	case "v4l2", "":
		return V4L2Opener(opts), nil
	case "webcam":
		return WebcamOpener(opts), nil
	case "pattern":
		return PatternOpener(0), nil
	default:
		return nil, fmt.Errorf("camera: unknown backend %q", name)
	}
}

// IsDeviceLoss reports whether err means the camera is gone for good.
func IsDeviceLoss(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDeviceGone) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "no such device") || strings.Contains(s, "enodev")
}
