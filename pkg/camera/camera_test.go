package camera

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vladimirvivien/go4vl/v4l2"
)

func TestPickResolution(t *testing.T) {
	sizes := []Size{
		{Width: 640, Height: 480},
		{Width: 1920, Height: 1080},
		{Width: 2048, Height: 1080},
		{Width: 3280, Height: 2464},
	}

	tests := []struct {
		name string
		req  FormatRequest
		want Size
	}{
		{"highest", FormatRequest{1280, 720, HighestResolution}, Size{3280, 2464}},
		{"exact", FormatRequest{1280, 720, Exact}, Size{1280, 720}},
		{"nothing large enough", FormatRequest{4000, 3000, HighestResolution}, Size{4000, 3000}},
		{"small request", FormatRequest{320, 240, HighestResolution}, Size{3280, 2464}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickResolution(sizes, tt.req); got != tt.want {
				t.Fatalf("pickResolution() = %s, want %s", got, tt.want)
			}
		})
	}

	if got := pickResolution(nil, DefaultRequest()); got != (Size{DefaultWidth, DefaultHeight}) {
		t.Fatalf("no sizes: got %s", got)
	}
}

func enum(f v4l2.FourCCType, w, h uint32) v4l2.FrameSizeEnum {
	return v4l2.FrameSizeEnum{
		PixelFormat: f,
		Size:        v4l2.FrameSize{MinWidth: w, MaxWidth: w, MinHeight: h, MaxHeight: h},
	}
}

func TestChooseFormat(t *testing.T) {
	enums := []v4l2.FrameSizeEnum{
		enum(v4l2.PixelFmtYUYV, 1920, 1080),
		enum(v4l2.PixelFmtMJPEG, 640, 480),
		enum(v4l2.PixelFmtMJPEG, 1280, 720),
	}

	fourcc, size, ok := chooseFormat(enums, DefaultRequest())
	if !ok {
		t.Fatal("no format chosen")
	}
	if fourcc != v4l2.PixelFmtMJPEG || size != (Size{1280, 720}) {
		t.Fatalf("got %s %s, want MJPG 1280x720", fourccString(fourcc), size)
	}

	// MJPEG cannot reach 1080p, YUYV can
	fourcc, size, _ = chooseFormat(enums, FormatRequest{1920, 1080, HighestResolution})
	if fourcc != v4l2.PixelFmtYUYV || size != (Size{1920, 1080}) {
		t.Fatalf("got %s %s, want YUYV 1920x1080", fourccString(fourcc), size)
	}

	if _, _, ok = chooseFormat(nil, DefaultRequest()); ok {
		t.Fatal("chose a format from an empty list")
	}
}

func TestFourccString(t *testing.T) {
	if s := fourccString(v4l2.PixelFmtMJPEG); s != "MJPG" {
		t.Fatalf("fourccString() = %q", s)
	}
}

func TestPatternDevice(t *testing.T) {
	dev, err := PatternOpener(0)(0, FormatRequest{Width: 8, Height: 4})
	if err != nil {
		t.Fatal(err)
	}
	if _, err = dev.NextFrame(); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("NextFrame before start = %v", err)
	}
	if err = dev.StartStream(); err != nil {
		t.Fatal(err)
	}
	if err = dev.StartStream(); !errors.Is(err, StartedErr) {
		t.Fatalf("second StartStream = %v", err)
	}

	for i := uint32(1); i <= 3; i++ {
		raw, err := dev.NextFrame()
		if err != nil {
			t.Fatal(err)
		}
		if raw.Format != RGBA || raw.Width != 8 || raw.Height != 4 {
			t.Fatalf("unexpected geometry %+v", raw)
		}
		if len(raw.Data) != 8*4*4 {
			t.Fatalf("len(Data) = %d", len(raw.Data))
		}
		if c := PatternCount(raw.Data); c != i {
			t.Fatalf("counter = %d, want %d", c, i)
		}
	}

	if err = dev.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err = dev.NextFrame(); !IsDeviceLoss(err) {
		t.Fatalf("NextFrame after Close = %v, want device loss", err)
	}
}

func TestIsDeviceLoss(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{ErrFrameTimeout, false},
		{ErrDeviceGone, true},
		{fmt.Errorf("read: %w", ErrDeviceGone), true},
		{errors.New("VIDIOC_DQBUF: no such device"), true},
		{errors.New("ENODEV"), true},
	}
	for _, tt := range tests {
		if got := IsDeviceLoss(tt.err); got != tt.want {
			t.Fatalf("IsDeviceLoss(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestBackend(t *testing.T) {
	for _, name := range []string{"", "v4l2", "V4L2", "webcam", "pattern"} {
		if _, err := Backend(name, Options{}); err != nil {
			t.Fatalf("Backend(%q): %s", name, err)
		}
	}
	if _, err := Backend("gstreamer", Options{}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestDevicePath(t *testing.T) {
	if p := DevicePath(2); p != "/dev/video2" {
		t.Fatalf("DevicePath(2) = %q", p)
	}
	if p := (Options{Path: "/dev/cam"}).path(0); p != "/dev/cam" {
		t.Fatalf("path override = %q", p)
	}
}
