package camera

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vladimirvivien/go4vl/device"
	"github.com/vladimirvivien/go4vl/v4l2"
)

// stopSettle gives the go4vl stream goroutine time to run its own Stop
// after the context is cancelled, before Close tears the device down.
const stopSettle = 100 * time.Millisecond

// preferredFormats is the order in which pixel formats are tried.
// Compressed formats first: raw YUYV at 720p saturates USB 2.0 quickly.
var preferredFormats = []v4l2.FourCCType{
	v4l2.PixelFmtMJPEG,
	v4l2.PixelFmtJPEG,
	v4l2.PixelFmtYUYV,
	v4l2.PixelFmtRGB24,
}

// V4L2Device is a Device backed by go4vl.
type V4L2Device struct {
	devName string
	opts    Options

	lock   sync.Mutex
	cancel context.CancelFunc
	camera *device.Device
	output <-chan []byte

	format v4l2.PixFormat
	pixel  PixelFormat
}

func V4L2Opener(opts Options) Opener {
	return func(index int, req FormatRequest) (Device, error) {
		return OpenV4L2(opts.path(index), req, opts)
	}
}

// OpenV4L2 negotiates a format for req and opens devName with it.
func OpenV4L2(devName string, req FormatRequest, opts Options) (*V4L2Device, error) {
	fourcc, size, err := negotiate(devName, req)
	if err != nil {
		return nil, err
	}
	pixel, ok := fourccToFormat(fourcc)
	if !ok {
		return nil, fmt.Errorf("camera: %s has no supported pixel format", devName)
	}

	camera, err := device.Open(
		devName,
		device.WithBufferSize(1),
		device.WithPixFormat(v4l2.PixFormat{
			PixelFormat: fourcc,
			Width:       uint32(size.Width),
			Height:      uint32(size.Height),
			Field:       v4l2.FieldNone,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", devName, err)
	}

	// the driver may round the size, trust what it reports
	format, err := v4l2.GetPixFormat(camera.Fd())
	if err != nil {
		_ = camera.Close()
		return nil, fmt.Errorf("get pix format: %w", err)
	}
	logger.Infof("camera %s opened in %dx%d %s", devName, format.Width, format.Height, pixel)

	return &V4L2Device{
		devName: devName,
		opts:    opts,
		camera:  camera,
		format:  format,
		pixel:   pixel,
	}, nil
}

func (c *V4L2Device) StartStream() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.cancel != nil {
		return StartedErr
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := c.camera.Start(ctx); err != nil {
		cancel()
		return err
	}
	c.cancel = cancel
	c.output = c.camera.GetOutput()

	c.applySettings()

	return nil
}

func (c *V4L2Device) NextFrame() (RawFrame, error) {
	c.lock.Lock()
	output := c.output
	c.lock.Unlock()
	if output == nil {
		return RawFrame{}, ErrNotStarted
	}

	timer := time.NewTimer(c.opts.timeout())
	defer timer.Stop()

	select {
	case data, ok := <-output:
		if !ok {
			return RawFrame{}, ErrDeviceGone
		}
		return RawFrame{
			Data:   data,
			Format: c.pixel,
			Width:  int(c.format.Width),
			Height: int(c.format.Height),
			Stride: int(c.format.BytesPerLine),
		}, nil
	case <-timer.C:
		return RawFrame{}, ErrFrameTimeout
	}
}

func (c *V4L2Device) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.cancel != nil {
		c.cancel()
		time.Sleep(stopSettle)
		c.cancel = nil
		c.output = nil
	}
	if c.camera != nil {
		err := c.camera.Close()
		c.camera = nil
		logger.Infof("camera %s closed", c.devName)
		return err
	}
	return nil
}

func (c *V4L2Device) applySettings() {
	for k, v := range c.opts.Settings {
		if err := c.camera.SetControlValue(k, v); err != nil {
			logger.Warnf("set ctrl(%d) to %d, err: %s", k, v, err)
		}
	}
}

// negotiate opens devName briefly to list its frame sizes and picks the
// pixel format and size to stream with.
func negotiate(devName string, req FormatRequest) (v4l2.FourCCType, Size, error) {
	probe, err := device.Open(devName, device.WithBufferSize(1))
	if err != nil {
		return 0, Size{}, fmt.Errorf("open %s: %w", devName, err)
	}
	defer probe.Close()

	enums, err := v4l2.GetAllFormatFrameSizes(probe.Fd())
	if err != nil {
		return 0, Size{}, fmt.Errorf("list frame sizes: %w", err)
	}
	fourcc, size, ok := chooseFormat(enums, req)
	if !ok {
		return 0, Size{}, fmt.Errorf("camera: %s advertises no supported pixel format", devName)
	}

	return fourcc, size, nil
}

func chooseFormat(enums []v4l2.FrameSizeEnum, req FormatRequest) (v4l2.FourCCType, Size, bool) {
	sizes := make(map[v4l2.FourCCType][]Size)
	for _, e := range enums {
		sizes[e.PixelFormat] = append(sizes[e.PixelFormat], Size{
			Width:  int(e.Size.MaxWidth),
			Height: int(e.Size.MaxHeight),
		})
	}

	// first preference that can satisfy the request wins
	for _, f := range preferredFormats {
		if satisfies(sizes[f], req) {
			return f, pickResolution(sizes[f], req), true
		}
	}
	for _, f := range preferredFormats {
		if len(sizes[f]) > 0 {
			return f, pickResolution(sizes[f], req), true
		}
	}

	return 0, Size{}, false
}

func fourccToFormat(f v4l2.FourCCType) (PixelFormat, bool) {
	switch f {
	case v4l2.PixelFmtMJPEG:
		return MJPEG, true
	case v4l2.PixelFmtJPEG:
		return JPEG, true
	case v4l2.PixelFmtYUYV:
		return YUYV, true
	case v4l2.PixelFmtRGB24:
		return RGB24, true
	}
	return "", false
}

func fourccString(f v4l2.FourCCType) string {
	return string([]byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)})
}
