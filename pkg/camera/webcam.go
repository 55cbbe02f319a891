package camera

import (
	"errors"
	"fmt"
	"sync"

	"github.com/blackjack/webcam"
)

const (
	fourccMJPG webcam.PixelFormat = 0x47504a4d
	fourccJPEG webcam.PixelFormat = 0x4745504a
	fourccYUYV webcam.PixelFormat = 0x56595559
	fourccRGB3 webcam.PixelFormat = 0x33424752
)

var webcamFormats = []struct {
	fourcc webcam.PixelFormat
	pixel  PixelFormat
}{
	{fourccMJPG, MJPEG},
	{fourccJPEG, JPEG},
	{fourccYUYV, YUYV},
	{fourccRGB3, RGB24},
}

// WebcamDevice is a Device backed by github.com/blackjack/webcam. It
// reads frames synchronously instead of through a stream goroutine.
type WebcamDevice struct {
	devName string
	opts    Options

	lock      sync.Mutex
	cam       *webcam.Webcam
	streaming bool

	pixel         PixelFormat
	width, height int
}

func WebcamOpener(opts Options) Opener {
	return func(index int, req FormatRequest) (Device, error) {
		return OpenWebcam(opts.path(index), req, opts)
	}
}

func OpenWebcam(devName string, req FormatRequest, opts Options) (*WebcamDevice, error) {
	cam, err := webcam.Open(devName)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", devName, err)
	}

	supported := cam.GetSupportedFormats()
	for _, f := range webcamFormats {
		if _, ok := supported[f.fourcc]; !ok {
			continue
		}
		var sizes []Size
		for _, fs := range cam.GetSupportedFrameSizes(f.fourcc) {
			sizes = append(sizes, Size{Width: int(fs.MaxWidth), Height: int(fs.MaxHeight)})
		}
		size := pickResolution(sizes, req)

		_, w, h, err := cam.SetImageFormat(f.fourcc, uint32(size.Width), uint32(size.Height))
		if err != nil {
			_ = cam.Close()
			return nil, fmt.Errorf("set image format: %w", err)
		}
		if err = cam.SetBufferCount(1); err != nil {
			_ = cam.Close()
			return nil, fmt.Errorf("set buffer count: %w", err)
		}
		logger.Infof("webcam %s opened in %dx%d %s", devName, w, h, f.pixel)

		return &WebcamDevice{
			devName: devName,
			opts:    opts,
			cam:     cam,
			pixel:   f.pixel,
			width:   int(w),
			height:  int(h),
		}, nil
	}

	_ = cam.Close()
	return nil, fmt.Errorf("camera: %s advertises no supported pixel format", devName)
}

func (c *WebcamDevice) StartStream() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.streaming {
		return StartedErr
	}
	if err := c.cam.StartStreaming(); err != nil {
		return err
	}
	c.streaming = true

	return nil
}

func (c *WebcamDevice) NextFrame() (RawFrame, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if !c.streaming {
		return RawFrame{}, ErrNotStarted
	}

	err := c.cam.WaitForFrame(uint32(c.opts.timeout().Seconds() + 0.5))
	if err != nil {
		var timeout *webcam.Timeout
		if errors.As(err, &timeout) {
			return RawFrame{}, ErrFrameTimeout
		}
		return RawFrame{}, err
	}
	data, err := c.cam.ReadFrame()
	if err != nil {
		return RawFrame{}, err
	}
	if len(data) == 0 {
		return RawFrame{}, ErrFrameTimeout
	}

	return RawFrame{Data: data, Format: c.pixel, Width: c.width, Height: c.height}, nil
}

func (c *WebcamDevice) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.cam == nil {
		return nil
	}
	if c.streaming {
		if err := c.cam.StopStreaming(); err != nil {
			logger.Warnf("webcam %s stop streaming: %s", c.devName, err)
		}
		c.streaming = false
	}
	err := c.cam.Close()
	c.cam = nil
	logger.Infof("webcam %s closed", c.devName)

	return err
}
