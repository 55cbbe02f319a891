package capture

import (
	"time"

	"camview/pkg/camera"
	"camview/pkg/frame"
)

const (
	DefaultInterval             = 10 * time.Millisecond
	DefaultMaxConsecutiveErrors = 30

	statsLogInterval = 5 * time.Second
)

type options struct {
	index    int
	request  camera.FormatRequest
	interval time.Duration
	policy   Policy
	maxErrs  int
	width    int
	height   int
}

func defaultOptions() options {
	return options{
		request:  camera.DefaultRequest(),
		interval: DefaultInterval,
		policy:   PolicySkip,
		maxErrs:  DefaultMaxConsecutiveErrors,
		width:    frame.CanvasWidth,
		height:   frame.CanvasHeight,
	}
}

type Option func(*options)

// WithDevice selects the camera index passed to the Opener.
func WithDevice(index int) Option {
	return func(o *options) {
		o.index = index
	}
}

func WithRequest(req camera.FormatRequest) Option {
	return func(o *options) {
		o.request = req
	}
}

// WithInterval sets the pause between iterations. Values below zero are
// treated as zero.
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		if d < 0 {
			d = 0
		}
		o.interval = d
	}
}

func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithMaxConsecutiveErrors bounds back-to-back frame errors under
// PolicySkip. n <= 0 removes the bound.
func WithMaxConsecutiveErrors(n int) Option {
	return func(o *options) {
		o.maxErrs = n
	}
}

// WithCanvas sets the size every frame is decoded to.
func WithCanvas(width, height int) Option {
	return func(o *options) {
		o.width, o.height = width, height
	}
}
