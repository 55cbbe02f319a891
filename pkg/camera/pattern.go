package camera

import (
	"encoding/binary"
	"sync"
	"time"
)

// PatternDevice produces a moving RGBA test pattern without hardware.
// The first four bytes of each frame carry the frame counter, big endian,
// so consumers can tell frames apart.
type PatternDevice struct {
	width, height int
	delay         time.Duration

	lock    sync.Mutex
	started bool
	closed  bool
	count   uint32
}

// PatternOpener returns an Opener for synthetic frames at the requested
// size. delay is slept before each frame to emulate a camera's pace.
func PatternOpener(delay time.Duration) Opener {
	return func(_ int, req FormatRequest) (Device, error) {
		return OpenPattern(req, delay), nil
	}
}

func OpenPattern(req FormatRequest, delay time.Duration) *PatternDevice {
	w, h := req.Width, req.Height
	if w <= 0 || h <= 0 {
		w, h = DefaultWidth, DefaultHeight
	}
	return &PatternDevice{width: w, height: h, delay: delay}
}

func (p *PatternDevice) StartStream() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.started {
		return StartedErr
	}
	p.started = true
	return nil
}

func (p *PatternDevice) NextFrame() (RawFrame, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.closed {
		return RawFrame{}, ErrDeviceGone
	}
	if !p.started {
		return RawFrame{}, ErrNotStarted
	}
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	p.count++

	stride := p.width * 4
	data := make([]byte, stride*p.height)
	// a vertical bar sweeping across horizontal gradients
	bar := int(p.count*8) % p.width
	for y := 0; y < p.height; y++ {
		row := data[y*stride : (y+1)*stride]
		for x := 0; x < p.width; x++ {
			i := x * 4
			row[i] = byte(x * 255 / p.width)
			row[i+1] = byte(y * 255 / p.height)
			row[i+2] = byte(p.count)
			if x >= bar && x < bar+8 {
				row[i], row[i+1], row[i+2] = 255, 255, 255
			}
			row[i+3] = 255
		}
	}
	binary.BigEndian.PutUint32(data[:4], p.count)

	return RawFrame{Data: data, Format: RGBA, Width: p.width, Height: p.height, Stride: stride}, nil
}

func (p *PatternDevice) Close() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.closed = true
	return nil
}

// PatternCount extracts the counter written by PatternDevice.
func PatternCount(data []byte) uint32 {
	if len(data) < 4 {
		return 0
	}
	return binary.BigEndian.Uint32(data[:4])
}
