// Package display samples the hand-off channel at a fixed rate and keeps
// the last frame it saw for the GUI to draw.
package display

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"camview/pkg/frame"
	"camview/pkg/handoff"
	"camview/pkg/utils"
)

const DefaultFPS = 30

var logger *zap.SugaredLogger

func init() {
	logger = utils.GetLogger().Named("display")
}

type State int32

const (
	Running State = iota
	ShuttingDown
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting-down"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Joiner waits for the capture worker to exit.
type Joiner interface {
	Join() error
}

type Stats struct {
	State     string `json:"state"`
	Ticks     uint64 `json:"ticks"`
	NewFrames uint64 `json:"newFrames"`
	Stale     uint64 `json:"stale"`
	Rejected  uint64 `json:"rejected"`
	Panics    uint64 `json:"panics"`
	LastSeq   uint64 `json:"lastSeq"`
	Backlog   int    `json:"backlog"`
	Dropped   uint64 `json:"dropped"`
}

type options struct {
	fps           int
	width, height int
}

type Option func(*options)

// WithFPS sets the redraw rate. Values <= 0 fall back to DefaultFPS.
func WithFPS(fps int) Option {
	return func(o *options) {
		if fps <= 0 {
			fps = DefaultFPS
		}
		o.fps = fps
	}
}

// WithCanvas sets the size of the kept frame. It has to match the size
// the capture worker decodes to.
func WithCanvas(width, height int) Option {
	return func(o *options) {
		o.width, o.height = width, height
	}
}

// Driver is the GUI side of the pipeline. Render must be called from a
// single goroutine.
type Driver struct {
	rx     handoff.Receiver
	stop   *handoff.Signal
	worker Joiner
	opts   options

	frame *Property
	ref   *propertyRef

	timerLock sync.Mutex
	timer     *Timer

	lastLock sync.Mutex
	last     frame.Buffer
	lastImg  *image.RGBA

	state     atomic.Int32
	closeOnce sync.Once
	closeErr  error

	ticks     atomic.Uint64
	newFrames atomic.Uint64
	stale     atomic.Uint64
	rejected  atomic.Uint64
	panics    atomic.Uint64
}

func NewDriver(rx handoff.Receiver, stop *handoff.Signal, worker Joiner, opts ...Option) *Driver {
	o := options{fps: DefaultFPS, width: frame.CanvasWidth, height: frame.CanvasHeight}
	for _, opt := range opts {
		opt(&o)
	}

	d := &Driver{
		rx:     rx,
		stop:   stop,
		worker: worker,
		opts:   o,
		frame:  &Property{},
		last:   frame.Blank(o.width, o.height),
	}
	d.ref = newPropertyRef(d.frame)
	d.lastImg = d.last.Image()
	d.state.Store(int32(Running))

	return d
}

// Frame returns the counter the redraw timer increments.
func (d *Driver) Frame() *Property {
	return d.frame
}

// StartTimer starts the redraw timer. Later calls return the same Timer.
func (d *Driver) StartTimer() *Timer {
	d.timerLock.Lock()
	defer d.timerLock.Unlock()
	if d.timer == nil {
		period := time.Second / time.Duration(d.opts.fps)
		d.timer = startTimer(d.ref, period)
		logger.Debugf("redraw timer started, period %s", period)
	}
	return d.timer
}

// Render takes at most one frame off the channel without blocking and
// returns the last frame received as an image. A panic on this path is
// logged and the previous image is returned instead.
func (d *Driver) Render(tick int) (img image.Image) {
	d.lastLock.Lock()
	defer d.lastLock.Unlock()

	fallback := d.lastImg
	defer func() {
		if r := recover(); r != nil {
			d.panics.Add(1)
			logger.Errorf("render tick %d: recovered: %v", tick, r)
			img = fallback
		}
	}()

	d.ticks.Add(1)
	b, ok := d.rx.TryRecv()
	switch {
	case !ok:
		d.stale.Add(1)
	case b.Valid() && b.Width == d.opts.width && b.Height == d.opts.height:
		d.last = b
		d.lastImg = b.Image()
		d.newFrames.Add(1)
	default:
		d.rejected.Add(1)
		logger.Warnf("render tick %d: drop %dx%d frame with %d bytes", tick, b.Width, b.Height, len(b.Pix))
	}

	return d.lastImg
}

// LastFrame returns the last frame received. The caller must not modify Pix.
func (d *Driver) LastFrame() frame.Buffer {
	d.lastLock.Lock()
	defer d.lastLock.Unlock()
	return d.last
}

func (d *Driver) State() State {
	return State(d.state.Load())
}

// Close shuts the pipeline down: it fires the shutdown signal, stops the
// timer, waits for the worker to release the camera and closes the
// channel. Every call returns the worker's outcome.
func (d *Driver) Close() error {
	d.closeOnce.Do(func() {
		d.state.Store(int32(ShuttingDown))
		if d.stop.Fire() {
			logger.Info("shutdown signalled")
		}

		d.timerLock.Lock()
		if d.timer != nil {
			d.timer.Stop()
		}
		d.timerLock.Unlock()
		d.ref.release()

		if d.worker != nil {
			d.closeErr = d.worker.Join()
		}
		d.rx.Close()

		d.state.Store(int32(Terminated))
		logger.Info("display terminated")
	})
	return d.closeErr
}

func (d *Driver) Stats() Stats {
	d.lastLock.Lock()
	lastSeq := d.last.Seq
	d.lastLock.Unlock()

	return Stats{
		State:     d.State().String(),
		Ticks:     d.ticks.Load(),
		NewFrames: d.newFrames.Load(),
		Stale:     d.stale.Load(),
		Rejected:  d.rejected.Load(),
		Panics:    d.panics.Load(),
		LastSeq:   lastSeq,
		Backlog:   d.rx.Len(),
		Dropped:   d.rx.Dropped(),
	}
}
