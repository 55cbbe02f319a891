// Package capture runs the goroutine that owns the camera and feeds
// decoded frames into the hand-off channel.
package capture

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"camview/pkg/camera"
	"camview/pkg/decode"
	"camview/pkg/handoff"
	"camview/pkg/utils"
)

var logger *zap.SugaredLogger

func init() {
	logger = utils.GetLogger().Named("capture")
}

// Stats is a snapshot of the worker counters.
type Stats struct {
	Captured    uint64        `json:"captured"`
	Skipped     uint64        `json:"skipped"`
	FrameErrors uint64        `json:"frameErrors"`
	LastSeq     uint64        `json:"lastSeq"`
	AvgCapture  time.Duration `json:"avgCapture"`
	LastCapture time.Time     `json:"lastCapture"`
}

// Worker captures, decodes and sends frames until the shutdown signal
// fires or a fatal error occurs.
type Worker struct {
	open camera.Opener
	ch   handoff.Sender
	stop *handoff.Signal
	opts options

	startOnce sync.Once
	handle    *Handle

	captured     atomic.Uint64
	skipped      atomic.Uint64
	frameErrors  atomic.Uint64
	captureNanos atomic.Uint64
	sequence     atomic.Uint64
	lastCapture  atomic.Int64
}

func New(open camera.Opener, ch handoff.Sender, stop *handoff.Signal, opts ...Option) *Worker {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Worker{open: open, ch: ch, stop: stop, opts: o}
}

// Handle joins a running worker.
type Handle struct {
	done chan struct{}
	err  error
}

// Join blocks until the worker goroutine has returned and the camera is
// released, then reports why it stopped. nil means a clean shutdown.
func (h *Handle) Join() error {
	<-h.done
	return h.err
}

// Done is closed once the worker goroutine has returned.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Start spawns the worker goroutine. Later calls return the same Handle.
func (w *Worker) Start() *Handle {
	w.startOnce.Do(func() {
		h := &Handle{done: make(chan struct{})}
		w.handle = h
		go func() {
			defer close(h.done)
			h.err = w.run()
			if h.err != nil {
				logger.Errorf("worker stopped: %s", h.err)
			} else {
				logger.Info("worker stopped")
			}
		}()
	})
	return w.handle
}

func (w *Worker) Stats() Stats {
	captured := w.captured.Load()
	var avg time.Duration
	if captured > 0 {
		avg = time.Duration(w.captureNanos.Load() / captured)
	}
	var last time.Time
	if ns := w.lastCapture.Load(); ns != 0 {
		last = time.Unix(0, ns)
	}
	return Stats{
		Captured:    captured,
		Skipped:     w.skipped.Load(),
		FrameErrors: w.frameErrors.Load(),
		LastSeq:     w.sequence.Load(),
		AvgCapture:  avg,
		LastCapture: last,
	}
}

func (w *Worker) run() error {
	dev, err := w.open(w.opts.index, w.opts.request)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceOpen, err)
	}
	defer func() {
		if err := dev.Close(); err != nil {
			logger.Warnf("close camera: %s", err)
		}
	}()

	if err = dev.StartStream(); err != nil {
		return fmt.Errorf("%w: %w", ErrStreamStart, err)
	}
	logger.Infof("streaming, canvas %dx%d, policy %s", w.opts.width, w.opts.height, w.opts.policy)

	logTicker := time.NewTicker(statsLogInterval)
	defer logTicker.Stop()
	pause := time.NewTimer(w.opts.interval)
	defer pause.Stop()

	consecutive := 0
	for {
		if w.stop.Fired() {
			return nil
		}

		if err = w.step(dev); err != nil {
			if err = w.onFrameError(err, &consecutive); err != nil {
				return err
			}
		} else {
			consecutive = 0
		}

		select {
		case <-logTicker.C:
			w.logStats()
		default:
		}

		// sleep, waking early on shutdown
		pause.Reset(w.opts.interval)
		select {
		case <-w.stop.Done():
		case <-pause.C:
		}
	}
}

// step captures, decodes and sends one frame. Send failures come back
// wrapped in ErrChannel so the caller never retries them.
func (w *Worker) step(dev camera.Device) error {
	start := time.Now()
	raw, err := dev.NextFrame()
	if err != nil {
		return err
	}
	buf, err := decode.Decode(raw, w.opts.width, w.opts.height)
	if err != nil {
		return err
	}

	now := time.Now()
	buf.Seq = w.sequence.Add(1)
	buf.CapturedAt = now
	if err = w.ch.Send(buf); err != nil {
		return fmt.Errorf("%w: %w", ErrChannel, err)
	}

	w.captureNanos.Add(uint64(now.Sub(start).Nanoseconds()))
	w.captured.Add(1)
	w.lastCapture.Store(now.UnixNano())

	return nil
}

// onFrameError applies the error policy. A non-nil result ends the worker.
func (w *Worker) onFrameError(err error, consecutive *int) error {
	if KindOf(err) == KindChannel {
		return err
	}
	w.frameErrors.Add(1)

	if camera.IsDeviceLoss(err) {
		return fmt.Errorf("%w: %w", ErrDeviceLost, err)
	}
	if w.opts.policy == PolicyStop {
		return fmt.Errorf("%w: %w", ErrFrame, err)
	}

	*consecutive++
	w.skipped.Add(1)
	if w.opts.maxErrs > 0 && *consecutive >= w.opts.maxErrs {
		return fmt.Errorf("%w: %d consecutive frame errors, last: %w", ErrDeviceLost, *consecutive, err)
	}
	logger.Warnf("skip frame (%d in a row): %s", *consecutive, err)

	return nil
}

func (w *Worker) logStats() {
	s := w.Stats()
	logger.Debugf("captured %s frames, skipped %s, avg capture %s, last frame %s",
		humanize.Comma(int64(s.Captured)),
		humanize.Comma(int64(s.Skipped)),
		s.AvgCapture,
		humanize.Time(s.LastCapture),
	)
}
