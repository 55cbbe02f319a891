package display

import (
	"sync"
	"time"
)

// Timer bumps the frame counter at a fixed period. It only holds a
// releasable reference to the counter, so it never keeps a closed
// window's state alive.
type Timer struct {
	ref    *propertyRef
	ticker *time.Ticker

	stopOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
}

func startTimer(ref *propertyRef, period time.Duration) *Timer {
	t := &Timer{
		ref:    ref,
		ticker: time.NewTicker(period),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go t.loop()
	return t
}

func (t *Timer) loop() {
	defer close(t.done)
	defer t.ticker.Stop()
	for {
		select {
		case <-t.quit:
			return
		case <-t.ticker.C:
			if !t.tick() {
				logger.Debug("frame counter released, timer stopped")
				return
			}
		}
	}
}

// tick increments the counter. It reports false when the counter is gone.
func (t *Timer) tick() bool {
	p := t.ref.get()
	if p == nil {
		return false
	}
	p.Inc()
	return true
}

// Stop stops the timer. It does not wait for a tick in progress, so it
// is safe to call from a counter listener.
func (t *Timer) Stop() {
	t.stopOnce.Do(func() {
		close(t.quit)
	})
}

// Done is closed once the timer goroutine has exited.
func (t *Timer) Done() <-chan struct{} {
	return t.done
}
