package handoff

import "sync"

// Signal is a one-shot shutdown request. Fire may be called any number of
// times from any goroutine; only the first call has an effect.
type Signal struct {
	once sync.Once
	ch   chan struct{}
}

func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{})}
}

// Fire sends the signal. It reports whether this call was the one that
// fired it.
func (s *Signal) Fire() bool {
	fired := false
	s.once.Do(func() {
		close(s.ch)
		fired = true
	})
	return fired
}

// Fired polls the signal without blocking.
func (s *Signal) Fired() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}

// Done is closed once the signal has fired.
func (s *Signal) Done() <-chan struct{} {
	return s.ch
}
