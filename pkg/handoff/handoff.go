// Package handoff moves decoded frames from the capture worker to the
// display driver without ever blocking either side.
package handoff

import (
	"errors"
	"fmt"

	"camview/pkg/frame"
)

var (
	ErrClosed = errors.New("handoff: receiver closed")
)

type Mode string

const (
	// ModeFIFO keeps every frame in capture order; the display drains
	// one per tick.
	ModeFIFO Mode = "fifo"
	// ModeLatest keeps a single slot that each new frame overwrites.
	ModeLatest Mode = "latest"
)

// Sender is the capture side of the channel.
type Sender interface {
	// Send never blocks. It fails with ErrClosed once the receiver is gone.
	Send(b frame.Buffer) error
}

// Receiver is the display side of the channel. It is used from one
// goroutine only.
type Receiver interface {
	// TryRecv returns the next pending frame, or false if none is waiting.
	TryRecv() (frame.Buffer, bool)
	// Len is the number of frames waiting.
	Len() int
	// Dropped counts frames superseded before they were received.
	Dropped() uint64
	// Close drops pending frames and makes further Sends fail.
	Close()
}

// Channel is both ends of a hand-off channel.
type Channel interface {
	Sender
	Receiver
}

// New returns the channel implementation for mode.
func New(mode Mode) (Channel, error) {
	switch mode {
	case ModeFIFO:
		return NewQueue(), nil
	case ModeLatest, "":
		return NewMailbox(), nil
	default:
		return nil, fmt.Errorf("handoff: unknown mode %q", mode)
	}
}
