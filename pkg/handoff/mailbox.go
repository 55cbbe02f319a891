package handoff

import (
	"sync"
	"sync/atomic"

	"camview/pkg/frame"
)

// Mailbox is a single-slot channel: a new frame replaces an unread one.
// Memory is capped at one frame and the receiver always gets the newest.
type Mailbox struct {
	mu     sync.Mutex
	slot   frame.Buffer
	full   bool
	closed bool

	dropped atomic.Uint64
}

func NewMailbox() *Mailbox {
	return &Mailbox{}
}

func (m *Mailbox) Send(b frame.Buffer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.full {
		m.dropped.Add(1)
	}
	m.slot = b
	m.full = true

	return nil
}

func (m *Mailbox) TryRecv() (frame.Buffer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.full {
		return frame.Buffer{}, false
	}
	b := m.slot
	m.slot = frame.Buffer{}
	m.full = false

	return b, true
}

func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.full {
		return 1
	}
	return 0
}

func (m *Mailbox) Dropped() uint64 {
	return m.dropped.Load()
}

func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.slot = frame.Buffer{}
	m.full = false
}
