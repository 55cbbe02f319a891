package handoff

import (
	"sync"

	"camview/pkg/frame"
)

// Queue is an unbounded FIFO. A consumer slower than the camera lets it
// grow without limit; Len exposes the backlog.
type Queue struct {
	mu     sync.Mutex
	items  []frame.Buffer
	head   int
	closed bool
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Send(b frame.Buffer) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.items = append(q.items, b)

	return nil
}

func (q *Queue) TryRecv() (frame.Buffer, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head == len(q.items) {
		return frame.Buffer{}, false
	}
	b := q.items[q.head]
	q.items[q.head] = frame.Buffer{}
	q.head++
	switch {
	case q.head == len(q.items):
		// fully drained: reuse the backing array
		q.items = q.items[:0]
		q.head = 0
	case q.head > len(q.items)/2:
		// a standing backlog never drains, slide it down
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}

	return b, true
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

func (q *Queue) Dropped() uint64 {
	return 0
}

func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.items = nil
	q.head = 0
}
