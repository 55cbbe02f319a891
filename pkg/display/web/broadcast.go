package web

import "sync"

// broadcaster fans encoded frames out to stream clients. Every client has
// a one-slot mailbox, a slow client only ever misses frames.
type broadcaster struct {
	lock    sync.Mutex
	clients map[chan []byte]struct{}
	closed  bool
}

func newBroadcaster() *broadcaster {
	return &broadcaster{clients: make(map[chan []byte]struct{})}
}

// subscribe registers a client. ok is false once the broadcaster is closed.
func (b *broadcaster) subscribe() (ch chan []byte, ok bool) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.closed {
		return nil, false
	}
	ch = make(chan []byte, 1)
	b.clients[ch] = struct{}{}
	return ch, true
}

func (b *broadcaster) unsubscribe(ch chan []byte) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if _, ok := b.clients[ch]; ok {
		delete(b.clients, ch)
		close(ch)
	}
}

func (b *broadcaster) count() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.clients)
}

func (b *broadcaster) publish(data []byte) {
	b.lock.Lock()
	defer b.lock.Unlock()
	for ch := range b.clients {
		select {
		case ch <- data:
			continue
		default:
		}
		// replace the unread frame
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- data:
		default:
		}
	}
}

// close ends every stream.
func (b *broadcaster) close() {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.clients {
		delete(b.clients, ch)
		close(ch)
	}
}
