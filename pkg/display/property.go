package display

import (
	"sync"
	"sync/atomic"
)

// Property is a bindable integer. Listeners run on the goroutine that
// changed the value, in registration order.
type Property struct {
	mu        sync.Mutex
	val       int
	listeners []func(int)
}

func (p *Property) Get() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.val
}

// Inc adds one and notifies listeners with the new value.
func (p *Property) Inc() int {
	p.mu.Lock()
	p.val++
	v := p.val
	ls := p.listeners
	p.mu.Unlock()

	for _, l := range ls {
		l(v)
	}
	return v
}

// AddListener registers fn for every later change.
func (p *Property) AddListener(fn func(int)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// copy on write, Inc iterates a snapshot
	ls := make([]func(int), len(p.listeners), len(p.listeners)+1)
	copy(ls, p.listeners)
	p.listeners = append(ls, fn)
}

// propertyRef is a releasable reference to a Property. Once released it
// resolves to nil and the holder must treat the target as gone.
type propertyRef struct {
	p atomic.Pointer[Property]
}

func newPropertyRef(p *Property) *propertyRef {
	r := &propertyRef{}
	r.p.Store(p)
	return r
}

func (r *propertyRef) get() *Property {
	return r.p.Load()
}

func (r *propertyRef) release() {
	r.p.Store(nil)
}
