package orchestrate

import (
	"sync"
	"time"
)

// pending holds what a dispatched unit is waiting on:
// a response listener and a timer.
type pending struct {
	unsubscribe func()
	timer       *time.Timer
}

// stop releases the listener and the timer.
func (p *pending) stop() {
	p.timer.Stop()
	p.unsubscribe()
}

// registry maps correlation IDs to units that are in flight.
//
// A unit resolves when it is taken out of the registry.
// Only the first of its response or its timeout can do that.
type registry struct {
	mu    sync.Mutex
	items map[string]*pending
}

func newRegistry() *registry {
	return &registry{items: make(map[string]*pending)}
}

// add registers a unit under id.
// arm is called with the registry locked,
// so the unit can't be taken before arm has filled in its timer.
func (r *registry) add(id string, p *pending, arm func() *time.Timer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.timer = arm()
	r.items[id] = p
}

// take removes the unit registered under id and returns it,
// or returns nil if there is no such unit.
func (r *registry) take(id string) *pending {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return nil
	}
	delete(r.items, id)
	return p
}
