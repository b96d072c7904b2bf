package orchestrate

import (
	"sync"

	"go.abhg.dev/hilite/internal/protocol"
)

// fakeWorker is a Worker controlled by the test.
type fakeWorker struct {
	// OnSend, if set, is called after each request is recorded.
	OnSend func(protocol.Request)

	mu        sync.Mutex
	requests  []protocol.Request
	listeners map[int]func(protocol.Response)
	nextID    int
}

var _ Worker = (*fakeWorker)(nil)

func (f *fakeWorker) Send(req protocol.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	onSend := f.OnSend
	f.mu.Unlock()

	if onSend != nil {
		onSend(req)
	}
}

func (f *fakeWorker) Subscribe(fn func(protocol.Response)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listeners == nil {
		f.listeners = make(map[int]func(protocol.Response))
	}
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
	}
}

// Respond delivers a response to every current listener.
func (f *fakeWorker) Respond(res protocol.Response) {
	f.mu.Lock()
	listeners := make([]func(protocol.Response), 0, len(f.listeners))
	for _, fn := range f.listeners {
		listeners = append(listeners, fn)
	}
	f.mu.Unlock()

	for _, fn := range listeners {
		fn(res)
	}
}

func (f *fakeWorker) Requests() []protocol.Request {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]protocol.Request(nil), f.requests...)
}

func (f *fakeWorker) NumListeners() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.listeners)
}

// echo answers every request immediately, wrapping its code in <b>.
func (f *fakeWorker) echo(language string) *fakeWorker {
	f.OnSend = func(req protocol.Request) {
		f.Respond(protocol.Response{
			ID:       req.ID,
			Language: language,
			Value:    "<b>" + req.Code + "</b>",
		})
	}
	return f
}
