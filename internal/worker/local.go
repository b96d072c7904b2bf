package worker

import (
	"errors"
	"io"
	"log"
	"sync"

	"go.abhg.dev/hilite/internal/protocol"
)

// ErrClosed is returned when a request is posted to a closed transport.
var ErrClosed = errors.New("transport is closed")

// Local is a [Transport] that highlights code in-process.
// Each request is handled on its own goroutine,
// so responses may arrive in any order.
//
// The zero value is not usable: Highlighter must be set.
type Local struct {
	// Highlighter does the actual work.
	Highlighter Highlighter // required

	// Log receives diagnostics about failed requests.
	Log *log.Logger

	once   sync.Once
	out    chan protocol.Response
	closed chan struct{}

	mu       sync.Mutex // guards isClosed and wg.Add
	isClosed bool
	wg       sync.WaitGroup
}

var _ Transport = (*Local)(nil)

func (l *Local) init() {
	l.once.Do(func() {
		if l.Log == nil {
			l.Log = log.New(io.Discard, "", 0)
		}
		l.out = make(chan protocol.Response)
		l.closed = make(chan struct{})
	})
}

// Post starts highlighting a request in the background.
func (l *Local) Post(req protocol.Request) error {
	l.init()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.isClosed {
		return ErrClosed
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		res, ok := respond(l.Highlighter, l.Log, req)
		if !ok {
			return
		}

		select {
		case l.out <- res:
		case <-l.closed:
		}
	}()
	return nil
}

// Recv returns the next finished response.
func (l *Local) Recv() (protocol.Response, error) {
	l.init()

	select {
	case res := <-l.out:
		return res, nil
	case <-l.closed:
		return protocol.Response{}, io.EOF
	}
}

// Close stops accepting requests
// and waits for in-flight requests to be abandoned.
func (l *Local) Close() error {
	l.init()

	l.mu.Lock()
	if !l.isClosed {
		l.isClosed = true
		close(l.closed)
	}
	l.mu.Unlock()

	l.wg.Wait()
	return nil
}
