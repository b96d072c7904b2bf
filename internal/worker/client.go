package worker

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.abhg.dev/hilite/internal/protocol"
)

// Topic on which responses are broadcast to listeners.
const _responseTopic = "highlight.responses"

// Transport carries requests to a highlight worker
// and brings its responses back.
type Transport interface {
	// Post sends a request to the worker.
	// It should not wait for the response.
	Post(protocol.Request) error

	// Recv blocks until the next response is available.
	// It returns io.EOF once the transport has been closed.
	Recv() (protocol.Response, error)

	// Close stops the transport.
	Close() error
}

// Client is a handle to a highlight worker.
// It is safe for concurrent use.
//
// All listeners see all responses.
type Client struct {
	transport Transport
	log       *log.Logger
	pubsub    *gochannel.GoChannel

	closeOnce sync.Once
	closeErr  error
	done      chan struct{} // closed when receive returns
}

// NewClient builds a Client that talks to a worker over the given transport.
// The Client owns the transport: closing the Client closes the transport.
//
// logger may be nil to discard log output.
func NewClient(t Transport, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	c := &Client{
		transport: t,
		log:       logger,
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			newLoggerAdapter(logger),
		),
		done: make(chan struct{}),
	}
	go c.receive()
	return c
}

// receive pumps responses from the transport onto the shared channel.
func (c *Client) receive() {
	defer close(c.done)

	for {
		res, err := c.transport.Recv()
		if errors.Is(err, protocol.ErrMalformed) {
			c.log.Printf("highlight worker: skip response: %v", err)
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.log.Printf("highlight worker: %v", err)
			}
			return
		}

		payload, err := protocol.Marshal(res)
		if err != nil {
			c.log.Printf("highlight worker: encode response %q: %v", res.ID, err)
			continue
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)
		if err := c.pubsub.Publish(_responseTopic, msg); err != nil {
			c.log.Printf("highlight worker: broadcast response %q: %v", res.ID, err)
			return
		}
	}
}

// Send dispatches a request to the worker.
//
// Send does not wait for the response, and it does not report failures:
// a request that is lost is indistinguishable from one
// that the worker never answered.
// Failures are logged.
func (c *Client) Send(req protocol.Request) {
	if err := c.transport.Post(req); err != nil {
		c.log.Printf("highlight worker: send %q: %v", req.ID, err)
	}
}

// Subscribe registers a function that will be called
// with every response received from the worker,
// until the returned unsubscribe function is called.
//
// The listener is registered by the time Subscribe returns,
// so it will see responses to requests sent afterwards.
// Calls to a single listener are serialized.
// unsubscribe may be called more than once,
// including from inside the listener.
func (c *Client) Subscribe(fn func(protocol.Response)) (unsubscribe func()) {
	ctx, cancel := context.WithCancel(context.Background())
	msgs, err := c.pubsub.Subscribe(ctx, _responseTopic)
	if err != nil {
		cancel()
		c.log.Printf("highlight worker: subscribe: %v", err)
		return func() {}
	}

	go func() {
		for msg := range msgs {
			var res protocol.Response
			if err := protocol.Unmarshal(msg.Payload, &res); err != nil {
				c.log.Printf("highlight worker: decode response: %v", err)
			} else if ctx.Err() == nil {
				fn(res)
			}
			msg.Ack()
		}
	}()

	var once sync.Once
	return func() { once.Do(cancel) }
}

// Close shuts down the transport and detaches all listeners.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		err := c.transport.Close()
		<-c.done
		c.closeErr = errors.Join(err, c.pubsub.Close())
	})
	return c.closeErr
}
