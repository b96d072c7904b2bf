package worker

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"braces.dev/errtrace"
	"github.com/coder/websocket"
	"go.abhg.dev/hilite/internal/protocol"
)

// Largest message accepted over a websocket.
const _maxMessageSize = 16 << 20

// Conn is a [Transport] to a remote worker over a websocket.
// Each request and each response is a single JSON text message.
type Conn struct {
	conn   *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool
}

var _ Transport = (*Conn)(nil)

// Dial connects to a worker served by [Server] at the given URL.
// ctx bounds only the connection handshake.
func Dial(ctx context.Context, url string) (*Conn, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, errtrace.Errorf("dial %v: %w", url, err)
	}
	conn.SetReadLimit(_maxMessageSize)

	connCtx, cancel := context.WithCancel(context.Background())
	return &Conn{
		conn:   conn,
		ctx:    connCtx,
		cancel: cancel,
	}, nil
}

// Post sends a request message.
func (c *Conn) Post(req protocol.Request) error {
	if c.closed.Load() {
		return ErrClosed
	}

	bs, err := protocol.Marshal(req)
	if err != nil {
		return errtrace.Wrap(err)
	}
	return errtrace.Wrap(c.conn.Write(c.ctx, websocket.MessageText, bs))
}

// Recv reads the next response message.
// It returns io.EOF once the connection has been closed by either side.
// A message that can't be decoded fails with [protocol.ErrMalformed]
// and leaves the connection usable.
func (c *Conn) Recv() (protocol.Response, error) {
	var res protocol.Response

	_, bs, err := c.conn.Read(c.ctx)
	if err != nil {
		if c.closed.Load() || websocket.CloseStatus(err) == websocket.StatusNormalClosure {
			return res, io.EOF
		}
		return res, errtrace.Wrap(err)
	}

	return res, errtrace.Wrap(protocol.Unmarshal(bs, &res))
}

// Close closes the connection.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	defer c.cancel()

	err := c.conn.Close(websocket.StatusNormalClosure, "")
	if err != nil && !errors.Is(err, context.Canceled) && websocket.CloseStatus(err) == -1 {
		return errtrace.Wrap(err)
	}
	return nil
}
