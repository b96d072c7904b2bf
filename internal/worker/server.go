package worker

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"braces.dev/errtrace"
	"github.com/coder/websocket"
	"go.abhg.dev/hilite/internal/protocol"
)

// Server is the worker side of the highlight protocol.
// It answers each highlight request with exactly one response
// carrying the same ID.
// Requests with other actions are logged and ignored.
//
// Server serves a single stream with [Server.Serve],
// or websocket connections as an [http.Handler].
type Server struct {
	// Highlighter does the actual work.
	Highlighter Highlighter // required

	// Log receives diagnostics.
	Log *log.Logger
}

var _ http.Handler = (*Server)(nil)

func (s *Server) logger() *log.Logger {
	if s.Log != nil {
		return s.Log
	}
	return log.New(io.Discard, "", 0)
}

// Serve reads requests from r and writes responses to w
// until r is exhausted or ctx is cancelled.
// Requests are handled one at a time, in order.
// Requests that can't be decoded are logged and skipped.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	logger := s.logger()
	dec := protocol.NewDecoder(r)
	enc := protocol.NewEncoder(w)

	for ctx.Err() == nil {
		var req protocol.Request
		if err := dec.Decode(&req); err != nil {
			switch {
			case errors.Is(err, io.EOF):
				return nil
			case errors.Is(err, protocol.ErrMalformed):
				logger.Printf("skip request: %v", err)
				continue
			}
			return errtrace.Wrap(err)
		}

		res, ok := respond(s.Highlighter, logger, req)
		if !ok {
			continue
		}
		if err := enc.Encode(res); err != nil {
			return errtrace.Wrap(err)
		}
	}
	return errtrace.Wrap(ctx.Err())
}

// ServeHTTP upgrades the request to a websocket
// and serves the highlight protocol over it.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := s.logger()

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		logger.Printf("accept websocket: %v", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(_maxMessageSize)

	ctx := r.Context()
	for {
		_, bs, err := conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				logger.Printf("read request: %v", err)
			}
			return
		}

		var req protocol.Request
		if err := protocol.Unmarshal(bs, &req); err != nil {
			logger.Printf("decode request: %v", err)
			continue
		}

		res, ok := respond(s.Highlighter, logger, req)
		if !ok {
			continue
		}

		out, err := protocol.Marshal(res)
		if err != nil {
			logger.Printf("encode response %q: %v", res.ID, err)
			continue
		}
		if err := conn.Write(ctx, websocket.MessageText, out); err != nil {
			logger.Printf("write response %q: %v", res.ID, err)
			return
		}
	}
}
