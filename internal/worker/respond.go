package worker

import (
	"html"
	"log"

	"go.abhg.dev/hilite/internal/highlight"
	"go.abhg.dev/hilite/internal/protocol"
)

// Highlighter highlights code for a worker.
type Highlighter interface {
	Highlight(code string, languages []string) (*highlight.Result, error)
}

var _ Highlighter = (*highlight.Highlighter)(nil)

// respond builds the response to a single request.
// It reports false for requests that should not be answered.
//
// Code that fails to highlight is answered with the escaped code
// and no language, so that the requester isn't left waiting.
func respond(h Highlighter, logger *log.Logger, req protocol.Request) (protocol.Response, bool) {
	if req.Action != protocol.ActionHighlight {
		logger.Printf("ignoring request %q: unknown action %q", req.ID, req.Action)
		return protocol.Response{}, false
	}

	res, err := h.Highlight(req.Code, req.Languages)
	if err != nil {
		logger.Printf("highlight %q: %v", req.ID, err)
		return protocol.Response{
			ID:    req.ID,
			Value: html.EscapeString(req.Code),
		}, true
	}

	return protocol.Response{
		ID:       req.ID,
		Language: res.Language,
		Value:    res.HTML,
	}, true
}
