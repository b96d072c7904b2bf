package worker

import (
	"sync"

	"go.abhg.dev/hilite/internal/highlight"
)

var _default struct {
	once   sync.Once
	client *Client
}

// Default returns a process-wide Client backed by an in-process worker.
// It is created on first use and lives until the program exits.
func Default() *Client {
	_default.once.Do(func() {
		_default.client = NewClient(&Local{
			Highlighter: &highlight.Highlighter{UseClasses: true},
		}, nil)
	})
	return _default.client
}
