// Package iotest routes IO and logs produced by code under test
// to the test's own log.
package iotest

import (
	"bytes"
	"io"
	"log"
	"testing"
)

var _newline = []byte("\n")

// Writer builds an io.Writer that writes to the given testing.TB.
// Each write is logged as a single message.
func Writer(t testing.TB) io.Writer {
	return &writer{t}
}

type writer struct{ t testing.TB }

func (w *writer) Write(b []byte) (int, error) {
	w.t.Logf("%s", bytes.TrimSuffix(b, _newline))
	return len(b), nil
}

// Logger builds a log.Logger that writes to the given testing.TB.
func Logger(t testing.TB) *log.Logger {
	return log.New(Writer(t), "", 0)
}
