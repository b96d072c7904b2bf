package main

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.abhg.dev/hilite/internal/iotest"
	"go.abhg.dev/hilite/internal/protocol"
	"go.abhg.dev/hilite/internal/worker"
)

func TestMainCmd_stdio(t *testing.T) {
	t.Parallel()

	var in bytes.Buffer
	enc := protocol.NewEncoder(&in)
	require.NoError(t, enc.Encode(protocol.NewRequest("highlight:0", "package main", []string{"go"})))
	require.NoError(t, enc.Encode(protocol.Request{Action: "noop", ID: "highlight:1"}))

	var out bytes.Buffer
	exitCode := (&mainCmd{
		Stdin:  &in,
		Stdout: &out,
		Stderr: iotest.Writer(t),
	}).Run(context.Background(), nil)
	require.Zero(t, exitCode, "expected success")

	var res protocol.Response
	dec := protocol.NewDecoder(&out)
	require.NoError(t, dec.Decode(&res))
	assert.Equal(t, "highlight:0", res.ID)
	assert.Equal(t, "go", res.Language)
	assert.Contains(t, res.Value, "package")

	// The unknown action gets no response.
	assert.Error(t, dec.Decode(&res))
}

func TestMainCmd_unknownStyle(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	exitCode := (&mainCmd{
		Stdin:  strings.NewReader(""),
		Stdout: iotest.Writer(t),
		Stderr: &stderr,
	}).Run(context.Background(), []string{"-style", "nope"})
	assert.NotZero(t, exitCode)
	assert.Contains(t, stderr.String(), `unknown style "nope"`)
}

func TestMainCmd_help(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	exitCode := (&mainCmd{
		Stdout: iotest.Writer(t),
		Stderr: &stderr,
	}).Run(context.Background(), []string{"-h"})
	assert.Zero(t, exitCode)
	assert.Contains(t, stderr.String(), "USAGE: hilite-worker")
}

func TestMainCmd_listen(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrc := make(chan net.Addr, 1)
	done := make(chan int, 1)
	go func() {
		done <- (&mainCmd{
			Stdout: iotest.Writer(t),
			Stderr: iotest.Writer(t),
			ready:  func(addr net.Addr) { addrc <- addr },
		}).Run(ctx, []string{"-listen", "127.0.0.1:0"})
	}()

	var addr net.Addr
	select {
	case addr = <-addrc:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	conn, err := worker.Dial(ctx, "ws://"+addr.String())
	require.NoError(t, err)
	c := worker.NewClient(conn, iotest.Logger(t))

	responses := make(chan protocol.Response, 1)
	unsubscribe := c.Subscribe(func(res protocol.Response) {
		responses <- res
	})
	c.Send(protocol.NewRequest("highlight:7", "x := 1", []string{"go"}))

	select {
	case res := <-responses:
		assert.Equal(t, "highlight:7", res.ID)
		assert.Equal(t, "go", res.Language)
	case <-time.After(5 * time.Second):
		t.Fatal("no response")
	}
	unsubscribe()
	require.NoError(t, c.Close())

	cancel()
	select {
	case exitCode := <-done:
		assert.Zero(t, exitCode)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}
