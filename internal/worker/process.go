package worker

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/exec"
	"sync"

	"braces.dev/errtrace"
	"go.abhg.dev/hilite/internal/linebuf"
	"go.abhg.dev/hilite/internal/protocol"
)

// DefaultWorkerCommand is the name of the stand-alone worker executable.
const DefaultWorkerCommand = "hilite-worker"

// Process is a [Transport] to a worker running as a child process.
// Requests are written to the child's stdin and responses are read
// from its stdout, one JSON message per line.
// Whatever the child writes to stderr is logged.
type Process struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	enc   *protocol.Encoder
	dec   *protocol.Decoder

	stdout      *io.PipeWriter
	flushStderr func()

	closeOnce sync.Once
	closeErr  error
}

var _ Transport = (*Process)(nil)

// ProcessConfig specifies how to start a worker process.
type ProcessConfig struct {
	// Path to the worker executable.
	// If unset, DefaultWorkerCommand is searched for on $PATH.
	Command string

	// Args to pass to the worker.
	Args []string

	// Env holds additional environment variables for the worker
	// in the form "key=value".
	Env []string

	// Log receives the worker's stderr.
	Log *log.Logger
}

// StartProcess starts a worker process.
// The process is killed if ctx is cancelled.
func StartProcess(ctx context.Context, cfg ProcessConfig) (*Process, error) {
	logger := cfg.Log
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	exe := cfg.Command
	if exe == "" {
		exe = DefaultWorkerCommand
	}

	stderr, flushStderr := linebuf.Writer(func(line []byte) {
		logger.Printf("%s: %s", exe, bytes.TrimSuffix(line, []byte{'\n'}))
	})

	pr, pw := io.Pipe()
	cmd := exec.CommandContext(ctx, exe, cfg.Args...)
	cmd.Stdout = pw
	if len(cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), cfg.Env...)
	}
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errtrace.Errorf("start %v: %w", exe, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, errtrace.Errorf("start %v: %w", exe, err)
	}

	return &Process{
		cmd:    cmd,
		stdin:  stdin,
		enc:    protocol.NewEncoder(stdin),
		dec:    protocol.NewDecoder(pr),
		stdout: pw,

		flushStderr: flushStderr,
	}, nil
}

// Post writes a request to the worker's stdin.
func (p *Process) Post(req protocol.Request) error {
	return errtrace.Wrap(p.enc.Encode(req))
}

// Recv reads the next response from the worker's stdout.
// It returns io.EOF once the worker has exited.
func (p *Process) Recv() (protocol.Response, error) {
	var res protocol.Response
	if err := p.dec.Decode(&res); err != nil {
		if errors.Is(err, io.EOF) {
			return res, io.EOF
		}
		return res, errtrace.Wrap(err)
	}
	return res, nil
}

// Close closes the worker's stdin and waits for it to exit.
func (p *Process) Close() error {
	p.closeOnce.Do(func() {
		err := p.stdin.Close()
		err = errors.Join(err, p.cmd.Wait())
		p.stdout.Close()
		p.flushStderr()
		p.closeErr = errtrace.Wrap(err)
	})
	return p.closeErr
}
