// hilite applies syntax highlighting to the code blocks of an HTML document.
//
// It finds <pre> blocks and <code class="highlight"> spans,
// has a highlight worker highlight each piece of code,
// and writes the document back out with the results applied.
// See 'hilite -h' for usage.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"

	"braces.dev/errtrace"
	"go.abhg.dev/hilite/internal/errdefer"
	"go.abhg.dev/hilite/internal/highlight"
	"go.abhg.dev/hilite/internal/orchestrate"
	"go.abhg.dev/hilite/internal/watch"
	"go.abhg.dev/hilite/internal/worker"
)

func main() {
	cmd := mainCmd{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	os.Exit(cmd.Run(os.Args[1:]))
}

// mainCmd is the actual entry point to the program.
type mainCmd struct {
	Stdin  io.Reader // == os.Stdin
	Stdout io.Writer // == os.Stdout
	Stderr io.Writer // == os.Stderr

	log *log.Logger
}

func (cmd *mainCmd) Run(args []string) (exitCode int) {
	cmd.log = log.New(cmd.Stderr, "", 0)

	opts, err := (&cliParser{
		Stdout: cmd.Stdout,
		Stderr: cmd.Stderr,
	}).Parse(args)
	if err != nil {
		// '$cmd -h' should exit with zero.
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		// No need to print anything.
		// Parse prints messages.
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.run(ctx, opts); err != nil {
		cmd.log.Printf("hilite: %v", err)
		return 1
	}
	return 0
}

func (cmd *mainCmd) run(ctx context.Context, opts *params) (err error) {
	debugLog, closeDebug, err := opts.Debug.Logger(cmd.Stderr)
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer errdefer.CloseFunc(&err, closeDebug)

	style, ok := highlight.LookupStyle(opts.Style)
	if !ok {
		return errtrace.Errorf("unknown style %q: see 'hilite -h=styles'", opts.Style)
	}

	client, owned, err := cmd.newClient(ctx, opts, debugLog)
	if err != nil {
		return errtrace.Wrap(err)
	}
	if owned {
		defer errdefer.Close(&err, client)
	}

	runner := Runner{
		Log: debugLog,
		Orchestrator: &orchestrate.Orchestrator{
			Worker:  client,
			Log:     cmd.log,
			Timeout: opts.Timeout,
		},
		Highlighter: &highlight.Highlighter{
			Style:      style,
			UseClasses: true,
		},
		Config: orchestrate.Config{
			NoHighlightCSS: opts.NoHighlightCSS,
		},
	}

	if !opts.Watch {
		return errtrace.Wrap(runner.RunFiles(opts.Input, opts.OutputPath, cmd.Stdin, cmd.Stdout))
	}

	// Run once up front so that the output exists right away.
	if err := runner.RunFiles(opts.Input, opts.OutputPath, nil, nil); err != nil {
		cmd.log.Printf("hilite: %v", err)
	}
	w := watch.Watcher{Log: cmd.log}
	return errtrace.Wrap(w.Watch(ctx, opts.Input, func() error {
		return runner.RunFiles(opts.Input, opts.OutputPath, nil, nil)
	}))
}

// newClient connects to the highlight worker requested by the user.
// Without a request, the shared in-process worker is used.
// owned reports whether the caller must close the client.
func (cmd *mainCmd) newClient(
	ctx context.Context,
	opts *params,
	debugLog *log.Logger,
) (_ *worker.Client, owned bool, _ error) {
	switch {
	case opts.WorkerURL != "":
		debugLog.Printf("Connecting to highlight worker at %v", opts.WorkerURL)
		conn, err := worker.Dial(ctx, opts.WorkerURL)
		if err != nil {
			return nil, false, errtrace.Wrap(err)
		}
		return worker.NewClient(conn, cmd.log), true, nil

	case opts.WorkerCommand != "":
		debugLog.Printf("Starting highlight worker %q", opts.WorkerCommand)
		proc, err := worker.StartProcess(ctx, worker.ProcessConfig{
			Command: opts.WorkerCommand,
			Log:     cmd.log,
		})
		if err != nil {
			return nil, false, errtrace.Wrap(err)
		}
		return worker.NewClient(proc, cmd.log), true, nil

	default:
		debugLog.Printf("Using in-process highlight worker")
		return worker.Default(), false, nil
	}
}
