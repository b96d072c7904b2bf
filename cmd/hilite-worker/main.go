// hilite-worker highlights code on behalf of hilite.
//
// By default, it reads newline-delimited JSON requests on stdin
// and writes responses to stdout.
// With -listen, it serves the same protocol over websocket.
//
//	hilite-worker [-style NAME] [-listen ADDR]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"braces.dev/errtrace"
	"github.com/peterbourgon/ff/v3"
	"go.abhg.dev/hilite/internal/highlight"
	"go.abhg.dev/hilite/internal/worker"
)

const _shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := mainCmd{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	os.Exit(cmd.Run(ctx, os.Args[1:]))
}

type mainCmd struct {
	Stdin  io.Reader // == os.Stdin
	Stdout io.Writer // == os.Stdout
	Stderr io.Writer // == os.Stderr

	// ready, if set, receives the listener's address
	// once the websocket server is accepting connections.
	ready func(net.Addr)
}

type params struct {
	Listen string
	Style  string
}

func (cmd *mainCmd) Run(ctx context.Context, args []string) (exitCode int) {
	logger := log.New(cmd.Stderr, "", 0)

	var p params
	fset := flag.NewFlagSet("hilite-worker", flag.ContinueOnError)
	fset.SetOutput(cmd.Stderr)
	fset.Usage = func() {
		fmt.Fprintln(cmd.Stderr, "USAGE: hilite-worker [-style NAME] [-listen ADDR]")
		fset.PrintDefaults()
	}
	fset.StringVar(&p.Listen, "listen", "", "serve websocket connections on `ADDR` instead of stdio")
	fset.StringVar(&p.Style, "style", highlight.DefaultStyle, "highlighting `NAME`; only used for inline styles")
	if err := ff.Parse(fset, args, ff.WithEnvVarPrefix("HILITE_WORKER")); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if err := cmd.run(ctx, logger, &p); err != nil {
		logger.Printf("hilite-worker: %v", err)
		return 1
	}
	return 0
}

func (cmd *mainCmd) run(ctx context.Context, logger *log.Logger, p *params) error {
	style, ok := highlight.LookupStyle(p.Style)
	if !ok {
		return errtrace.Errorf("unknown style %q", p.Style)
	}

	srv := &worker.Server{
		Highlighter: &highlight.Highlighter{
			Style:      style,
			UseClasses: true,
		},
		Log: logger,
	}

	if p.Listen == "" {
		return errtrace.Wrap(srv.Serve(ctx, cmd.Stdin, cmd.Stdout))
	}
	return errtrace.Wrap(cmd.listen(ctx, logger, p.Listen, srv))
}

func (cmd *mainCmd) listen(ctx context.Context, logger *log.Logger, addr string, h http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errtrace.Wrap(err)
	}

	httpSrv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- httpSrv.Serve(ln)
	}()
	logger.Printf("Listening on %v", ln.Addr())
	if cmd.ready != nil {
		cmd.ready(ln.Addr())
	}

	select {
	case err := <-errc:
		return errtrace.Wrap(err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), _shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return errtrace.Wrap(err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return errtrace.Wrap(err)
	}
	return nil
}
