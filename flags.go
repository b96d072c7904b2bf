package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/peterbourgon/ff/v3"
	"go.abhg.dev/hilite/internal/flagvalue"
	"go.abhg.dev/hilite/internal/highlight"
	"go.abhg.dev/hilite/internal/orchestrate"
)

var (
	errHelp             = flag.ErrHelp
	errInvalidArguments = errors.New("invalid arguments")
)

// params holds all arguments for hilite.
type params struct {
	version bool
	help    Help

	Debug flagvalue.FileSwitch

	OutputPath     string
	NoHighlightCSS bool
	Timeout        time.Duration
	Style          string

	WorkerCommand string
	WorkerURL     string

	Watch bool

	// Input is the file to read,
	// or empty to read from stdin.
	Input string
}

// cliParser parses the command line arguments for hilite.
type cliParser struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (cmd *cliParser) newFlagSet() (*params, *flag.FlagSet) {
	flag := flag.NewFlagSet("hilite", flag.ContinueOnError)
	flag.SetOutput(cmd.Stderr)
	flag.Usage = func() {
		_ = DefaultHelp.Write(cmd.Stderr)
	}

	var p params

	// Output:
	flag.StringVar(&p.OutputPath, "out", "", "")
	flag.BoolVar(&p.NoHighlightCSS, "no-highlight-css", false, "")
	flag.StringVar(&p.Style, "style", highlight.DefaultStyle, "")

	// Worker:
	flag.DurationVar(&p.Timeout, "timeout", orchestrate.DefaultTimeout, "")
	flag.StringVar(&p.WorkerCommand, "worker", "", "")
	flag.StringVar(&p.WorkerURL, "worker-url", "", "")

	// Program-level:
	flag.BoolVar(&p.Watch, "watch", false, "")
	flag.Var(&p.Debug, "debug", "")
	flag.BoolVar(&p.version, "version", false, "")
	flag.Var(&p.help, "help", "")
	flag.Var(&p.help, "h", "")
	_ = flag.String("config", "", "")

	return &p, flag
}

func (cmd *cliParser) Parse(args []string) (*params, error) {
	p, flag := cmd.newFlagSet()
	err := ff.Parse(flag, args,
		ff.WithEnvVarPrefix("HILITE"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	)
	if err != nil {
		return nil, err
	}
	args = flag.Args()

	if p.version {
		fmt.Fprintln(cmd.Stdout, "hilite", _version)
		return nil, errHelp
	}

	if p.help == DefaultHelp && len(args) > 0 {
		// The user might have done "-h foo"
		// instead of "-h=foo".
		// If the argument is a known help topic,
		// take it.
		var h Help
		if err := h.Set(args[0]); err == nil && h.known() {
			p.help = h
		}
	}

	switch p.help {
	case NoHelp:
		// proceed as usual
	default:
		if err := p.help.Write(cmd.Stderr); err != nil {
			fmt.Fprintln(cmd.Stderr, err)
		}
		return nil, errHelp
	}

	switch len(args) {
	case 0:
		// stdin
	case 1:
		p.Input = args[0]
	default:
		fmt.Fprintln(cmd.Stderr, "Please provide at most one file.")
		_ = UsageHelp.Write(cmd.Stderr)
		return nil, errInvalidArguments
	}

	if p.WorkerCommand != "" && p.WorkerURL != "" {
		fmt.Fprintln(cmd.Stderr, "Cannot use both -worker and -worker-url.")
		return nil, errInvalidArguments
	}

	if p.Timeout <= 0 {
		fmt.Fprintln(cmd.Stderr, "-timeout must be positive.")
		return nil, errInvalidArguments
	}

	if p.Watch && (p.Input == "" || p.OutputPath == "") {
		fmt.Fprintln(cmd.Stderr, "-watch requires a FILE and -out.")
		_ = UsageHelp.Write(cmd.Stderr)
		return nil, errInvalidArguments
	}

	return p, nil
}
