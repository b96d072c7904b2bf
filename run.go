package main

import (
	"bytes"
	"io"
	"log"
	"os"

	"braces.dev/errtrace"
	"go.abhg.dev/hilite/internal/errdefer"
	"go.abhg.dev/hilite/internal/highlight"
	"go.abhg.dev/hilite/internal/html"
	"go.abhg.dev/hilite/internal/orchestrate"
)

// Runner highlights one HTML document per call.
type Runner struct {
	Log *log.Logger

	// Orchestrator does the highlighting.
	Orchestrator *orchestrate.Orchestrator

	// Highlighter supplies the stylesheet
	// injected into each document.
	Highlighter *highlight.Highlighter

	Config orchestrate.Config
}

// RunFiles reads input and writes the highlighted document to output.
// An empty input reads from stdin,
// and an empty output writes to stdout.
func (r *Runner) RunFiles(input, output string, stdin io.Reader, stdout io.Writer) (err error) {
	src := stdin
	if input != "" {
		f, err := os.Open(input)
		if err != nil {
			return errtrace.Wrap(err)
		}
		defer errdefer.Close(&err, f)
		src = f
	}

	// Render to memory first
	// so that a failed run does not truncate the output.
	var buf bytes.Buffer
	if err := r.Run(src, &buf); err != nil {
		if input != "" {
			return errtrace.Errorf("%v: %w", input, err)
		}
		return errtrace.Wrap(err)
	}

	if output == "" {
		_, err := buf.WriteTo(stdout)
		return errtrace.Wrap(err)
	}
	return errtrace.Wrap(os.WriteFile(output, buf.Bytes(), 0o644))
}

// Run parses an HTML document from src, highlights it,
// and renders the result to dst.
func (r *Runner) Run(src io.Reader, dst io.Writer) error {
	doc, err := html.Parse(src)
	if err != nil {
		return errtrace.Wrap(err)
	}

	var css bytes.Buffer
	if err := r.Highlighter.WriteCSS(&css); err != nil {
		return errtrace.Wrap(err)
	}
	html.InjectStylesheet(doc, css.String())

	report := r.Orchestrator.Run(doc, r.Config)
	r.logger().Printf("Highlighted %d of %d units in %d elements "+
		"(%d timed out, %d failed, %d skipped)",
		report.Applied, report.Units, report.Candidates,
		report.TimedOut, report.Failed, report.Skipped)

	return errtrace.Wrap(html.Render(dst, doc))
}

func (r *Runner) logger() *log.Logger {
	if r.Log != nil {
		return r.Log
	}
	return log.New(io.Discard, "", 0)
}
