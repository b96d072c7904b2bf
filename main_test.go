package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.abhg.dev/hilite/internal/highlight"
	"go.abhg.dev/hilite/internal/iotest"
	"go.abhg.dev/hilite/internal/worker"
)

const _testDocument = `<!DOCTYPE html>
<html><head><title>test</title></head>
<body>
<pre class="go">package main</pre>
<p>Call <code class="highlight js">foo(1)</code> first.</p>
<pre class="idl">interface Foo {};</pre>
</body></html>
`

func TestMainCmd_help(t *testing.T) {
	t.Parallel()

	exitCode := (&mainCmd{
		Stdout: iotest.Writer(t),
		Stderr: iotest.Writer(t),
	}).Run([]string{"-h"})
	assert.Zero(t, exitCode, "-h should have zero status code")
}

func TestMainCmd_version(t *testing.T) {
	t.Parallel()

	var buff bytes.Buffer
	exitCode := (&mainCmd{
		Stdout: &buff,
		Stderr: iotest.Writer(t),
	}).Run([]string{"-version"})
	assert.Zero(t, exitCode, "-version should have zero status code")

	assert.Contains(t, buff.String(), "hilite")
	assert.Contains(t, buff.String(), _version)
}

func TestMainCmd_unknownFlag(t *testing.T) {
	t.Parallel()

	exitCode := (&mainCmd{
		Stdout: iotest.Writer(t),
		Stderr: iotest.Writer(t),
	}).Run([]string{"--this-flag-does-not-exist"})
	assert.NotZero(t, exitCode, "unknown flag should have non-zero status code")
}

func TestMainCmd_unknownStyle(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	exitCode := (&mainCmd{
		Stdin:  strings.NewReader(_testDocument),
		Stdout: iotest.Writer(t),
		Stderr: &stderr,
	}).Run([]string{"-style", "no-such-style"})
	assert.NotZero(t, exitCode)
	assert.Contains(t, stderr.String(), `unknown style "no-such-style"`)
}

func TestMainCmd_missingInput(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	exitCode := (&mainCmd{
		Stdout: iotest.Writer(t),
		Stderr: &stderr,
	}).Run([]string{filepath.Join(t.TempDir(), "does-not-exist.html")})
	assert.NotZero(t, exitCode)
	assert.Contains(t, stderr.String(), "does-not-exist.html")
}

func TestMainCmd_missingWorker(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	exitCode := (&mainCmd{
		Stdin:  strings.NewReader(_testDocument),
		Stdout: iotest.Writer(t),
		Stderr: &stderr,
	}).Run([]string{"-worker", filepath.Join(t.TempDir(), "no-such-worker")})
	assert.NotZero(t, exitCode)
	assert.Contains(t, stderr.String(), "no-such-worker")
}

func TestMainCmd_stdio(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	exitCode := (&mainCmd{
		Stdin:  strings.NewReader(_testDocument),
		Stdout: &stdout,
		Stderr: iotest.Writer(t),
	}).Run([]string{"-debug"})
	require.Zero(t, exitCode, "expected success")

	got := stdout.String()
	assert.Contains(t, got, "<style data-hilite")
	assert.Contains(t, got, `<pre aria-busy="false"><code class="go hljs">`)
	assert.Contains(t, got, `class="highlight js hljs"`)
	assert.Contains(t, got, `<pre class="idl">interface Foo {};</pre>`)
}

func TestMainCmd_files(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "in.html")
	output := filepath.Join(dir, "out.html")
	require.NoError(t, os.WriteFile(input, []byte(_testDocument), 0o644))

	exitCode := (&mainCmd{
		Stdout: iotest.Writer(t),
		Stderr: iotest.Writer(t),
	}).Run([]string{"-out", output, "-style", "monokai", input})
	require.Zero(t, exitCode, "expected success")

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(got), `<code class="go hljs">`)
}

func TestMainCmd_noHighlightCSS(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	exitCode := (&mainCmd{
		Stdin:  strings.NewReader(_testDocument),
		Stdout: &stdout,
		Stderr: iotest.Writer(t),
	}).Run([]string{"-no-highlight-css"})
	require.Zero(t, exitCode, "expected success")

	got := stdout.String()
	assert.NotContains(t, got, "data-hilite")
	assert.NotContains(t, got, "hljs")
	assert.NotContains(t, got, "aria-busy")
	assert.Contains(t, got, `<pre class="go">package main</pre>`)
}

func TestMainCmd_workerURL(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(&worker.Server{
		Highlighter: &highlight.Highlighter{UseClasses: true},
		Log:         iotest.Logger(t),
	})
	t.Cleanup(srv.Close)

	var stdout bytes.Buffer
	exitCode := (&mainCmd{
		Stdin:  strings.NewReader(_testDocument),
		Stdout: &stdout,
		Stderr: iotest.Writer(t),
	}).Run([]string{"-worker-url", "ws" + strings.TrimPrefix(srv.URL, "http")})
	require.Zero(t, exitCode, "expected success")

	assert.Contains(t, stdout.String(), `<code class="go hljs">`)
}
