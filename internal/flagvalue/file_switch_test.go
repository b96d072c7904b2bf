package flagvalue

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSwitch_NoArg(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give []string

		wantGet    string
		wantString string
		wantBool   bool
	}{
		{
			desc:     "no argument",
			wantBool: false,
		},
		{
			desc:       "default argument",
			give:       []string{"-x"},
			wantGet:    "-",
			wantString: "-",
			wantBool:   true,
		},
		{
			desc:       "explicit argument",
			give:       []string{"-x=foo"},
			wantGet:    "foo",
			wantString: "foo",
			wantBool:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			fset := flag.NewFlagSet(t.Name(), flag.ContinueOnError)
			var fs FileSwitch
			fset.Var(&fs, "x", "")
			require.NoError(t, fset.Parse(tt.give))

			assert.Equal(t, tt.wantGet, fs.Get())
			assert.Equal(t, tt.wantString, fs.String())
			assert.Equal(t, tt.wantBool, fs.Bool())
		})
	}
}

func TestFileSwitch_Logger(t *testing.T) {
	t.Parallel()

	parse := func(t *testing.T, args ...string) *FileSwitch {
		fset := flag.NewFlagSet(t.Name(), flag.ContinueOnError)
		var fs FileSwitch
		fset.Var(&fs, "x", "")
		require.NoError(t, fset.Parse(args))
		return &fs
	}

	t.Run("no arguments", func(t *testing.T) {
		t.Parallel()

		fs := parse(t)

		got, done, err := fs.Logger(new(bytes.Buffer))
		require.NoError(t, err)
		assert.True(t, got.Writer() == io.Discard, "expected io.Discard, got %v", got.Writer())
		require.NoError(t, done())
	})

	t.Run("fallback", func(t *testing.T) {
		t.Parallel()

		fs := parse(t, "-x")
		buff := new(bytes.Buffer)

		got, done, err := fs.Logger(buff)
		require.NoError(t, err)
		got.Printf("hello %v", "world")
		require.NoError(t, done())
		assert.Equal(t, "hello world\n", buff.String())
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		fs := parse(t, "-x=false")
		assert.False(t, fs.Bool())
	})

	t.Run("explicit", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "debug.log")
		fs := parse(t, "-x="+path)

		got, done, err := fs.Logger(new(bytes.Buffer))
		require.NoError(t, err)
		got.Print("hello")
		require.NoError(t, done())

		body, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(body))
	})
}

func TestFileSwitch_Logger_error(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "does_not_exist", "debug.log")
	fset := flag.NewFlagSet(t.Name(), flag.ContinueOnError)

	var fs FileSwitch
	fset.Var(&fs, "x", "")
	require.NoError(t, fset.Parse([]string{"-x=" + path}))

	_, _, err := fs.Logger(new(bytes.Buffer))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
