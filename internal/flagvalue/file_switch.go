// Package flagvalue provides flag.Value implementations.
package flagvalue

import (
	"flag"
	"io"
	"log"
	"os"

	"braces.dev/errtrace"
)

// FileSwitch is a flag that accepts both "-x" and "-x=path".
// It's used for optional log output:
// "-x" logs to a fallback writer, and "-x=path" logs to a file.
type FileSwitch string

var _ flag.Getter = (*FileSwitch)(nil)

// Get returns the path stored in the flag,
// '-' if the flag was passed without a value,
// or an empty string if it wasn't passed.
func (fs *FileSwitch) Get() any { return string(*fs) }

// String returns the same value as Get.
func (fs *FileSwitch) String() string {
	return string(*fs)
}

// IsBoolFlag marks this as a flag
// that doesn't require a value.
func (*FileSwitch) IsBoolFlag() bool {
	return true
}

// Set receives the value for this flag.
func (fs *FileSwitch) Set(v string) error {
	switch v {
	case "true":
		v = "-"
	case "false":
		v = ""
	}
	*fs = FileSwitch(v)
	return nil
}

// Bool reports whether this flag was set with any value.
func (fs *FileSwitch) Bool() bool {
	return len(*fs) > 0
}

// Logger builds a logger for this flag,
// along with a function to release it once logging is done.
//
//   - flag not passed: the logger discards everything
//   - flag passed without a value: the logger writes to fallback
//   - flag passed with a path: the logger writes to a new file at that path
func (fs *FileSwitch) Logger(fallback io.Writer) (_ *log.Logger, close func() error, _ error) {
	switch *fs {
	case "":
		return log.New(io.Discard, "", 0), nopClose, nil
	case "-":
		return log.New(fallback, "", 0), nopClose, nil
	default:
		f, err := os.Create(string(*fs))
		if err != nil {
			return nil, nil, errtrace.Wrap(err)
		}
		return log.New(f, "", 0), f.Close, nil
	}
}

func nopClose() error { return nil }
