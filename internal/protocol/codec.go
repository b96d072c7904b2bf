package protocol

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"sync"

	"braces.dev/errtrace"
	"github.com/bytedance/sonic"
)

var _api = sonic.ConfigStd

// ErrMalformed marks a message that could not be decoded.
// The stream it came from is still usable.
var ErrMalformed = errors.New("malformed message")

// Largest single message a Decoder accepts.
const _maxMessageSize = 16 << 20

// Marshal encodes a message as JSON.
func Marshal(v any) ([]byte, error) {
	bs, err := _api.Marshal(v)
	return bs, errtrace.Wrap(err)
}

// Unmarshal decodes a JSON message into v.
// Errors match [ErrMalformed].
func Unmarshal(data []byte, v any) error {
	if err := _api.Unmarshal(data, v); err != nil {
		return errtrace.Errorf("%w: %w", ErrMalformed, err)
	}
	return nil
}

// Encoder writes newline-delimited JSON messages to a stream.
// It is safe for concurrent use.
type Encoder struct {
	mu sync.Mutex // guards w
	w  io.Writer
}

// NewEncoder builds an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes a single message followed by a newline.
func (e *Encoder) Encode(v any) error {
	bs, err := Marshal(v)
	if err != nil {
		return errtrace.Wrap(err)
	}
	bs = append(bs, '\n')

	e.mu.Lock()
	defer e.mu.Unlock()
	_, err = e.w.Write(bs)
	return errtrace.Wrap(err)
}

// Decoder reads newline-delimited JSON messages from a stream.
type Decoder struct {
	scan *bufio.Scanner
}

// NewDecoder builds a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	scan := bufio.NewScanner(r)
	scan.Buffer(make([]byte, 0, 64*1024), _maxMessageSize)
	return &Decoder{scan: scan}
}

// Decode reads the next message into v.
// Blank lines are skipped.
// It returns io.EOF when the stream ends.
// A line that isn't valid JSON fails with [ErrMalformed],
// and the next call moves on to the following line.
func (d *Decoder) Decode(v any) error {
	for d.scan.Scan() {
		line := bytes.TrimSpace(d.scan.Bytes())
		if len(line) == 0 {
			continue
		}
		return errtrace.Wrap(Unmarshal(line, v))
	}
	if err := d.scan.Err(); err != nil {
		return errtrace.Wrap(err)
	}
	return io.EOF
}
