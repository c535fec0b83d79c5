// ABOUTME: Fixed-capacity compacting input ring for the decode pipeline
// ABOUTME: Keeps the decoder window fed, zero-padded and bounded
package stream

import (
	"fmt"
	"io"
)

const defaultInputSize = 2048

// inputRing owns the fixed byte region between the backing store and the
// frame decoder. Bytes before offset are consumed; the window from offset
// to the end holds stream data, followed by zero padding after a short
// read. Zero bytes never form a frame header, so padding is harmless to
// sync scanning and decoding.
type inputRing struct {
	buf    []byte
	offset int
	eof    bool
}

func newInputRing(size int) *inputRing {
	return &inputRing{buf: make([]byte, size), offset: size}
}

// window returns the unread region, padding included.
func (r *inputRing) window() []byte { return r.buf[r.offset:] }

func (r *inputRing) bytesLeft() int { return len(r.buf) - r.offset }

// consume advances the read cursor. Compaction happens only in refill.
func (r *inputRing) consume(n int) {
	if n > r.bytesLeft() {
		n = r.bytesLeft()
	}
	if n > 0 {
		r.offset += n
	}
}

// refill tops the ring up from src once it is at least half consumed:
// unread bytes are compacted to the front and the zeroed free tail is
// filled completely, stopping short only at end of stream. A zero-byte
// refill marks end of stream; a read error does too, so a broken store is
// not retried, and the error is returned. The result reports whether any
// unread bytes remain.
func (r *inputRing) refill(src io.Reader) (bool, error) {
	if 2*r.bytesLeft() >= len(r.buf) {
		return true, nil
	}
	if !r.eof {
		unread := r.bytesLeft()
		copy(r.buf, r.buf[r.offset:])
		r.offset = 0

		free := r.buf[unread:]
		clear(free)
		n, err := io.ReadFull(src, free)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			r.eof = true
			return r.offset < len(r.buf), fmt.Errorf("read source: %w", err)
		}
		if n == 0 {
			r.eof = true
		}
	}
	return r.offset < len(r.buf), nil
}

// reset empties the ring for a rewound stream.
func (r *inputRing) reset() {
	r.offset = len(r.buf)
	r.eof = false
}
