// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileorname

import (
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// File is what a path becomes once opened for its parameter.
//
// Close is optional: whatever has not been closed by the operation
// is released once it is done. Closing twice is a NOP.
//
// In text mode reads are buffered, and can run ahead of what has been returned.
// With modes that both read and write ("r+", "w+"), a write that follows a read
// therefore lands after the read-ahead, not right after the bytes read.
// Use a binary mode and Seek to interleave them.
type File interface {
	io.Reader
	io.Writer
	io.StringWriter
	io.Closer

	// Name returns the path as given.
	Name() string
}

var _ File = (*handle)(nil)

// handle is a plain file, or a shadow.Session, in binary or text mode.
//
// Text mode means UTF-8: invalid sequences are replaced by U+FFFD,
// in both directions, regardless of the locale.
type handle struct {
	name  string
	r     io.Reader // nil if not opened for reading
	w     io.Writer // nil if not opened for writing
	enc   *transform.Writer
	seek  io.Seeker // nil in text mode
	close func(failed bool) error

	closed bool
}

func newHandle(name string, f io.ReadWriteSeeker, m Mode, close func(failed bool) error) *handle {
	h := &handle{name: name, close: close}
	if m.Binary() {
		h.seek = f
		if m.Readable() {
			h.r = f
		}
		if m.Writable() {
			h.w = f
		}
		return h
	}

	if m.Readable() {
		h.r = transform.NewReader(f, unicode.UTF8.NewDecoder())
	}
	if m.Writable() {
		h.enc = transform.NewWriter(f, unicode.UTF8.NewEncoder())
		h.w = h.enc
	}
	return h
}

func (h *handle) Name() string { return h.name }

func (h *handle) Read(p []byte) (int, error) {
	switch {
	case h.closed:
		return 0, &os.PathError{Op: "read", Path: h.name, Err: os.ErrClosed}
	case h.r == nil:
		return 0, &os.PathError{Op: "read", Path: h.name, Err: errNotReadable}
	}
	return h.r.Read(p)
}

func (h *handle) Write(p []byte) (int, error) {
	switch {
	case h.closed:
		return 0, &os.PathError{Op: "write", Path: h.name, Err: os.ErrClosed}
	case h.w == nil:
		return 0, &os.PathError{Op: "write", Path: h.name, Err: errNotWritable}
	}
	return h.w.Write(p)
}

func (h *handle) WriteString(s string) (int, error) {
	return h.Write([]byte(s))
}

// Seek is available in binary mode only.
func (h *handle) Seek(offset int64, whence int) (int64, error) {
	switch {
	case h.closed:
		return 0, &os.PathError{Op: "seek", Path: h.name, Err: os.ErrClosed}
	case h.seek == nil:
		return 0, &os.PathError{Op: "seek", Path: h.name, Err: errSeekText}
	}
	return h.seek.Seek(offset, whence)
}

// Close releases the handle as if the operation had been successful.
func (h *handle) Close() error {
	return h.release(false)
}

func (h *handle) release(failed bool) error {
	if h.closed {
		return nil
	}
	h.closed = true

	var flushErr error
	if h.enc != nil {
		// Writes out what is left of an incomplete rune.
		flushErr = h.enc.Close()
	}
	err := h.close(failed || flushErr != nil)
	if flushErr != nil {
		return flushErr
	}
	return err
}
