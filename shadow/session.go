// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shadow

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// State is where a Session is in its lifecycle.
type State int

// A Session starts Open, and ends either Committed or Aborted.
const (
	Open State = iota
	Committing
	Committed
	Aborting
	Aborted
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Committing:
		return "committing"
	case Committed:
		return "committed"
	case Aborting:
		return "aborting"
	case Aborted:
		return "aborted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal is true for states after which nothing happens anymore.
func (s State) Terminal() bool { return s == Committed || s == Aborted }

// ErrClosed is returned for writes to a Session that has been persisted or zapped.
var ErrClosed = errors.New("shadow: session has already been closed")

// WriteError is returned by a failed write.
// The session it happened in will not persist anymore.
type WriteError struct {
	Target string // the shadowed file
	Staged string // where the write went to
	Err    error
}

func (e *WriteError) Error() string {
	return "shadow: writing " + e.Target + " (staged in " + e.Staged + "): " + e.Err.Error()
}

// Unwrap returns the error from the underlying file.
func (e *WriteError) Unwrap() error { return e.Err }

// Cause implements the interface used by github.com/pkg/errors.
func (e *WriteError) Cause() error { return e.Err }

// Session represents a staged replacement of one file.
//
// It is not safe for concurrent use.
type Session struct {
	target string
	file   stagedFile
	opts   options
	log    *zap.Logger

	state  State
	failed error // the first failed write, if any
}

// IntentNew starts a Session for 'target'.
//
// The staged file is created right away, in the target's directory
// or the one set using WithTempDir. Any error doing so is returned here,
// before anything has been written.
func IntentNew(target string, opts ...Option) (*Session, error) {
	o := newOptions(opts)
	dir := o.tempDir
	if dir == "" {
		dir = filepath.Dir(target)
	}

	f, err := intentNew(o.fs, dir, target)
	if err != nil {
		return nil, errors.Wrapf(err, "shadow: cannot stage %s", target)
	}
	s := &Session{
		target: target,
		file:   f,
		opts:   o,
		log:    o.logger.With(zap.String("target", target), zap.String("shadow", f.Name())),
	}
	s.log.Debug("opened shadow file")

	if o.sizeHint > 0 {
		if err := f.sizeWillBe(o.sizeHint); err != nil {
			s.log.Debug("cannot reserve space", zap.Int64("size", o.sizeHint), zap.Error(err))
		}
	}
	return s, nil
}

// Name returns the path of the shadowed file.
func (s *Session) Name() string { return s.target }

// StagedName returns the path of the file all writes go to until the session ends.
func (s *Session) StagedName() string { return s.file.Name() }

// State reports where the session is at.
func (s *Session) State() State { return s.state }

// Err returns the first write error, or nil.
// A session with such an error cannot be persisted.
func (s *Session) Err() error { return s.failed }

// Write forwards to the staged file.
func (s *Session) Write(p []byte) (int, error) {
	if s.state != Open {
		return 0, ErrClosed
	}
	n, err := s.file.Write(p)
	if err != nil {
		return n, s.fail(err)
	}
	return n, nil
}

// WriteString is like Write.
func (s *Session) WriteString(str string) (int, error) {
	if s.state != Open {
		return 0, ErrClosed
	}
	n, err := io.WriteString(s.file, str)
	if err != nil {
		return n, s.fail(err)
	}
	return n, nil
}

// Read reads back from the staged file, which has been opened for reading and writing.
func (s *Session) Read(p []byte) (int, error) {
	if s.state != Open {
		return 0, ErrClosed
	}
	return s.file.Read(p)
}

// Seek moves the offset within the staged file.
func (s *Session) Seek(offset int64, whence int) (int64, error) {
	if s.state != Open {
		return 0, ErrClosed
	}
	return s.file.Seek(offset, whence)
}

func (s *Session) fail(err error) error {
	werr := &WriteError{Target: s.target, Staged: s.file.Name(), Err: err}
	if s.failed == nil {
		s.failed = werr
		s.log.Debug("write failed, session will be rolled back", zap.Error(err))
	}
	return werr
}

// Persist replaces the target by the staged file.
//
// The target's owner and permissions are copied first, if it exists.
// If any write has failed, the session is zapped instead and that error returned.
// On a session that has already ended this is a NOP.
func (s *Session) Persist() error {
	if s.state != Open {
		return nil
	}
	if s.failed != nil {
		s.Zap()
		return errors.Wrap(s.failed, "shadow: not persisting after a failed write")
	}

	s.state = Committing
	existed := copyMetadata(s.opts.fs, s.target, s.file.Name(), s.log)
	if err := s.file.persist(s.opts.fs, s.target); err != nil {
		// The backend can fail before having closed the file. It stays on disk regardless.
		if zerr := s.file.zap(); zerr != nil && !errors.Is(zerr, os.ErrClosed) {
			s.log.Debug("cannot close shadow file", zap.Error(zerr))
		}
		s.state = Aborted
		s.log.Debug("cannot replace shadowed file, rolled back", zap.Error(err))
		return errors.Wrapf(err, "shadow: cannot replace %s", s.target)
	}
	s.state = Committed
	s.log.Debug("replaced with shadow file", zap.Bool("replaced_existing", existed))
	return nil
}

// Zap ends the session without touching the target.
//
// The staged file stays on disk. On a session that has already ended this is a NOP.
func (s *Session) Zap() error {
	if s.state != Open {
		return nil
	}
	s.state = Aborting
	err := s.file.zap()
	s.state = Aborted
	s.log.Debug("rolled back update, shadow file kept")
	if err != nil && !errors.Is(err, os.ErrClosed) {
		return errors.Wrapf(err, "shadow: closing %s", s.file.Name())
	}
	return nil
}

// Close is Persist, so that a Session can be handed out as io.WriteCloser.
func (s *Session) Close() error {
	return s.Persist()
}

// Do runs 'fn' with a new Session for 'target' as destination.
//
// The session is persisted if 'fn' returns nil, else zapped.
// Errors returned by 'fn' are passed through as they are,
// and a panic in 'fn' continues after the session has been zapped.
func Do(target string, fn func(w io.Writer) error, opts ...Option) error {
	s, err := IntentNew(target, opts...)
	if err != nil {
		return err
	}
	defer s.Zap() // after Persist this is a NOP

	if err := fn(s); err != nil {
		return err
	}
	return s.Persist()
}

// WriteFrom is a unit of work implementing
// • creation of a staged file,
// • writing 'r' to it,
// • discarding it on failure ('zap') or
// • its replacing 'target' ('persist').
//
// Use WithSizeHint to have disk space reserved before writing.
func WriteFrom(target string, r io.Reader, opts ...Option) (int64, error) {
	s, err := IntentNew(target, opts...)
	if err != nil {
		return 0, err
	}
	defer s.Zap()

	n, err := io.Copy(s, r)
	if err != nil {
		return n, err
	}
	return n, s.Persist()
}
