// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileorname

import (
	"go.uber.org/zap"

	"blitznote.com/src/fileorname/shadow"
)

// Permission bits for files created by plain (not staged) modes, before the umask.
const permBitsFile = 0666

// Resolved are the arguments of one invocation,
// with paths replaced by the files opened for them.
type Resolved struct {
	// Args is what the operation gets called with.
	Args Args

	owned    []*handle // in the order they have been opened
	released bool
	log      *zap.Logger
}

// asPath reports whether 'v' is meant as path.
func asPath(v any) (string, bool) {
	switch p := v.(type) {
	case string:
		return p, true
	case Path:
		return string(p), true
	}
	return "", false
}

// Resolve opens the files for one invocation.
//
// Every configured parameter has to be present in 'args', or have a default (WithDefault),
// else a *ConfigurationError is returned before anything has been opened.
// Values that are no paths are passed through and remain the caller's.
//
// If a file cannot be opened, those opened before are released,
// and an *OpenError is returned.
// Else the caller has to call Release on the result, exactly once the operation is done.
func (s *Spec) Resolve(args Args) (*Resolved, error) {
	r := &Resolved{
		Args:  make(Args, len(args)+len(s.defaults)),
		owned: make([]*handle, 0, len(s.params)),
		log:   s.log,
	}
	for k, v := range s.defaults {
		r.Args[k] = v
	}
	for k, v := range args {
		r.Args[k] = v
	}

	for _, p := range s.params {
		if _, present := r.Args[p.name]; !present {
			return nil, &ConfigurationError{Param: p.name, Mode: p.mode.String(), Reason: "missing from the arguments"}
		}
	}

	for _, p := range s.params {
		path, isPath := asPath(r.Args[p.name])
		if !isPath {
			s.log.Debug("passing through", zap.String("param", p.name))
			continue
		}

		h, err := s.open(path, p)
		if err != nil {
			if rerr := r.Release(true); rerr != nil {
				s.log.Debug("cannot release after a failed open", zap.Error(rerr))
			}
			return nil, &OpenError{Param: p.name, Path: path, Mode: p.mode.String(), Err: err}
		}
		s.log.Debug("opened", zap.String("param", p.name), zap.String("path", path), zap.Stringer("mode", p.mode))
		r.Args[p.name] = h
		r.owned = append(r.owned, h)
	}
	return r, nil
}

func (s *Spec) open(path string, p param) (*handle, error) {
	m := p.mode
	if m.Staged() {
		sess, err := shadow.IntentNew(path,
			shadow.WithFs(s.fs),
			shadow.WithTempDir(s.tempDir),
			shadow.WithLogger(s.log),
			shadow.WithSizeHint(p.sizeHint),
		)
		if err != nil {
			return nil, err
		}
		return newHandle(path, sess, m, func(failed bool) error {
			if failed {
				return sess.Zap()
			}
			return sess.Persist() // which zaps after a failed write, and says so
		}), nil
	}

	f, err := s.fs.OpenFile(path, m.Flag(), permBitsFile)
	if err != nil {
		return nil, err
	}
	return newHandle(path, f, m, func(bool) error {
		return f.Close()
	}), nil
}

// Release closes the files opened by Resolve, in reverse order.
//
// Sessions of staged parameters are persisted unless 'failed' is set,
// or a write to them has failed; else they are zapped.
// Only the first error is returned. Calling Release again is a NOP.
func (r *Resolved) Release(failed bool) error {
	if r.released {
		return nil
	}
	r.released = true

	var first error
	for i := len(r.owned) - 1; i >= 0; i-- {
		h := r.owned[i]
		err := h.release(failed)
		r.log.Debug("closed", zap.String("path", h.Name()), zap.Bool("failed", failed), zap.Error(err))
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Opened returns how many files Resolve has opened.
func (r *Resolved) Opened() int { return len(r.owned) }
