// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileorname

import (
	"iter"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Wrap returns a function that accepts paths where 'fn' expects files.
//
// Files are opened before 'fn' runs, and released once it returns:
// staged writes are persisted if 'fn' returns a nil error, else rolled back.
// An error from 'fn' is returned as it is. If it panics, staged writes are rolled back
// and the panic continues.
func Wrap[R any](spec *Spec, fn func(Args) (R, error)) func(Args) (R, error) {
	return func(args Args) (result R, err error) {
		r, err := spec.Resolve(args)
		if err != nil {
			return result, err
		}

		failed := true // until proven otherwise, which a panic won't
		defer func() {
			rerr := r.Release(failed)
			switch {
			case rerr == nil:
			case failed:
				spec.log.Debug("cannot release after failure", zap.Error(rerr))
			default:
				err = errors.Wrap(rerr, "fileorname: releasing files")
			}
		}()

		result, err = fn(r.Args)
		failed = err != nil
		return result, err
	}
}

// WrapSeq is Wrap for operations that produce their results lazily.
//
// Nothing is opened before the iteration starts, and files are released once it ends:
// staged writes are persisted if the sequence is exhausted without any error,
// else rolled back. That includes the consumer breaking out early.
// The first error from 'fn' is passed on and ends the sequence.
//
// A failed Resolve or Release is reported as the last pair, with the zero value of T.
func WrapSeq[T any](spec *Spec, fn func(Args) iter.Seq2[T, error]) func(Args) iter.Seq2[T, error] {
	return func(args Args) iter.Seq2[T, error] {
		return func(yield func(T, error) bool) {
			var zero T

			r, err := spec.Resolve(args)
			if err != nil {
				yield(zero, err)
				return
			}

			done := false
			defer func() {
				if done {
					return
				}
				if rerr := r.Release(true); rerr != nil {
					spec.log.Debug("cannot release after failure", zap.Error(rerr))
				}
			}()

			for v, err := range fn(r.Args) {
				// An error ends the sequence, as does the consumer.
				if !yield(v, err) || err != nil {
					return
				}
			}

			done = true
			if rerr := r.Release(false); rerr != nil {
				yield(zero, errors.Wrap(rerr, "fileorname: releasing files"))
			}
		}
	}
}
