// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shadow

import (
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type options struct {
	fs       afero.Fs
	tempDir  string
	logger   *zap.Logger
	sizeHint int64
}

// Option configures IntentNew.
type Option func(*options)

// WithFs sets the filesystem the target lives on.
// Defaults to the operating system's.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		if fs != nil {
			o.fs = fs
		}
	}
}

// WithTempDir places staged files in 'dir' instead of the target's directory.
//
// The directory must be on the same filesystem as the target,
// else the final rename fails and the write gets aborted.
func WithTempDir(dir string) Option {
	return func(o *options) {
		o.tempDir = dir
	}
}

// WithLogger sets the sink for tracing. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSizeHint announces how many bytes will be written,
// which where supported results in disk space being reserved beforehand.
func WithSizeHint(numBytes int64) Option {
	return func(o *options) {
		o.sizeHint = numBytes
	}
}

func newOptions(opts []Option) options {
	o := options{
		fs:     afero.NewOsFs(),
		logger: zap.NewNop(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
