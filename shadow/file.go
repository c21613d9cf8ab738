// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shadow

import (
	"io"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const (
	// If a file is expected to be smaller than this (in bytes) no space will be reserved.
	reserveFileSizeThreshold = 1 << 15
)

// errNoPlatformFile is returned by newPlatformFile if there is no specialized variant.
var errNoPlatformFile = errors.New("shadow: no platform-specific staged file")

// stagedFile is the sink for writes until the session ends.
type stagedFile interface {
	io.ReadWriteSeeker

	// Name is the path of the staged file.
	Name() string

	// Persist syncs and closes the file, then renames it to 'target'.
	persist(fs afero.Fs, target string) error

	// Zap closes the file and leaves it where it is.
	zap() error

	// SizeWillBe reserves space on disk for the file contents.
	sizeWillBe(numBytes int64) error
}

// intentNew creates the staged file for 'target' in 'dir'.
//
// The operating system's filesystem gets the platform variant, if there is one,
// everything else the generalized one.
var intentNew = func(fs afero.Fs, dir, target string) (stagedFile, error) {
	if _, isOS := fs.(*afero.OsFs); isOS {
		f, err := newPlatformFile(dir, target)
		if err != errNoPlatformFile {
			return f, err
		}
	}
	return intentNewUniversal(fs, dir, target)
}

type generalizedFile struct {
	afero.File
}

func intentNewUniversal(fs afero.Fs, dir, target string) (stagedFile, error) {
	t, err := afero.TempFile(fs, dir, "."+filepath.Base(target)+".*")
	if err != nil {
		return nil, err
	}
	return generalizedFile{File: t}, nil
}

func (g generalizedFile) persist(fs afero.Fs, target string) error {
	if err := g.File.Sync(); err != nil {
		g.File.Close()
		return err
	}
	if err := g.File.Close(); err != nil {
		return err
	}
	return fs.Rename(g.File.Name(), target)
}

func (g generalizedFile) zap() error {
	return g.File.Close()
}

// Truncating would announce a size we might not reach, therefore this is a NOP.
func (g generalizedFile) sizeWillBe(numBytes int64) error {
	return nil
}
