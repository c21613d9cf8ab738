// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package shadow

import (
	"github.com/google/renameio/v2"
	"github.com/spf13/afero"
)

// pendingFile is the variant for the operating system's filesystem.
// renameio takes care of naming, syncing, and the final rename.
type pendingFile struct {
	*renameio.PendingFile
	target string
}

func newPendingFile(dir, target string) (pendingFile, error) {
	t, err := renameio.NewPendingFile(target,
		renameio.WithTempDir(dir),
		renameio.WithStaticPermissions(0600),
	)
	if err != nil {
		return pendingFile{}, err
	}
	return pendingFile{PendingFile: t, target: target}, nil
}

// The destination had been fixed when the file was created, hence 'target' is not used again.
func (p pendingFile) persist(_ afero.Fs, _ string) error {
	return p.PendingFile.CloseAtomicallyReplace()
}

// Not 'Cleanup', because that would remove the file.
func (p pendingFile) zap() error {
	return p.PendingFile.File.Close()
}
