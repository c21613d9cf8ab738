// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shadow

import (
	"os"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// copyMetadata gives the staged file the owner and permission bits of 'target'.
//
// Returns false if 'target' does not exist, in which case nothing has been done.
// Any other failure is logged and swallowed: the contents are what counts.
func copyMetadata(fs afero.Fs, target, staged string, log *zap.Logger) bool {
	finfo, err := fs.Stat(target)
	if os.IsNotExist(err) {
		return false
	}
	if err != nil {
		log.Warn("cannot stat shadowed file, its metadata will not be kept",
			zap.String("target", target), zap.Error(err))
		return true
	}

	// Owner first, because a chown can clear the setuid and setgid bits.
	if uid, gid, ok := ownerOf(finfo); ok {
		if err := fs.Chown(staged, uid, gid); err != nil {
			log.Warn("cannot copy owner onto shadow file",
				zap.String("target", target), zap.String("shadow", staged),
				zap.Int("uid", uid), zap.Int("gid", gid), zap.Error(err))
		}
	}
	if err := fs.Chmod(staged, finfo.Mode()); err != nil {
		log.Warn("cannot copy permissions onto shadow file",
			zap.String("target", target), zap.String("shadow", staged),
			zap.Stringer("mode", finfo.Mode()), zap.Error(err))
	}
	return true
}
