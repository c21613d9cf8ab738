// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package shadow

import (
	"os"
	"syscall"
)

// ownerOf extracts uid and gid, if 'finfo' came from the operating system.
func ownerOf(finfo os.FileInfo) (uid, gid int, ok bool) {
	st, ok := finfo.Sys().(*syscall.Stat_t)
	if !ok || st == nil {
		return 0, 0, false
	}
	return int(st.Uid), int(st.Gid), true
}
