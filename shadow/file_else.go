// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !unix

package shadow

// renameio does not support this platform. The generalized variant will do.
func newPlatformFile(dir, target string) (stagedFile, error) {
	return nil, errNoPlatformFile
}
