// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix && !linux

package shadow

func newPlatformFile(dir, target string) (stagedFile, error) {
	p, err := newPendingFile(dir, target)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (p pendingFile) sizeWillBe(numBytes int64) error {
	return nil
}
