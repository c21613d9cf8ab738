// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shadow

import (
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

// leasedFile is used with Linux.
// Utilizes Linux facilities that prevent tampering with file-contents.
type leasedFile struct {
	pendingFile
}

// Getting a lease on a file will result in the kernel notifying us about
// any side effects (e.g. other processes) breaking that lease.
// The signal for that, SIGIO, is ignored by Go's runtime unless asked for.
// We're after the benefit of the kernel halting the other party's 'open' call
// until we are done, rather than having it read a half-written file.
func newPlatformFile(dir, target string) (stagedFile, error) {
	p, err := newPendingFile(dir, target)
	if err != nil {
		return nil, err
	}
	l := leasedFile{pendingFile: p}
	l.setLease(unix.F_WRLCK) // WRLCK includes RDLCK
	// An error is not expected because we created that file, with a random name;
	// - either the kernel does not support leases on this filesystem, which can be ignored,
	// - or anything malevolent is holding our file.
	return l, nil
}

func (l leasedFile) setLease(kind int) error {
	rc, err := l.PendingFile.SyscallConn()
	if err != nil {
		return err
	}
	var leaseErr error
	err = rc.Control(func(fd uintptr) {
		_, leaseErr = unix.FcntlInt(fd, unix.F_SETLEASE, kind)
	})
	if err != nil {
		return err
	}
	return leaseErr
}

func (l leasedFile) persist(fs afero.Fs, target string) error {
	l.setLease(unix.F_UNLCK)
	return l.pendingFile.persist(fs, target)
}

func (l leasedFile) zap() error {
	l.setLease(unix.F_UNLCK)
	return l.pendingFile.zap()
}

// Asks the filesystem to reserve some space for this file's contents,
// without changing its apparent size.
func (l leasedFile) sizeWillBe(numBytes int64) error {
	if numBytes <= reserveFileSizeThreshold {
		return nil
	}
	rc, err := l.PendingFile.SyscallConn()
	if err != nil {
		return err
	}
	var allocErr error
	err = rc.Control(func(fd uintptr) {
		allocErr = unix.Fallocate(int(fd), unix.FALLOC_FL_KEEP_SIZE, 0, numBytes)
		if allocErr == unix.EOPNOTSUPP {
			allocErr = nil
			return
		}
		// These are best-effort, so we don't care about any errors.
		_ = unix.Fadvise(int(fd), 0, numBytes, unix.FADV_SEQUENTIAL)
	})
	if err != nil {
		return err
	}
	return allocErr
}
