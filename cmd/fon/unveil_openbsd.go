// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// Errors returned by unveil or unveilBlock.
const (
	errUnveilE2BIG  unveilError = "unveil: per-process limit reached"
	errUnveilENOENT unveilError = "unveil: path does not exist"
	errUnveilEINVAL unveilError = "unveil: invalid permissions"
	errUnveilEPERM  unveilError = "unveil: called after locking"
)

type unveilError string

func (e unveilError) Error() string { return string(e) }

func translateUnveilErrorCode(err error) error {
	switch err {
	case nil:
		return nil
	case syscall.E2BIG:
		return errUnveilE2BIG
	case syscall.ENOENT:
		return errUnveilENOENT
	case syscall.EINVAL:
		return errUnveilEINVAL
	case syscall.EPERM:
		return errUnveilEPERM
	}
	return err
}

// unveil registers paths that shall remain accessible.
// A target that is yet to be created is covered by its directory.
func unveil(path, perm string) error {
	err := unix.Unveil(path, perm)
	if err == syscall.ENOENT {
		return nil
	}
	return translateUnveilErrorCode(err)
}

// unveilBlock removes access to any remaining paths from this process.
//
// Call this last, after any invocations of unveil.
func unveilBlock() error {
	return translateUnveilErrorCode(unix.UnveilBlock())
}
