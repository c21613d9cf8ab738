// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package faultfs wraps an afero.Fs to inject errors, for tests.
package faultfs

import (
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ErrInjected is used whenever a Fault carries no error of its own.
var ErrInjected = errors.New("faultfs: injected fault")

// Fault defines specific failure behavior.
type Fault struct {
	FailAfterBytes int64 // Fail writes once this many bytes have been written to the file. -1 to disable.
	FailOnSync     bool
	FailOnClose    bool
	FailOnRename   bool // applies to the source name
	FailOnChown    bool
	FailOnChmod    bool
	Err            error
}

func (f Fault) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrInjected
}

// Fs is an afero.Fs that fails on files matching a rule.
type Fs struct {
	afero.Fs

	mu    sync.Mutex
	rules map[string]Fault // substring of the name -> Fault
}

// New wraps 'fs', or a fresh afero.MemMapFs if nil.
func New(fs afero.Fs) *Fs {
	if fs == nil {
		fs = afero.NewMemMapFs()
	}
	return &Fs{
		Fs:    fs,
		rules: make(map[string]Fault),
	}
}

// AddRule applies 'fault' to every name that contains 'pattern'.
// The zero FailAfterBytes means "fail on the first write", use -1 to write normally.
func (f *Fs) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

func (f *Fs) faultFor(name string) (Fault, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for pattern, rule := range f.rules {
		if strings.Contains(name, pattern) {
			return rule, true
		}
	}
	return Fault{FailAfterBytes: -1}, false
}

// Name implements afero.Fs.
func (f *Fs) Name() string { return "faultfs(" + f.Fs.Name() + ")" }

// Create implements afero.Fs.
func (f *Fs) Create(name string) (afero.File, error) {
	return f.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
}

// Open implements afero.Fs.
func (f *Fs) Open(name string) (afero.File, error) {
	return f.OpenFile(name, os.O_RDONLY, 0)
}

// OpenFile implements afero.Fs.
func (f *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	file, err := f.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	fault, ok := f.faultFor(name)
	if !ok {
		return file, nil
	}
	return &faultyFile{File: file, fault: fault}, nil
}

// Rename implements afero.Fs.
func (f *Fs) Rename(oldname, newname string) error {
	if fault, ok := f.faultFor(oldname); ok && fault.FailOnRename {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: fault.err()}
	}
	return f.Fs.Rename(oldname, newname)
}

// Chown implements afero.Fs.
func (f *Fs) Chown(name string, uid, gid int) error {
	if fault, ok := f.faultFor(name); ok && fault.FailOnChown {
		return &os.PathError{Op: "chown", Path: name, Err: fault.err()}
	}
	return f.Fs.Chown(name, uid, gid)
}

// Chmod implements afero.Fs.
func (f *Fs) Chmod(name string, mode os.FileMode) error {
	if fault, ok := f.faultFor(name); ok && fault.FailOnChmod {
		return &os.PathError{Op: "chmod", Path: name, Err: fault.err()}
	}
	return f.Fs.Chmod(name, mode)
}

type faultyFile struct {
	afero.File
	fault   Fault
	written int64
}

func (ff *faultyFile) Write(p []byte) (int, error) {
	if ff.fault.FailAfterBytes >= 0 && ff.written+int64(len(p)) > ff.fault.FailAfterBytes {
		return 0, &os.PathError{Op: "write", Path: ff.Name(), Err: ff.fault.err()}
	}
	n, err := ff.File.Write(p)
	ff.written += int64(n)
	return n, err
}

func (ff *faultyFile) WriteString(s string) (int, error) {
	return ff.Write([]byte(s))
}

func (ff *faultyFile) Sync() error {
	if ff.fault.FailOnSync {
		return &os.PathError{Op: "sync", Path: ff.Name(), Err: ff.fault.err()}
	}
	return ff.File.Sync()
}

func (ff *faultyFile) Close() error {
	if ff.fault.FailOnClose {
		ff.File.Close()
		return &os.PathError{Op: "close", Path: ff.Name(), Err: ff.fault.err()}
	}
	return ff.File.Close()
}
