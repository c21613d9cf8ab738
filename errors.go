// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileorname

import (
	"strconv"

	"github.com/pkg/errors"
)

// ErrConfiguration matches every *ConfigurationError using errors.Is.
var ErrConfiguration = errors.New("fileorname: configuration error")

// ConfigurationError is returned for mappings that cannot work,
// always before any file has been opened.
//
// It is not worth retrying.
type ConfigurationError struct {
	Param  string // empty if the mode token itself is at fault
	Mode   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	s := "fileorname: "
	if e.Param != "" {
		s += "parameter " + strconv.Quote(e.Param) + " "
	}
	if e.Mode != "" {
		s += "with mode " + strconv.Quote(e.Mode) + " "
	}
	return s + "is misconfigured: " + e.Reason
}

// Is implements the interface used by errors.Is.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// OpenError is returned if a path cannot be opened for its parameter.
// Files opened for other parameters have been released by then.
type OpenError struct {
	Param string
	Path  string
	Mode  string
	Err   error
}

func (e *OpenError) Error() string {
	return "fileorname: cannot open " + strconv.Quote(e.Path) +
		" (mode " + strconv.Quote(e.Mode) + ") for parameter " + strconv.Quote(e.Param) +
		": " + e.Err.Error()
}

// Unwrap returns the error from opening the file.
func (e *OpenError) Unwrap() error { return e.Err }

// Cause implements the interface used by github.com/pkg/errors.
func (e *OpenError) Cause() error { return e.Err }

// Thrown when reading from or writing to a handle whose mode does not allow that.
var (
	errNotReadable = errors.New("not opened for reading")
	errNotWritable = errors.New("not opened for writing")
	errSeekText    = errors.New("cannot seek in text mode")
)
