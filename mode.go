// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileorname

import (
	"os"
	"strings"
)

// StagedMarker, if it leads a mode, results in writes being shadowed.
const StagedMarker = 's'

// Mode is a parsed mode token, like "r", "wb", or "sw".
type Mode struct {
	raw string

	staged   bool
	readable bool
	writable bool
	binary   bool
	flag     int
}

// ParseMode translates a mode token.
//
// The grammar is that of the conventional file-open modes,
// optionally led by the StagedMarker:
//
//	[s] (r|w|a|x) [+] [b|t]
//
// Letters after the marker may appear in any order, but not twice.
// Staged modes must truncate for writing: "sw", "sw+", "swb", and "swt" are acceptable,
// whereas "sr" is not, and neither are the appending or exclusive variants.
func ParseMode(token string) (Mode, error) {
	m := Mode{raw: token}
	rest := token
	if strings.HasPrefix(rest, string(StagedMarker)) {
		m.staged = true
		rest = rest[1:]
	}

	var (
		kind       rune
		plus, text bool
	)
	for _, r := range rest {
		switch r {
		case 'r', 'w', 'a', 'x':
			if kind != 0 {
				return m, modeError(token, "must have exactly one of r, w, a, x")
			}
			kind = r
		case '+':
			if plus {
				return m, modeError(token, "repeated '+'")
			}
			plus = true
		case 'b':
			if m.binary || text {
				return m, modeError(token, "can be either binary or text, once")
			}
			m.binary = true
		case 't':
			if m.binary || text {
				return m, modeError(token, "can be either binary or text, once")
			}
			text = true
		default:
			return m, modeError(token, "unexpected character "+string(r))
		}
	}

	switch kind {
	case 'r':
		m.readable = true
		m.flag = os.O_RDONLY
		if plus {
			m.writable = true
			m.flag = os.O_RDWR
		}
	case 'w':
		m.writable = true
		m.flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case 'a':
		m.writable = true
		m.flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	case 'x':
		m.writable = true
		m.flag = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	default:
		return m, modeError(token, "must have exactly one of r, w, a, x")
	}
	if plus && kind != 'r' {
		m.readable = true
		m.flag = m.flag&^os.O_WRONLY | os.O_RDWR
	}

	if m.staged {
		switch {
		case !m.writable:
			return m, modeError(token, "staged mode needs a mode for writing")
		case kind != 'w':
			return m, modeError(token, "staged mode replaces whole files, therefore needs 'w'")
		}
	}
	return m, nil
}

// MustParseMode is like ParseMode but panics on errors.
func MustParseMode(token string) Mode {
	m, err := ParseMode(token)
	if err != nil {
		panic(err)
	}
	return m
}

func modeError(token, reason string) error {
	return &ConfigurationError{Mode: token, Reason: reason}
}

// String returns the token the Mode has been parsed from.
func (m Mode) String() string { return m.raw }

// Staged is true if writes go through a shadow.Session.
func (m Mode) Staged() bool { return m.staged }

// Readable is true if the opened file can be read from.
func (m Mode) Readable() bool { return m.readable }

// Writable is true if the opened file can be written to.
func (m Mode) Writable() bool { return m.writable }

// Binary is true if no text encoding is applied.
func (m Mode) Binary() bool { return m.binary }

// Flag returns the flags for os.OpenFile.
func (m Mode) Flag() int { return m.flag }
