// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"math"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

const (
	// unsafeRunes are not safe to use with network shares.
	unsafeRunes = `"*:<>?|\`

	runeSpatium = '\u2009'
)

// Not all runes in unicode.PrintRanges are suitable for filenames.
var excludedRunes = &unicode.RangeTable{
	R16: []unicode.Range16{
		{0x2028, 0x202f, 1}, // new line, paragraph etc.
		{0xfff0, 0xffff, 1}, // specials, and invalid
	},
}

var errOutOfBounds = errors.New("value out of bounds")

// unacceptableNameError is returned for targets fon will not create.
type unacceptableNameError string

func (e unacceptableNameError) Error() string {
	return "not an acceptable file name: " + strconv.Quote(string(e))
}

// namePolicy decides which names fon will write files under.
type namePolicy struct {
	ranges []*unicode.RangeTable // nil for any printable rune
	form   *norm.Form            // nil if any is fine
}

var normForms = map[string]norm.Form{
	"nfc":  norm.NFC,
	"nfd":  norm.NFD,
	"nfkc": norm.NFKC,
	"nfkd": norm.NFKD,
}

func newNamePolicy(cfg NamesConfig) (*namePolicy, error) {
	p := &namePolicy{}
	if cfg.Ranges != "" {
		rt, err := parseRanges(cfg.Ranges)
		if err != nil {
			return nil, errors.Wrap(err, "names.ranges")
		}
		p.ranges = []*unicode.RangeTable{rt}
	}
	if f, ok := normForms[cfg.Form]; ok {
		p.form = &f
	}
	return p, nil
}

// check returns an error if the last element of 'path' is not acceptable.
func (p *namePolicy) check(path string) error {
	if name := filepath.Base(path); !p.acceptable(name) {
		return unacceptableNameError(name)
	}
	return nil
}

// acceptable is true for names in the policy's alphabet.
//
// Of all runes representing space, only U+0020 and U+2009 (spatium) are accepted.
// Names are not transliterated.
func (p *namePolicy) acceptable(s string) bool {
	if p.form != nil && !p.form.IsNormalString(s) {
		return false
	}

	for _, r := range s {
		if p.ranges != nil && !unicode.In(r, p.ranges...) {
			return false
		}
		if r <= unicode.MaxLatin1 && strings.ContainsRune(unsafeRunes, r) {
			return false
		}
		if r == runeSpatium {
			continue
		}
		if unicode.Is(excludedRunes, r) || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

// parseRanges translates space-delimited Unicode ranges into a unicode.RangeTable.
//
// One range is written as follows, with 'stride' being 1 if left out:
//
//	<low>-<high>[:<stride>]
//
// Bounds are hexadecimal, prefixed by x or u. Ranges must not overlap.
func parseRanges(str string) (*unicode.RangeTable, error) {
	var (
		have [][3]uint64
		s    scanner.Scanner
	)
	s.Init(strings.NewReader(str))
	unexpected := func() error {
		return errors.Errorf("unexpected Unicode range at %s", s.Pos())
	}
	bound := func() (uint64, error) {
		if s.Scan() != scanner.Ident {
			return 0, unexpected()
		}
		v, err := strconv.ParseUint(strings.TrimLeft(s.TokenText(), "uU+x"), 16, 32)
		if err != nil {
			return 0, unexpected()
		}
		return v, nil
	}

	for s.Peek() != scanner.EOF {
		if tok := s.Peek(); tok == ' ' || tok == '\t' || tok == '\n' {
			s.Next()
			continue
		}
		if s.Peek() == '/' { // a comment ends the list
			break
		}

		low, err := bound()
		if err != nil {
			return nil, err
		}
		if tok := s.Scan(); tok != '-' && tok != '–' {
			return nil, unexpected()
		}
		high, err := bound()
		if err != nil {
			return nil, err
		}

		stride := uint64(1)
		if s.Peek() == ':' {
			s.Next()
			if s.Scan() != scanner.Int {
				return nil, unexpected()
			}
			if stride, err = strconv.ParseUint(s.TokenText(), 10, 32); err != nil {
				return nil, unexpected()
			}
		}
		have = append(have, [3]uint64{low, high, stride})
	}

	slices.SortFunc(have, func(a, b [3]uint64) int {
		return slices.Compare(a[:], b[:])
	})

	rt := &unicode.RangeTable{}
	for _, r := range have {
		switch {
		case r[1] > math.MaxUint32:
			return nil, errOutOfBounds
		case r[1] > math.MaxUint16:
			rt.R32 = append(rt.R32, unicode.Range32{Lo: uint32(r[0]), Hi: uint32(r[1]), Stride: uint32(r[2])})
		default:
			if r[1] <= unicode.MaxLatin1 {
				rt.LatinOffset++
			}
			rt.R16 = append(rt.R16, unicode.Range16{Lo: uint16(r[0]), Hi: uint16(r[1]), Stride: uint16(r[2])})
		}
	}
	return rt, nil
}
