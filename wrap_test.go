// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileorname

import (
	"bufio"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	. "github.com/smartystreets/goconvey/convey"
)

var (
	oneValues = []string{"a", "b b", "c c c", "d d d d", "e e e e e"}
	twoValues = []string{"1", "2 2", "3 3 3", "4 4 4 4", "5 5 5 5 5"}
)

var errProducer = errors.New("producer gave up")

func linesOf(r io.Reader) ([]string, error) {
	var lines []string
	s := bufio.NewScanner(r)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	return lines, s.Err()
}

func readTwo(a Args) ([]string, error) {
	one, err := linesOf(a.Reader("f"))
	if err != nil {
		return nil, err
	}
	two, err := linesOf(a.Reader("f2"))
	return append(one, two...), err
}

func lineSeq(a Args) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		s := bufio.NewScanner(a.Reader("f"))
		for s.Scan() {
			if !yield(s.Text(), nil) {
				return
			}
		}
		if err := s.Err(); err != nil {
			yield("", err)
		}
	}
}

func collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for v, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Every file the countingFs has seen opened has been closed exactly once.
func allClosedOnce(fs *countingFs) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for name, n := range fs.opened {
		if n != 1 || fs.closed[name] != 1 {
			return false
		}
	}
	return true
}

func TestWrap(t *testing.T) {
	Convey("Wrap", t, func() {
		base := afero.NewOsFs()
		fs := newCountingFs(base)
		one, two := filepath.Join("testdata", "one.txt"), filepath.Join("testdata", "two.txt")

		Convey("reads from two paths", func() {
			s := MustNewSpec(Signature{"f", "f2"}, WithMode("f", "r"), WithMode("f2", "r"), WithFs(fs))

			got, err := Wrap(s, readTwo)(Args{"f": one, "f2": two})
			So(err, ShouldBeNil)
			So(got, ShouldResemble, append(append([]string{}, oneValues...), twoValues...))
			So(fs.Opened(one), ShouldEqual, 1)
			So(allClosedOnce(fs), ShouldBeTrue)
		})

		Convey("reads single lines from small files", func() {
			dir := t.TempDir()
			a, b := filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")
			writeFile(base, a, "a\n")
			writeFile(base, b, "1\n")
			s := MustNewSpec(Signature{"f", "f2"}, WithMode("f", "r"), WithMode("f2", "r"), WithFs(fs))

			got, err := Wrap(s, readTwo)(s.Signature().MustBind(a, b))
			So(err, ShouldBeNil)
			So(got, ShouldResemble, []string{"a", "1"})
		})

		Convey("leaves parameters alone it has no mode for", func() {
			s := MustNewSpec(Signature{"s", "f"}, WithMode("f", "r"), WithFs(fs))
			random := "XkqyMwZpRbT"

			got, err := Wrap(s, func(a Args) ([]string, error) {
				lines, err := linesOf(a.Reader("f"))
				return append([]string{a.String("s")}, lines...), err
			})(Args{"s": random, "f": one})
			So(err, ShouldBeNil)
			So(got, ShouldResemble, append([]string{random}, oneValues...))
			So(fs.Opened(random), ShouldEqual, 0)
		})

		Convey("returns errors of the operation as they are", func() {
			s := MustNewSpec(Signature{"f"}, WithFs(fs))
			_, err := Wrap(s, func(Args) (int, error) { return 0, errProducer })(Args{"f": one})
			So(err, ShouldEqual, errProducer)
			So(allClosedOnce(fs), ShouldBeTrue)
		})

		Convey("does not call the operation if a file cannot be opened", func() {
			s := MustNewSpec(Signature{"f"}, WithFs(fs))
			called := false
			_, err := Wrap(s, func(Args) (int, error) { called = true; return 0, nil })(Args{"f": "testdata/absent.txt"})

			var oerr *OpenError
			So(errors.As(err, &oerr), ShouldBeTrue)
			So(called, ShouldBeFalse)
		})

		Convey("with a staged parameter", func() {
			dir := t.TempDir()
			target := filepath.Join(dir, "data.txt")
			writeFile(base, target, "old")
			s := MustNewSpec(Signature{"wf", "msg"}, WithMode("wf", "sw"), WithFs(fs))

			Convey("replaces the file on success", func() {
				n, err := Wrap(s, func(a Args) (int, error) {
					return io.WriteString(a.Writer("wf"), a.String("msg"))
				})(Args{"wf": target, "msg": "hello"})
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 5)
				So(readFile(fs, target), ShouldEqual, "hello")
			})

			Convey("keeps the original if the operation fails", func() {
				_, err := Wrap(s, func(a Args) (int, error) {
					a.Writer("wf").Write([]byte(a.String("msg")))
					return 0, errProducer
				})(Args{"wf": target, "msg": "hello"})
				So(err, ShouldEqual, errProducer)
				So(readFile(fs, target), ShouldEqual, "old")

				// The staged file stays for inspection.
				staged, _ := filepath.Glob(filepath.Join(dir, ".data.txt.*"))
				So(staged, ShouldHaveLength, 1)
				So(readFile(fs, staged[0]), ShouldEqual, "hello")
			})

			Convey("keeps the original if the operation panics", func() {
				op := Wrap(s, func(a Args) (int, error) {
					a.Writer("wf").Write([]byte("hello"))
					panic("boom")
				})
				So(func() { op(Args{"wf": target, "msg": "hello"}) }, ShouldPanicWith, "boom")
				So(readFile(fs, target), ShouldEqual, "old")
				So(allClosedOnce(fs), ShouldBeTrue)
			})

			Convey("creates the file if there is none", func() {
				fresh := filepath.Join(dir, "fresh.txt")
				_, err := Wrap(s, func(a Args) (int, error) {
					return io.WriteString(a.Writer("wf"), "hello")
				})(Args{"wf": fresh, "msg": ""})
				So(err, ShouldBeNil)
				So(readFile(fs, fresh), ShouldEqual, "hello")
			})
		})
	})
}

func TestWrapSeq(t *testing.T) {
	Convey("WrapSeq", t, func() {
		base := afero.NewOsFs()
		fs := newCountingFs(base)
		one := filepath.Join("testdata", "one.txt")

		Convey("defaults to reading the first parameter", func() {
			s := MustNewSpec(Signature{"f"}, WithFs(fs))
			seq := WrapSeq(s, lineSeq)(Args{"f": one})
			So(fs.TotalOpened(), ShouldEqual, 0) // nothing until iterated

			got, err := collect(seq)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, oneValues)
			So(allClosedOnce(fs), ShouldBeTrue)
		})

		Convey("releases files if the consumer stops early", func() {
			s := MustNewSpec(Signature{"f"}, WithFs(fs))
			for line, err := range WrapSeq(s, lineSeq)(Args{"f": one}) {
				So(err, ShouldBeNil)
				So(line, ShouldEqual, "a")
				break
			}
			So(fs.Closed(one), ShouldEqual, 1)
		})

		Convey("yields errors of opening", func() {
			s := MustNewSpec(Signature{"f"}, WithFs(fs))
			_, err := collect(WrapSeq(s, lineSeq)(Args{"f": "testdata/absent.txt"}))
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})

		Convey("with a staged parameter", func() {
			dir := t.TempDir()
			target := filepath.Join(dir, "data.txt")
			writeFile(base, target, "old")
			s := MustNewSpec(Signature{"wf", "msg"}, WithMode("wf", "sw"), WithFs(fs))

			words := func(fail bool) func(Args) iter.Seq2[int, error] {
				return func(a Args) iter.Seq2[int, error] {
					return func(yield func(int, error) bool) {
						for _, w := range strings.Fields(a.String("msg")) {
							n, err := io.WriteString(a.Writer("wf"), w)
							if !yield(n, err) {
								return
							}
						}
						if fail {
							yield(0, errProducer)
						}
					}
				}
			}

			Convey("replaces the file once exhausted", func() {
				seq := WrapSeq(s, words(false))(Args{"wf": target, "msg": "hel lo"})
				So(readFile(fs, target), ShouldEqual, "old")

				got, err := collect(seq)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, []int{3, 2})
				So(readFile(fs, target), ShouldEqual, "hello")
			})

			Convey("keeps the original if the consumer stops early", func() {
				for range WrapSeq(s, words(false))(Args{"wf": target, "msg": "hel lo"}) {
					break
				}
				So(readFile(fs, target), ShouldEqual, "old")
				So(allClosedOnce(fs), ShouldBeTrue)
			})

			Convey("keeps the original if the producer fails", func() {
				got, err := collect(WrapSeq(s, words(true))(Args{"wf": target, "msg": "hel lo"}))
				So(err, ShouldEqual, errProducer)
				So(got, ShouldResemble, []int{3, 2})
				So(readFile(fs, target), ShouldEqual, "old")
			})
		})
	})
}

func TestWithDefault(t *testing.T) {
	Convey("A parameter with a default", t, func() {
		base := afero.NewOsFs()
		fs := newCountingFs(base)
		one, two := filepath.Join("testdata", "one.txt"), filepath.Join("testdata", "two.txt")
		s := MustNewSpec(Signature{"f"}, WithDefault("f", one), WithFs(fs))
		read := Wrap(s, func(a Args) ([]string, error) { return linesOf(a.Reader("f")) })

		Convey("opens the default path if nothing has been given", func() {
			got, err := read(Args{})
			So(err, ShouldBeNil)
			So(got, ShouldResemble, oneValues)
			So(allClosedOnce(fs), ShouldBeTrue)
		})

		Convey("yields to what has been given", func() {
			got, err := read(Args{"f": two})
			So(err, ShouldBeNil)
			So(got, ShouldResemble, twoValues)
			So(fs.Opened(one), ShouldEqual, 0)
		})

		Convey("needs to be declared", func() {
			_, err := NewSpec(Signature{"f"}, WithDefault("g", one))
			So(errors.Is(err, ErrConfiguration), ShouldBeTrue)
		})
	})
}
