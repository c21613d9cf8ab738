// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileorname

import (
	"os"
	"testing"

	"github.com/pkg/errors"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseMode(t *testing.T) {
	Convey("ParseMode", t, FailureContinues, func() {
		Convey("understands the conventional modes", FailureContinues, func() {
			samples := []struct {
				token                      string
				readable, writable, binary bool
				flag                       int
			}{
				{"r", true, false, false, os.O_RDONLY},
				{"rb", true, false, true, os.O_RDONLY},
				{"br", true, false, true, os.O_RDONLY},
				{"rt", true, false, false, os.O_RDONLY},
				{"r+", true, true, false, os.O_RDWR},
				{"r+b", true, true, true, os.O_RDWR},
				{"w", false, true, false, os.O_WRONLY | os.O_CREATE | os.O_TRUNC},
				{"wb", false, true, true, os.O_WRONLY | os.O_CREATE | os.O_TRUNC},
				{"w+", true, true, false, os.O_RDWR | os.O_CREATE | os.O_TRUNC},
				{"a", false, true, false, os.O_WRONLY | os.O_CREATE | os.O_APPEND},
				{"a+", true, true, false, os.O_RDWR | os.O_CREATE | os.O_APPEND},
				{"x", false, true, false, os.O_WRONLY | os.O_CREATE | os.O_EXCL},
			}

			for _, sample := range samples {
				m, err := ParseMode(sample.token)
				So(err, ShouldBeNil)
				So(m.String(), ShouldEqual, sample.token)
				So(m.Staged(), ShouldBeFalse)
				So([]bool{m.Readable(), m.Writable(), m.Binary()}, ShouldResemble,
					[]bool{sample.readable, sample.writable, sample.binary})
				So(m.Flag(), ShouldEqual, sample.flag)
			}
		})

		Convey("accepts staged modes that replace whole files", FailureContinues, func() {
			for _, token := range []string{"sw", "swb", "sbw", "swt", "sw+", "sw+b"} {
				m, err := ParseMode(token)
				So(err, ShouldBeNil)
				So(m.Staged(), ShouldBeTrue)
				So(m.Writable(), ShouldBeTrue)
			}
		})

		Convey("rejects staged modes for reading, appending, or exclusive creation", FailureContinues, func() {
			for _, token := range []string{"sr", "srb", "sr+", "sa", "sab", "sa+", "sx"} {
				_, err := ParseMode(token)
				So(err, ShouldNotBeNil)
				So(errors.Is(err, ErrConfiguration), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, token)
			}
		})

		Convey("rejects malformed tokens", FailureContinues, func() {
			for _, token := range []string{"", "s", "b", "+", "rw", "rr", "r++", "rbb", "rbt", "q", "ss", "ws"} {
				_, err := ParseMode(token)
				So(err, ShouldNotBeNil)
			}
		})

		Convey("MustParseMode panics on bad tokens", func() {
			So(func() { MustParseMode("sr") }, ShouldPanic)
			So(MustParseMode("swb").Binary(), ShouldBeTrue)
		})
	})
}
