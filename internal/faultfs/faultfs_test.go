// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package faultfs

import (
	"os"
	"testing"

	"github.com/spf13/afero"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFs(t *testing.T) {
	Convey("faultfs", t, func() {
		fs := New(nil)
		fs.AddRule("bad", Fault{FailAfterBytes: 4, FailOnSync: true, FailOnRename: true, FailOnChmod: true})

		Convey("passes files without a rule through", func() {
			So(afero.WriteFile(fs, "/good", []byte("contents"), 0644), ShouldBeNil)
			So(fs.Rename("/good", "/better"), ShouldBeNil)
			So(fs.Chmod("/better", 0600), ShouldBeNil)
			got, err := afero.ReadFile(fs, "/better")
			So(err, ShouldBeNil)
			So(string(got), ShouldEqual, "contents")
		})

		Convey("fails writes beyond the limit", func() {
			f, err := fs.Create("/bad")
			So(err, ShouldBeNil)
			defer f.Close()

			n, err := f.Write([]byte("1234"))
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 4)
			_, err = f.Write([]byte("5"))
			So(err, ShouldNotBeNil)
			So(os.IsNotExist(err), ShouldBeFalse)
			So(f.Sync(), ShouldNotBeNil)
		})

		Convey("fails metadata changes and renames", func() {
			So(afero.WriteFile(fs.Fs, "/bad", nil, 0644), ShouldBeNil)
			So(fs.Chmod("/bad", 0600), ShouldNotBeNil)
			So(fs.Rename("/bad", "/elsewhere"), ShouldNotBeNil)
			_, err := fs.Stat("/bad")
			So(err, ShouldBeNil)
		})

		Convey("uses its own error unless one has been given", func() {
			So(Fault{}.err(), ShouldEqual, ErrInjected)
			So(Fault{Err: os.ErrPermission}.err(), ShouldEqual, os.ErrPermission)
		})
	})
}
