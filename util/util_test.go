package util

import (
	"testing"

	"github.com/aniflux/aniflux/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "source", "sources"), ShouldEqual, "1 source")
		So(Quantify(2, "source", "sources"), ShouldEqual, "2 sources")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestMaxMin(t *testing.T) {
	Convey("Max/Min", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Min(1, 5, 2), ShouldEqual, 1)
	})
}

func TestTruncate(t *testing.T) {
	Convey("Truncate", t, func() {
		Convey("Should cut at the limit", func() {
			So(Truncate("abcdef", 3), ShouldEqual, "abc")
		})
		Convey("Should leave short strings alone", func() {
			So(Truncate("abc", 10), ShouldEqual, "abc")
		})
		Convey("Should treat a non-positive limit as unbounded", func() {
			So(Truncate("abc", 0), ShouldEqual, "abc")
		})
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		Convey("Should remove a file", func() {
			So(filesystem.API().WriteFile("/f.txt", []byte("x"), 0o644), ShouldBeNil)
			So(Delete("/f.txt"), ShouldBeNil)

			exists, _ := filesystem.API().Exists("/f.txt")
			So(exists, ShouldBeFalse)
		})

		Convey("Should remove a directory recursively", func() {
			So(filesystem.API().WriteFile("/dir/nested/f.txt", []byte("x"), 0o644), ShouldBeNil)
			So(Delete("/dir"), ShouldBeNil)

			exists, _ := filesystem.API().Exists("/dir")
			So(exists, ShouldBeFalse)
		})

		Convey("Should report a missing path", func() {
			So(Delete("/absent"), ShouldNotBeNil)
		})
	})
}
