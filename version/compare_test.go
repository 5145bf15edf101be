package version

import (
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Compare", t, func() {
		Convey("Should order versions component by component", func() {
			So(lo.Must(Compare("1.2.3", "1.2.2")), ShouldEqual, 1)
			So(lo.Must(Compare("1.2.3", "1.3.0")), ShouldEqual, -1)
			So(lo.Must(Compare("2.0.0", "1.9.9")), ShouldEqual, 1)
			So(lo.Must(Compare("0.1.0", "0.1.0")), ShouldEqual, 0)
		})

		Convey("Should ignore a leading v", func() {
			So(lo.Must(Compare("v1.0.1", "1.0.0")), ShouldEqual, 1)
		})

		Convey("Should reject malformed input", func() {
			_, err := Compare("not-a-version", "1.0.0")
			So(err, ShouldNotBeNil)
		})
	})
}
