package resolver

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRankProvider(t *testing.T) {
	Convey("RankProvider", t, func() {
		Convey("Should match known providers by hostname substring", func() {
			p := RankProvider("https://mcloud.megacloud.tv/e/v.m3u8")
			So(p.Description, ShouldEqual, "MegaCloud")
			So(p.Reliability, ShouldEqual, 95)
		})

		Convey("Should rank a higher-priority provider above a lower one", func() {
			high := RankProvider("https://s1.vidcloud9.com/v.m3u8")
			low := RankProvider("https://d1.dood.watch/v.mp4")
			So(high.Reliability, ShouldBeGreaterThan, low.Reliability)
		})

		Convey("Should assign the default score to unknown hostnames", func() {
			p := RankProvider("https://totally-new-host.example/v.mp4")
			So(p.Reliability, ShouldEqual, defaultReliability)
			So(p.Hostname, ShouldEqual, "totally-new-host.example")
		})

		Convey("Should tolerate unparsable URLs", func() {
			p := RankProvider("::not a url::")
			So(p.Reliability, ShouldEqual, defaultReliability)
		})
	})
}

func TestQualityTag(t *testing.T) {
	Convey("QualityTag", t, func() {
		So(QualityTag("https://c.example/v/720p/index.m3u8"), ShouldEqual, "720p")
		So(QualityTag("https://c.example/v.mp4?q=1080P"), ShouldEqual, "1080p")
		So(QualityTag("https://c.example/anime-4k.mp4"), ShouldEqual, "4k")
		So(QualityTag("https://c.example/v.mp4"), ShouldEqual, "")

		Convey("Should not match inside larger words", func() {
			So(QualityTag("https://c.example/x1080pxx/v.mp4"), ShouldEqual, "")
		})
	})
}

func TestProviders(t *testing.T) {
	Convey("Providers", t, func() {
		list := Providers()
		So(len(list), ShouldEqual, len(providerTable))

		Convey("Should return a defensive copy", func() {
			list[0].Reliability = -1
			So(providerTable[0].Reliability, ShouldNotEqual, -1)
		})
	})
}
