package resolver

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func testLimits() Limits {
	return Limits{
		MaxHTMLSize: 2 << 20,
		MaxPerType:  5,
		MaxTotal:    15,
		Budget:      3 * time.Second,
	}
}

func urlsOf(candidates []Candidate) []string {
	urls := make([]string, len(candidates))
	for i, c := range candidates {
		urls[i] = c.URL
	}
	return urls
}

func TestExtract(t *testing.T) {
	Convey("Extract", t, func() {
		Convey("Should extract distinct media URLs and deduplicate repeats", func() {
			doc := `
				<script>
				var a = "https://cdn.example/ep1/master.m3u8";
				var b = "https://cdn.example/ep1/backup.m3u8";
				var c = "https://cdn.example/ep1/fallback.mp4";
				var again = "https://cdn.example/ep1/master.m3u8";
				</script>`

			candidates := Extract(doc, testLimits())
			urls := urlsOf(candidates)

			So(urls, ShouldContain, "https://cdn.example/ep1/master.m3u8")
			So(urls, ShouldContain, "https://cdn.example/ep1/backup.m3u8")
			So(urls, ShouldContain, "https://cdn.example/ep1/fallback.mp4")
			So(len(urls), ShouldEqual, 3)
		})

		Convey("Should never exceed the global cap", func() {
			var b strings.Builder
			for i := 0; i < 40; i++ {
				fmt.Fprintf(&b, "\"https://cdn.example/v%d.m3u8\"\n", i)
			}

			limits := testLimits()
			limits.MaxPerType = 40
			limits.MaxTotal = 4

			candidates := Extract(b.String(), limits)
			So(len(candidates), ShouldEqual, 4)
		})

		Convey("Should cap candidates per pattern kind", func() {
			var b strings.Builder
			for i := 0; i < 10; i++ {
				fmt.Fprintf(&b, "https://cdn.example/v%d.m3u8\n", i)
			}

			limits := testLimits()
			limits.MaxPerType = 2
			limits.MaxTotal = 2

			candidates := Extract(b.String(), limits)
			So(len(candidates), ShouldEqual, 2)
		})

		Convey("Should harvest video and source elements from the DOM", func() {
			doc := `<html><body>
				<video poster="x.jpg"><source src="https://media.example/ep2.mp4" type="video/mp4"></video>
			</body></html>`

			candidates := Extract(doc, testLimits())
			So(urlsOf(candidates), ShouldContain, "https://media.example/ep2.mp4")
		})

		Convey("Should match player sources arrays", func() {
			doc := `<script>var player = { sources: [{file: "https://cdn.example/s1/v.m3u8", label: "auto"}] };</script>`

			candidates := Extract(doc, testLimits())
			So(urlsOf(candidates), ShouldContain, "https://cdn.example/s1/v.m3u8")
		})

		Convey("Should promote known provider relative paths to absolute URLs", func() {
			doc := `<script>player.setup({src: "/v/abc123.mp4"});</script>`

			candidates := Extract(doc, testLimits())
			So(urlsOf(candidates), ShouldContain, "https://www.mp4upload.com/v/abc123.mp4")
		})

		Convey("Should see URLs hidden inside packed script blocks", func() {
			block := packBlock(`file:"0"`, 10, 1, "https://cdn.example/hidden/master.m3u8")

			candidates := Extract("<script>"+block+"</script>", testLimits())
			So(urlsOf(candidates), ShouldContain, "https://cdn.example/hidden/master.m3u8")
		})

		Convey("Should drop candidates that fail validation", func() {
			doc := `
				"ftp://cdn.example/v.mp4"
				"http://localhost/v.m3u8"
				"https://ok.example/v.m3u8"`

			candidates := Extract(doc, testLimits())
			urls := urlsOf(candidates)

			So(urls, ShouldContain, "https://ok.example/v.m3u8")
			So(len(urls), ShouldEqual, 1)
		})

		Convey("Should truncate oversized documents before scanning", func() {
			limits := testLimits()
			limits.MaxHTMLSize = 100

			doc := strings.Repeat("x", 200) + `"https://late.example/v.m3u8"`
			candidates := Extract(doc, limits)
			So(len(candidates), ShouldEqual, 0)
		})

		Convey("Should stop scanning once the wall-clock budget is spent", func() {
			limits := testLimits()
			limits.Budget = -time.Second

			doc := `"https://cdn.example/v.m3u8"`
			So(len(Extract(doc, limits)), ShouldEqual, 0)
		})
	})
}

func TestDeepScan(t *testing.T) {
	Convey("Deep scan", t, func() {
		encoded := base64.StdEncoding.EncodeToString([]byte(`{"file":"https://edge.example/deep/stream.m3u8"}`))

		Convey("Should decode base64 blobs when an obfuscation-heavy provider is mentioned", func() {
			doc := `<script>/* megacloud loader */ var payload = "` + encoded + `";</script>`

			candidates := Extract(doc, testLimits())
			So(urlsOf(candidates), ShouldContain, "https://edge.example/deep/stream.m3u8")
		})

		Convey("Should skip the pass when no trigger provider is present", func() {
			doc := `<script>var payload = "` + encoded + `";</script>`

			candidates := Extract(doc, testLimits())
			So(urlsOf(candidates), ShouldNotContain, "https://edge.example/deep/stream.m3u8")
		})

		Convey("Should capture player call arguments even without a media extension", func() {
			doc := `<script>// filemoon
				loadVideo("https://push.example/play/clip");
			</script>`

			candidates := Extract(doc, testLimits())
			So(urlsOf(candidates), ShouldContain, "https://push.example/play/clip")
		})
	})
}
