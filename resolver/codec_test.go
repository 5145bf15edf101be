package resolver

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDecodeTarget(t *testing.T) {
	Convey("DecodeTarget", t, func() {
		Convey("Should round-trip any encoded URL", func() {
			for _, target := range []string{
				"https://host.example/embed/abc",
				"https://cdn.example/v.m3u8?token=a+b/c=",
				"http://e.example/watch?ep=1&s=dub",
			} {
				So(DecodeTarget(EncodeTarget(target)), ShouldEqual, target)
			}
		})

		Convey("Should repair missing padding", func() {
			// "https://a.example/x" encodes to a length not divisible by 4.
			encoded := strings.TrimRight(EncodeTarget("https://a.example/x"), "=")
			So(DecodeTarget(encoded), ShouldEqual, "https://a.example/x")
		})

		Convey("Should map url-safe characters back before decoding", func() {
			So(DecodeTarget("aHR0cHM6Ly9ob3N0LmV4YW1wbGUvZW1iZWQvYWJj"), ShouldEqual, "https://host.example/embed/abc")
		})

		Convey("Should fall back to the literal input on malformed encoding", func() {
			So(DecodeTarget("https://host.example/embed/abc"), ShouldEqual, "https://host.example/embed/abc")
			So(DecodeTarget("!!not base64!!"), ShouldEqual, "!!not base64!!")
		})
	})
}

func TestCacheKey(t *testing.T) {
	Convey("CacheKey", t, func() {
		Convey("Should be deterministic", func() {
			a := CacheKey("https://h.example/e/1", "https://site.example")
			b := CacheKey("https://h.example/e/1", "https://site.example")
			So(a, ShouldEqual, b)
		})

		Convey("Should distinguish referers", func() {
			a := CacheKey("https://h.example/e/1", "https://site.example")
			b := CacheKey("https://h.example/e/1", "")
			So(a, ShouldNotEqual, b)
		})

		Convey("Should carry the resolve prefix and stay key-safe", func() {
			k := CacheKey("https://h.example/e/1?b=+/=", "r")
			So(k, ShouldStartWith, "resolve:")
			So(k, ShouldNotContainSubstring, "+")
			So(k, ShouldNotContainSubstring, "/")
			So(k, ShouldNotContainSubstring, "=")
		})
	})
}
