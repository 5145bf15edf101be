package resolver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aniflux/aniflux/cache"
	. "github.com/smartystreets/goconvey/convey"
)

// withOpenGuard disables the SSRF policy so tests can target local listeners.
func withOpenGuard() func() {
	prev := targetGuard
	targetGuard = func(context.Context, string) error { return nil }
	return func() { targetGuard = prev }
}

func testOptions() Options {
	return Options{
		FetchTimeout:     2 * time.Second,
		FallbackTimeout:  2 * time.Second,
		Extraction:       testLimits(),
		ParallelAttempts: 2,
		MaxAttempts:      4,
		CacheTTL:         time.Minute,
		ProxyBase:        "/api/proxy",
	}
}

func TestResolve(t *testing.T) {
	Convey("Resolve", t, func() {
		restore := withOpenGuard()
		defer restore()

		Convey("Should resolve an embed page end to end", func() {
			var hits int64
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt64(&hits, 1)
				fmt.Fprint(w, `<html><script>var player = {sources: [{file: "https://cdn.example/v.m3u8"}]};</script></html>`)
			}))
			defer srv.Close()

			store := cache.NewMemory[Result]()
			engine := New(testOptions(), store)

			target := DecodeTarget(EncodeTarget(srv.URL + "/embed/abc"))
			result := engine.Resolve(context.Background(), Request{TargetURL: target, Referer: "https://site.example"})

			So(result.OK, ShouldBeTrue)
			So(result.URLs, ShouldHaveLength, 1)
			So(result.URLs[0].Type, ShouldEqual, TypeHLS)
			So(result.URLs[0].URL, ShouldEqual, "https://cdn.example/v.m3u8")
			So(result.URLs[0].ProxiedURL, ShouldNotBeEmpty)

			Convey("And serve the repeat call from cache", func() {
				again := engine.Resolve(context.Background(), Request{TargetURL: target, Referer: "https://site.example"})
				So(again.OK, ShouldBeTrue)
				So(atomic.LoadInt64(&hits), ShouldEqual, 1)
			})
		})

		Convey("Should fail on a non-2xx response and never cache it", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "gone", http.StatusNotFound)
			}))
			defer srv.Close()

			store := cache.NewMemory[Result]()
			engine := New(testOptions(), store)

			result := engine.Resolve(context.Background(), Request{TargetURL: srv.URL})

			So(result.OK, ShouldBeFalse)
			So(result.Message, ShouldEqual, "Failed to fetch: 404 Not Found")
			So(store.Len(), ShouldEqual, 0)
		})

		Convey("Should report an empty extraction as a distinct outcome and not cache it", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `<html><body>nothing to see</body></html>`)
			}))
			defer srv.Close()

			store := cache.NewMemory[Result]()
			engine := New(testOptions(), store)

			result := engine.Resolve(context.Background(), Request{TargetURL: srv.URL})

			So(result.OK, ShouldBeFalse)
			So(result.Message, ShouldEqual, "no urls found")
			So(store.Len(), ShouldEqual, 0)
		})

		Convey("Should refetch after the cache TTL has elapsed", func() {
			var hits int64
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt64(&hits, 1)
				fmt.Fprint(w, `"https://cdn.example/v.m3u8"`)
			}))
			defer srv.Close()

			opts := testOptions()
			opts.CacheTTL = 30 * time.Millisecond
			engine := New(opts, cache.NewMemory[Result]())

			req := Request{TargetURL: srv.URL}
			So(engine.Resolve(context.Background(), req).OK, ShouldBeTrue)

			time.Sleep(60 * time.Millisecond)

			So(engine.Resolve(context.Background(), req).OK, ShouldBeTrue)
			So(atomic.LoadInt64(&hits), ShouldEqual, 2)
		})

		Convey("Should abort a fetch that exceeds its budget", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(500 * time.Millisecond)
			}))
			defer srv.Close()

			opts := testOptions()
			opts.FetchTimeout = 50 * time.Millisecond
			engine := New(opts, cache.NewMemory[Result]())

			result := engine.Resolve(context.Background(), Request{TargetURL: srv.URL})

			So(result.OK, ShouldBeFalse)
			So(result.Message, ShouldContainSubstring, "timed out")
		})

		Convey("Should share one upstream fetch between concurrent identical calls", func() {
			var hits int64
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt64(&hits, 1)
				time.Sleep(100 * time.Millisecond)
				fmt.Fprint(w, `"https://cdn.example/v.m3u8"`)
			}))
			defer srv.Close()

			engine := New(testOptions(), cache.NewMemory[Result]())
			req := Request{TargetURL: srv.URL}

			var wg sync.WaitGroup
			results := make([]Result, 2)
			for i := 0; i < 2; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i] = engine.Resolve(context.Background(), req)
				}(i)
			}
			wg.Wait()

			So(results[0].OK, ShouldBeTrue)
			So(results[1].OK, ShouldBeTrue)
			So(atomic.LoadInt64(&hits), ShouldEqual, 1)
		})
	})

	Convey("Resolve with the default guard", t, func() {
		Convey("Should refuse loopback targets before any network access", func() {
			engine := New(testOptions(), cache.NewMemory[Result]())

			result := engine.Resolve(context.Background(), Request{TargetURL: "http://127.0.0.1:8080/internal"})

			So(result.OK, ShouldBeFalse)
			So(result.Message, ShouldContainSubstring, "blocked host")
		})
	})
}

func TestResolveFirst(t *testing.T) {
	Convey("ResolveFirst", t, func() {
		restore := withOpenGuard()
		defer restore()

		Convey("Should adopt the first successful candidate", func() {
			dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusBadGateway)
			}))
			defer dead.Close()

			alive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `"https://cdn.example/win.m3u8"`)
			}))
			defer alive.Close()

			engine := New(testOptions(), cache.NewMemory[Result]())

			result := engine.ResolveFirst(context.Background(), []Request{
				{TargetURL: dead.URL},
				{TargetURL: alive.URL},
			})

			So(result.OK, ShouldBeTrue)
			So(result.URLs[0].URL, ShouldEqual, "https://cdn.example/win.m3u8")
		})

		Convey("Should fall back sequentially when every parallel attempt fails transiently", func() {
			var calls int64
			flaky := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt64(&calls, 1) == 1 {
					http.Error(w, "warming up", http.StatusServiceUnavailable)
					return
				}
				fmt.Fprint(w, `"https://cdn.example/late.m3u8"`)
			}))
			defer flaky.Close()

			engine := New(testOptions(), cache.NewMemory[Result]())

			result := engine.ResolveFirst(context.Background(), []Request{{TargetURL: flaky.URL}})

			So(result.OK, ShouldBeTrue)
			So(result.URLs[0].URL, ShouldEqual, "https://cdn.example/late.m3u8")
		})

		Convey("Should fail cleanly with no candidates", func() {
			engine := New(testOptions(), cache.NewMemory[Result]())

			result := engine.ResolveFirst(context.Background(), nil)
			So(result.OK, ShouldBeFalse)
		})
	})
}
