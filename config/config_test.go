package config

import (
	"testing"

	"github.com/aniflux/aniflux/filesystem"
	"github.com/aniflux/aniflux/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("Should register the resolver policy knobs", func() {
			_ = Setup()
			So(viper.GetInt(key.ResolverFetchTimeout), ShouldEqual, 3)
			So(viper.GetInt(key.ResolverMaxTotalURLs), ShouldEqual, 15)
			So(viper.GetInt(key.CacheTTL), ShouldEqual, 600)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("resolver.fetch.timeout")
			So(result, ShouldEqual, "resolver_fetch_timeout")
		})
	})
}
