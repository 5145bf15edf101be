// Package version provides unified mechanisms for application version tracking, update discovery, and compatibility validation.
package version

import (
	"fmt"

	"github.com/aniflux/aniflux/constant"
	"github.com/aniflux/aniflux/key"
	"github.com/spf13/viper"
)

// Notify displays a terminal alert if a more recent stable application version is available.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	version, err := Latest()
	if err != nil {
		return
	}

	comp, err := Compare(version, constant.Version)
	if err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
New version is available: %s (You're on %s)
https://github.com/aniflux/aniflux/releases/tag/v%s

`, version, constant.Version, version)
}
