// Package main is the entry point for the aniflux service.
package main

import (
	"github.com/aniflux/aniflux/cmd"
	"github.com/aniflux/aniflux/config"
	"github.com/aniflux/aniflux/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
