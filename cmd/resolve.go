// Package cmd implements the command-line interface for aniflux.
package cmd

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/aniflux/aniflux/cache"
	"github.com/aniflux/aniflux/resolver"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringP("referer", "r", "", "Referer header forwarded to the embed host")
	resolveCmd.Flags().BoolP("debug", "d", false, "Log every extracted candidate")

	resolveCmd.AddCommand(resolveSchemaCmd)
	resolveCmd.SetOut(os.Stdout)
}

// resolveCmd performs a one-shot resolution and prints the JSON result,
// the scripting-friendly twin of the serve endpoint. Several candidate pages
// for the same episode may be given; the first one that yields sources wins.
var resolveCmd = &cobra.Command{
	Use:   "resolve <url|base64url>...",
	Short: "Resolve embed page candidates into ranked stream URLs",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		referer := lo.Must(cmd.Flags().GetString("referer"))
		debug := lo.Must(cmd.Flags().GetBool("debug"))

		reqs := make([]resolver.Request, 0, len(args))
		for _, arg := range args {
			target := arg
			if !strings.Contains(target, "://") {
				target = resolver.DecodeTarget(target)
			}
			reqs = append(reqs, resolver.Request{
				TargetURL: target,
				Referer:   referer,
				Debug:     debug,
			})
		}

		store := cache.NewMemory[resolver.Result]()
		engine := resolver.New(resolver.OptionsFromConfig(), store)

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(engine.ResolveFirst(ctx, reqs)))
	},
}

// resolveSchemaCmd generates the JSON schema for resolution results.
var resolveSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema for resolution result objects",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true

		schema := reflector.Reflect(&resolver.Result{})
		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}
