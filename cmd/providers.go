// Package cmd implements the command-line interface for aniflux.
package cmd

import (
	"fmt"
	"os"

	"github.com/aniflux/aniflux/resolver"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(providersCmd)

	providersCmd.Flags().StringP("filter", "f", "", "Fuzzy-match provider names")
	providersCmd.Flags().BoolP("raw", "r", false, "Suppress the header in the output")
	providersCmd.SetOut(os.Stdout)
}

// providersCmd displays the static provider reliability table the ranker uses.
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Display the hosting provider reliability table",
	Run: func(cmd *cobra.Command, args []string) {
		filter := lo.Must(cmd.Flags().GetString("filter"))
		raw := lo.Must(cmd.Flags().GetBool("raw"))

		providers := resolver.Providers()
		if filter != "" {
			providers = lo.Filter(providers, func(p resolver.ProviderInfo, _ int) bool {
				return fuzzy.MatchFold(filter, p.Description) || fuzzy.MatchFold(filter, p.Hostname)
			})
		}

		if !raw {
			cmd.Println("Providers (reliability, highest priority first):")
		}

		for _, p := range providers {
			cmd.Println(fmt.Sprintf("%3d  %-14s %s", p.Reliability, p.Hostname, p.Description))
		}
	},
}
