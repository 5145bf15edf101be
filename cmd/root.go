// Package cmd implements the command-line interface for aniflux.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/aniflux/aniflux/constant"
	"github.com/aniflux/aniflux/key"
	"github.com/aniflux/aniflux/log"
	"github.com/aniflux/aniflux/util"
	"github.com/aniflux/aniflux/version"
	"github.com/aniflux/aniflux/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	// Initialize cleanup of localized temporary files on application startup.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd defines the entry point for the aniflux application.
var rootCmd = &cobra.Command{
	Use:   constant.Aniflux,
	Short: "A video-source resolution service for anime streaming",
	Long: constant.Aniflux + " resolves third-party embed pages into ranked, playable stream URLs.\n" +
		"Run \"" + constant.Aniflux + " serve\" to expose the resolve API, or \"" +
		constant.Aniflux + " resolve\" for one-shot lookups.",
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(cmd.Help())
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "error: %s\n", strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
